package xlwrite

import "fmt"

// CellRange is an axis-aligned rectangle of cells, 0-based and inclusive on
// both ends. Header merged regions are expressed relative to the first header
// row and translated to absolute rows before they reach the backend.
type CellRange struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// NewCellRange creates a CellRange.
func NewCellRange(firstRow, lastRow, firstCol, lastCol int) CellRange {
	return CellRange{FirstRow: firstRow, LastRow: lastRow, FirstCol: firstCol, LastCol: lastCol}
}

// Translate returns the range moved down by rowOffset rows.
func (r CellRange) Translate(rowOffset int) CellRange {
	r.FirstRow += rowOffset
	r.LastRow += rowOffset
	return r
}

// TopLeft returns the A1 name of the first cell, e.g. "A1".
func (r CellRange) TopLeft() string {
	return CellName(r.FirstRow, r.FirstCol)
}

// BottomRight returns the A1 name of the last cell.
func (r CellRange) BottomRight() string {
	return CellName(r.LastRow, r.LastCol)
}

// Contains reports whether the 0-based (row, col) lies inside the range.
func (r CellRange) Contains(row, col int) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

// String formats the range as "A1:C2".
func (r CellRange) String() string {
	return r.TopLeft() + ":" + r.BottomRight()
}

// CellName returns the A1 name for a 0-based row and column.
func CellName(row, col int) string {
	return ColToName(col) + fmt.Sprintf("%d", row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
