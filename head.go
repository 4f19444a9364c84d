package xlwrite

// Head is one header column.
type Head struct {
	// Index is the 0-based column the header is written to.
	Index int
	// Names holds the display name for each header row.
	Names []string
	// Link, when set, turns every non-blank header cell of the column into a
	// hyperlink to this URL.
	Link string
}

// Name returns the display name for the 0-based header row. Rows past the end
// of Names repeat the last name, so a short column spans the whole header block.
func (h *Head) Name(row int) string {
	if len(h.Names) == 0 || row < 0 {
		return ""
	}
	if row >= len(h.Names) {
		return h.Names[len(h.Names)-1]
	}
	return h.Names[row]
}

// Value returns the cell value written for the 0-based header row: the name,
// or a HyperlinkValue when the column carries a Link.
func (h *Head) Value(row int) any {
	name := h.Name(row)
	if h.Link == "" || name == "" {
		return name
	}
	return Hyperlink(h.Link, name)
}

// HeadSpec describes a header block.
type HeadSpec interface {
	// HeadList returns the header columns in write order.
	HeadList() []*Head
	// HeadRowNumber returns the number of header rows.
	HeadRowNumber() int
	// MergedRegions returns rectangles relative to row 0 of the header block.
	MergedRegions() []CellRange
	// HasHead reports whether there is anything to write.
	HasHead() bool
}

// HeadProperty is the default HeadSpec, built from a list of header names per column.
// It is immutable once built.
type HeadProperty struct {
	heads   []*Head
	rows    int
	regions []CellRange
}

var _ HeadSpec = (*HeadProperty)(nil)

// NewHeadProperty builds header metadata from head, which holds one slice of
// names per column. Adjacent cells with the same name are merged, first to the
// right and then downwards. links[i], when given and non-empty, becomes the
// Link of column i.
func NewHeadProperty(head [][]string, links ...string) *HeadProperty {
	hp := &HeadProperty{}
	for i, names := range head {
		h := &Head{Index: i, Names: append([]string(nil), names...)}
		if i < len(links) {
			h.Link = links[i]
		}
		hp.heads = append(hp.heads, h)
		if len(names) > hp.rows {
			hp.rows = len(names)
		}
	}
	hp.regions = mergedRegions(hp.heads, hp.rows)
	return hp
}

func (hp *HeadProperty) HeadList() []*Head          { return hp.heads }
func (hp *HeadProperty) HeadRowNumber() int         { return hp.rows }
func (hp *HeadProperty) MergedRegions() []CellRange { return hp.regions }

func (hp *HeadProperty) HasHead() bool {
	return len(hp.heads) > 0 && hp.rows > 0
}

// mergedRegions groups identical adjacent names into rectangles. Every cell
// belongs to at most one rectangle; single cells produce none.
func mergedRegions(heads []*Head, rows int) []CellRange {
	if len(heads) == 0 || rows == 0 {
		return nil
	}
	used := make([][]bool, len(heads))
	for i := range used {
		used[i] = make([]bool, rows)
	}

	var regions []CellRange
	for col := range heads {
		for row := 0; row < rows; row++ {
			if used[col][row] {
				continue
			}
			name := heads[col].Name(row)
			if name == "" {
				continue
			}

			lastCol := col
			for c := col + 1; c < len(heads); c++ {
				if used[c][row] || heads[c].Name(row) != name {
					break
				}
				lastCol = c
			}

			lastRow := row
			for r := row + 1; r < rows; r++ {
				same := true
				for c := col; c <= lastCol; c++ {
					if used[c][r] || heads[c].Name(r) != name {
						same = false
						break
					}
				}
				if !same {
					break
				}
				lastRow = r
			}

			for c := col; c <= lastCol; c++ {
				for r := row; r <= lastRow; r++ {
					used[c][r] = true
				}
			}
			if lastCol > col || lastRow > row {
				regions = append(regions, NewCellRange(row, lastRow, col, lastCol))
			}
		}
	}
	return regions
}
