package xlwrite

import "io"

// Backend materializes workbooks. It owns the file format; the write context
// only stages structure through it.
type Backend interface {
	// CreateOrOpen returns a new document, or one read from template when it is
	// non-nil. The template must be fully consumed before CreateOrOpen returns.
	CreateOrOpen(wb *Workbook, template io.Reader) (Document, error)
}

// Document is an open workbook.
type Document interface {
	// SheetAt returns the sheet at the 0-based index, or ErrSheetNotFound.
	SheetAt(index int) (SheetHandle, error)
	// CreateSheet appends a sheet. An empty name lets the document pick one.
	CreateSheet(index int, name string) (SheetHandle, error)
	// Write encodes the document to w.
	Write(w io.Writer) error
	Close() error
}

// SheetHandle is a sheet inside a Document.
type SheetHandle interface {
	Index() int
	Name() string
	// LastRowNum returns the 0-based index of the last row, or -1 for an empty sheet.
	LastRowNum() int
	CreateRow(rowIndex int) (RowHandle, error)
	AddMergedRegion(r CellRange) error
}

// RowHandle is a row inside a sheet.
type RowHandle interface {
	// RowNum returns the 0-based row index.
	RowNum() int
	CreateCell(colIndex int, value any) (CellHandle, error)
}

// CellHandle is a single written cell.
type CellHandle interface {
	RowIndex() int
	ColumnIndex() int
	Value() any
}

// PaneFreezer is implemented by sheets that can freeze rows at the top.
type PaneFreezer interface {
	FreezeRows(rows int) error
}
