package xlwrite

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelizeBackend implements Backend using excelize.
type ExcelizeBackend struct {
	// Options are passed to excelize when a template is opened.
	Options []excelize.Options
}

var _ Backend = (*ExcelizeBackend)(nil)

// NewExcelizeBackend creates the default backend.
func NewExcelizeBackend(opts ...excelize.Options) *ExcelizeBackend {
	return &ExcelizeBackend{Options: opts}
}

// CreateOrOpen reads template when given, otherwise starts an empty workbook.
func (b *ExcelizeBackend) CreateOrOpen(_ *Workbook, template io.Reader) (Document, error) {
	if template == nil {
		return NewExcelizeDocument(excelize.NewFile()), nil
	}
	f, err := excelize.OpenReader(template, b.Options...)
	if err != nil {
		return nil, fmt.Errorf("open template reader: %w", err)
	}
	return NewExcelizeDocument(f), nil
}

// ExcelizeDocument implements Document on an excelize file.
type ExcelizeDocument struct {
	file   *excelize.File
	sheets map[string]*ExcelizeSheet // sheet name → handle, so row tracking survives lookups
}

// NewExcelizeDocument wraps an excelize file.
func NewExcelizeDocument(f *excelize.File) *ExcelizeDocument {
	return &ExcelizeDocument{file: f, sheets: make(map[string]*ExcelizeSheet)}
}

// File returns the underlying excelize file for advanced operations.
func (d *ExcelizeDocument) File() *excelize.File {
	return d.file
}

// SheetAt returns the sheet at the given position in the workbook's sheet list.
func (d *ExcelizeDocument) SheetAt(index int) (SheetHandle, error) {
	names := d.file.GetSheetList()
	if index < 0 || index >= len(names) {
		return nil, fmt.Errorf("sheet %d: %w", index, ErrSheetNotFound)
	}
	return d.sheet(index, names[index])
}

// CreateSheet adds a sheet. Without a name the sheet is called "Sheet<index+1>",
// suffixed when that name is taken. A name that is already used is rejected
// with ErrInvalidArgument.
func (d *ExcelizeDocument) CreateSheet(index int, name string) (SheetHandle, error) {
	if name == "" {
		name = d.freeSheetName(index)
	} else if d.hasSheet(name) {
		return nil, fmt.Errorf("%w: create sheet %q: name already used", ErrInvalidArgument, name)
	}
	if _, err := d.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	return d.sheet(index, name)
}

func (d *ExcelizeDocument) freeSheetName(index int) string {
	name := fmt.Sprintf("Sheet%d", index+1)
	for n := 1; d.hasSheet(name); n++ {
		name = fmt.Sprintf("Sheet%d_%d", index+1, n)
	}
	return name
}

func (d *ExcelizeDocument) hasSheet(name string) bool {
	idx, err := d.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func (d *ExcelizeDocument) sheet(index int, name string) (*ExcelizeSheet, error) {
	if s, ok := d.sheets[name]; ok {
		return s, nil
	}
	rows, err := d.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", name, err)
	}
	s := &ExcelizeSheet{doc: d, index: index, name: name, lastRow: len(rows) - 1}
	d.sheets[name] = s
	return s, nil
}

// Write writes the workbook to w.
func (d *ExcelizeDocument) Write(w io.Writer) error {
	if w == nil {
		return errors.New("no output to write to")
	}
	return d.file.Write(w)
}

// Close closes the underlying excelize file.
func (d *ExcelizeDocument) Close() error {
	return d.file.Close()
}

// ExcelizeSheet implements SheetHandle.
type ExcelizeSheet struct {
	doc     *ExcelizeDocument
	index   int
	name    string
	lastRow int
}

// Index returns the sheet number the handle was requested for.
func (s *ExcelizeSheet) Index() int { return s.index }

// Name returns the excelize sheet name.
func (s *ExcelizeSheet) Name() string { return s.name }

// LastRowNum returns the 0-based index of the last row read or created, -1 when empty.
func (s *ExcelizeSheet) LastRowNum() int { return s.lastRow }

// CreateRow returns a handle for the 0-based row and records it as written.
func (s *ExcelizeSheet) CreateRow(rowIndex int) (RowHandle, error) {
	if rowIndex < 0 || rowIndex >= excelize.TotalRows {
		return nil, fmt.Errorf("create row %d in sheet %q: %w", rowIndex, s.name, excelize.ErrMaxRows)
	}
	if rowIndex > s.lastRow {
		s.lastRow = rowIndex
	}
	return &ExcelizeRow{sheet: s, index: rowIndex}, nil
}

// AddMergedRegion merges the cells covered by r.
func (s *ExcelizeSheet) AddMergedRegion(r CellRange) error {
	if err := s.doc.file.MergeCell(s.name, r.TopLeft(), r.BottomRight()); err != nil {
		return fmt.Errorf("merge cells %s in sheet %q: %w", r, s.name, err)
	}
	return nil
}

// FreezeRows freezes the top rows of the sheet.
func (s *ExcelizeSheet) FreezeRows(rows int) error {
	if rows <= 0 {
		return nil
	}
	return s.doc.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      rows,
		TopLeftCell: CellName(rows, 0),
		ActivePane:  "bottomLeft",
	})
}

// ExcelizeRow implements RowHandle.
type ExcelizeRow struct {
	sheet *ExcelizeSheet
	index int
}

// RowNum returns the 0-based row index.
func (r *ExcelizeRow) RowNum() int { return r.index }

// CreateCell writes value into the cell at colIndex of this row. A
// HyperlinkValue is written as its display text with an external link.
func (r *ExcelizeRow) CreateCell(colIndex int, value any) (CellHandle, error) {
	name, err := excelize.CoordinatesToCellName(colIndex+1, r.index+1)
	if err != nil {
		return nil, fmt.Errorf("create cell %d in row %d: %w", colIndex, r.index, err)
	}
	f := r.sheet.doc.file
	if link, ok := value.(HyperlinkValue); ok {
		if err := f.SetCellValue(r.sheet.name, name, link.String()); err != nil {
			return nil, fmt.Errorf("set cell %s in sheet %q: %w", name, r.sheet.name, err)
		}
		if err := f.SetCellHyperLink(r.sheet.name, name, link.URL, "External"); err != nil {
			return nil, fmt.Errorf("set hyperlink %s in sheet %q: %w", name, r.sheet.name, err)
		}
		return &ExcelizeCell{row: r.index, col: colIndex, value: value}, nil
	}
	if err := f.SetCellValue(r.sheet.name, name, value); err != nil {
		return nil, fmt.Errorf("set cell %s in sheet %q: %w", name, r.sheet.name, err)
	}
	return &ExcelizeCell{row: r.index, col: colIndex, value: value}, nil
}

// ExcelizeCell implements CellHandle.
type ExcelizeCell struct {
	row   int
	col   int
	value any
}

// RowIndex returns the 0-based row of the cell.
func (c *ExcelizeCell) RowIndex() int { return c.row }

// ColumnIndex returns the 0-based column of the cell.
func (c *ExcelizeCell) ColumnIndex() int { return c.col }

// Value returns the value passed to CreateCell.
func (c *ExcelizeCell) Value() any { return c.value }
