package xlwrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// recorder collects handler and backend events in call order.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// allHandler implements every handler interface.
type allHandler struct {
	name string
	rec  *recorder
}

func (h *allHandler) BeforeWorkbookCreate() { h.rec.add("%s:before-workbook", h.name) }
func (h *allHandler) AfterWorkbookCreate(*WorkbookHolder) {
	h.rec.add("%s:after-workbook", h.name)
}
func (h *allHandler) BeforeSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.rec.add("%s:before-sheet %d", h.name, sh.SheetNo())
}
func (h *allHandler) AfterSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.rec.add("%s:after-sheet %d", h.name, sh.SheetNo())
}
func (h *allHandler) BeforeRowCreate(_ *SheetHolder, _ *TableHolder, rowIndex, rel int, isHead bool) {
	h.rec.add("%s:before-row %d/%d head=%t", h.name, rowIndex, rel, isHead)
}
func (h *allHandler) AfterRowCreate(_ *SheetHolder, _ *TableHolder, row RowHandle, rel int, isHead bool) {
	h.rec.add("%s:after-row %d/%d head=%t", h.name, row.RowNum(), rel, isHead)
}
func (h *allHandler) BeforeCellCreate(_ *SheetHolder, _ *TableHolder, row RowHandle, head *Head, rel int, _ bool) {
	h.rec.add("%s:before-cell %s", h.name, CellName(row.RowNum(), head.Index))
}
func (h *allHandler) AfterCellCreate(_ *SheetHolder, _ *TableHolder, cell CellHandle, _ *Head, _ int, _ bool) {
	h.rec.add("%s:after-cell %s=%v", h.name, CellName(cell.RowIndex(), cell.ColumnIndex()), cell.Value())
}

// rowHandler implements RowWriteHandler only.
type rowHandler struct {
	name string
	rec  *recorder
}

func (h *rowHandler) BeforeRowCreate(_ *SheetHolder, tb *TableHolder, rowIndex, _ int, _ bool) {
	h.rec.add("%s:before-row %d table=%t", h.name, rowIndex, tb != nil)
}
func (h *rowHandler) AfterRowCreate(_ *SheetHolder, tb *TableHolder, row RowHandle, _ int, _ bool) {
	h.rec.add("%s:after-row %d table=%t", h.name, row.RowNum(), tb != nil)
}

// sheetHandler implements SheetWriteHandler only.
type sheetHandler struct {
	name string
	rec  *recorder
}

func (h *sheetHandler) BeforeSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.rec.add("%s:before-sheet %d", h.name, sh.SheetNo())
}
func (h *sheetHandler) AfterSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.rec.add("%s:after-sheet %d", h.name, sh.SheetNo())
}

// legacyHandler records LegacyWriteHandler notifications.
type legacyHandler struct {
	rec *recorder
}

func (h *legacyHandler) Sheet(sheetNo int, _ SheetHandle) { h.rec.add("legacy:sheet %d", sheetNo) }
func (h *legacyHandler) Row(rowNum int, _ RowHandle)      { h.rec.add("legacy:row %d", rowNum) }
func (h *legacyHandler) Cell(rowNum int, cell CellHandle) {
	h.rec.add("legacy:cell %d %s", rowNum, CellName(cell.RowIndex(), cell.ColumnIndex()))
}

// fakeBackend is an in-memory Backend that records structural calls and can
// be told to fail.
type fakeBackend struct {
	rec       *recorder
	createErr error
	writeErr  error
	closeErr  error
	rowErr    error
	sheets    int // sheets present when the document is opened
	doc       *fakeDocument
}

func (b *fakeBackend) CreateOrOpen(*Workbook, io.Reader) (Document, error) {
	if b.rec != nil {
		b.rec.add("backend:open")
	}
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.doc = &fakeDocument{backend: b}
	for i := 0; i < b.sheets; i++ {
		b.doc.sheets = append(b.doc.sheets, &fakeSheet{backend: b, index: i, name: fmt.Sprintf("Sheet%d", i+1), lastRow: -1})
	}
	return b.doc, nil
}

func (b *fakeBackend) add(format string, args ...any) {
	if b.rec != nil {
		b.rec.add(format, args...)
	}
}

type fakeDocument struct {
	backend *fakeBackend
	sheets  []*fakeSheet
	writes  int
	closed  bool
}

func (d *fakeDocument) SheetAt(index int) (SheetHandle, error) {
	for _, s := range d.sheets {
		if s.index == index {
			return s, nil
		}
	}
	return nil, ErrSheetNotFound
}

func (d *fakeDocument) CreateSheet(index int, name string) (SheetHandle, error) {
	d.backend.add("backend:create-sheet %d", index)
	s := &fakeSheet{backend: d.backend, index: index, name: name, lastRow: -1}
	d.sheets = append(d.sheets, s)
	return s, nil
}

func (d *fakeDocument) Write(w io.Writer) error {
	d.backend.add("backend:write")
	d.writes++
	if d.backend.writeErr != nil {
		return d.backend.writeErr
	}
	_, err := io.WriteString(w, "document")
	return err
}

func (d *fakeDocument) Close() error {
	d.backend.add("backend:close")
	d.closed = true
	return d.backend.closeErr
}

type fakeSheet struct {
	backend *fakeBackend
	index   int
	name    string
	lastRow int
	merged  []CellRange
	cells   map[string]any
}

func (s *fakeSheet) Index() int      { return s.index }
func (s *fakeSheet) Name() string    { return s.name }
func (s *fakeSheet) LastRowNum() int { return s.lastRow }

func (s *fakeSheet) CreateRow(rowIndex int) (RowHandle, error) {
	if s.backend.rowErr != nil {
		return nil, s.backend.rowErr
	}
	s.backend.add("backend:create-row %d", rowIndex)
	s.lastRow = max(s.lastRow, rowIndex)
	return &fakeRow{sheet: s, index: rowIndex}, nil
}

func (s *fakeSheet) AddMergedRegion(r CellRange) error {
	s.backend.add("backend:merge %s", r)
	s.merged = append(s.merged, r)
	return nil
}

type fakeRow struct {
	sheet *fakeSheet
	index int
}

func (r *fakeRow) RowNum() int { return r.index }

func (r *fakeRow) CreateCell(colIndex int, value any) (CellHandle, error) {
	name := CellName(r.index, colIndex)
	r.sheet.backend.add("backend:create-cell %s=%v", name, value)
	if r.sheet.cells == nil {
		r.sheet.cells = make(map[string]any)
	}
	r.sheet.cells[name] = value
	return &ExcelizeCell{row: r.index, col: colIndex, value: value}, nil
}

// closeTracker is an output or template stream that records Close calls.
type closeTracker struct {
	bytes.Buffer
	closed   int
	closeErr error
}

func (c *closeTracker) Close() error {
	c.closed++
	return c.closeErr
}

// openXLSX reads a written workbook back for assertions.
func openXLSX(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// templateBytes builds an xlsx with the given rows on Sheet1.
func templateBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

var errBoom = errors.New("boom")
