package xlwrite

import "fmt"

// WriteHandler is a lifecycle handler. It must implement at least one of
// WorkbookWriteHandler, SheetWriteHandler, RowWriteHandler or CellWriteHandler;
// a handler implementing several is invoked at each matching point.
type WriteHandler any

// WorkbookWriteHandler is notified around workbook creation.
type WorkbookWriteHandler interface {
	BeforeWorkbookCreate()
	AfterWorkbookCreate(wb *WorkbookHolder)
}

// SheetWriteHandler is notified around sheet creation. It does not fire when a
// sheet is resumed.
type SheetWriteHandler interface {
	BeforeSheetCreate(wb *WorkbookHolder, sh *SheetHolder)
	AfterSheetCreate(wb *WorkbookHolder, sh *SheetHolder)
}

// RowWriteHandler is notified around row creation. tb is nil outside a table.
type RowWriteHandler interface {
	BeforeRowCreate(sh *SheetHolder, tb *TableHolder, rowIndex, relativeRowIndex int, isHead bool)
	AfterRowCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, relativeRowIndex int, isHead bool)
}

// CellWriteHandler is notified around cell creation. tb is nil outside a table.
type CellWriteHandler interface {
	BeforeCellCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, head *Head, relativeRowIndex int, isHead bool)
	AfterCellCreate(sh *SheetHolder, tb *TableHolder, cell CellHandle, head *Head, relativeRowIndex int, isHead bool)
}

// LegacyWriteHandler is the single per-workbook handler notified after each
// sheet, row and cell is created. It runs after the matching After* handlers.
type LegacyWriteHandler interface {
	Sheet(sheetNo int, sheet SheetHandle)
	Row(rowNum int, row RowHandle)
	Cell(rowNum int, cell CellHandle)
}

// HandlerKind identifies a point in the write pipeline.
type HandlerKind int

const (
	KindWorkbook HandlerKind = iota
	KindSheet
	KindRow
	KindCell
)

func (k HandlerKind) String() string {
	switch k {
	case KindWorkbook:
		return "workbook"
	case KindSheet:
		return "sheet"
	case KindRow:
		return "row"
	case KindCell:
		return "cell"
	}
	return fmt.Sprintf("HandlerKind(%d)", int(k))
}

// HandlerMap holds the handlers of one scope grouped by kind, in registration
// order. Capabilities are checked once, when the map is built.
type HandlerMap struct {
	workbook []WorkbookWriteHandler
	sheet    []SheetWriteHandler
	row      []RowWriteHandler
	cell     []CellWriteHandler
}

// NewHandlerMap sorts handlers by capability. A handler with no capability is
// rejected with ErrInvalidArgument.
func NewHandlerMap(handlers ...WriteHandler) (*HandlerMap, error) {
	m := &HandlerMap{}
	for i, h := range handlers {
		matched := false
		if wh, ok := h.(WorkbookWriteHandler); ok {
			m.workbook = append(m.workbook, wh)
			matched = true
		}
		if sh, ok := h.(SheetWriteHandler); ok {
			m.sheet = append(m.sheet, sh)
			matched = true
		}
		if rh, ok := h.(RowWriteHandler); ok {
			m.row = append(m.row, rh)
			matched = true
		}
		if ch, ok := h.(CellWriteHandler); ok {
			m.cell = append(m.cell, ch)
			matched = true
		}
		if !matched {
			return nil, fmt.Errorf("%w: handler %d (%T) implements no write handler interface", ErrInvalidArgument, i, h)
		}
	}
	return m, nil
}

// Len returns the number of handlers registered for kind.
func (m *HandlerMap) Len(kind HandlerKind) int {
	if m == nil {
		return 0
	}
	switch kind {
	case KindWorkbook:
		return len(m.workbook)
	case KindSheet:
		return len(m.sheet)
	case KindRow:
		return len(m.row)
	case KindCell:
		return len(m.cell)
	}
	return 0
}

// Override returns a map where every kind m registers replaces the parent's
// list for that kind, and every other kind is inherited. Lists are not merged.
func (m *HandlerMap) Override(parent *HandlerMap) *HandlerMap {
	if parent == nil {
		parent = &HandlerMap{}
	}
	out := *parent
	if m == nil {
		return &out
	}
	if len(m.workbook) > 0 {
		out.workbook = m.workbook
	}
	if len(m.sheet) > 0 {
		out.sheet = m.sheet
	}
	if len(m.row) > 0 {
		out.row = m.row
	}
	if len(m.cell) > 0 {
		out.cell = m.cell
	}
	return &out
}

func each[H any](handlers []H, fn func(H)) {
	for _, h := range handlers {
		fn(h)
	}
}

func (m *HandlerMap) beforeWorkbookCreate() {
	each(m.workbook, func(h WorkbookWriteHandler) { h.BeforeWorkbookCreate() })
}

func (m *HandlerMap) afterWorkbookCreate(wb *WorkbookHolder) {
	each(m.workbook, func(h WorkbookWriteHandler) { h.AfterWorkbookCreate(wb) })
}

func (m *HandlerMap) beforeSheetCreate(wb *WorkbookHolder, sh *SheetHolder) {
	each(m.sheet, func(h SheetWriteHandler) { h.BeforeSheetCreate(wb, sh) })
}

func (m *HandlerMap) afterSheetCreate(wb *WorkbookHolder, sh *SheetHolder) {
	each(m.sheet, func(h SheetWriteHandler) { h.AfterSheetCreate(wb, sh) })
}

func (m *HandlerMap) beforeRowCreate(sh *SheetHolder, tb *TableHolder, rowIndex, relativeRowIndex int, isHead bool) {
	each(m.row, func(h RowWriteHandler) { h.BeforeRowCreate(sh, tb, rowIndex, relativeRowIndex, isHead) })
}

func (m *HandlerMap) afterRowCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, relativeRowIndex int, isHead bool) {
	each(m.row, func(h RowWriteHandler) { h.AfterRowCreate(sh, tb, row, relativeRowIndex, isHead) })
}

func (m *HandlerMap) beforeCellCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, head *Head, relativeRowIndex int, isHead bool) {
	each(m.cell, func(h CellWriteHandler) { h.BeforeCellCreate(sh, tb, row, head, relativeRowIndex, isHead) })
}

func (m *HandlerMap) afterCellCreate(sh *SheetHolder, tb *TableHolder, cell CellHandle, head *Head, relativeRowIndex int, isHead bool) {
	each(m.cell, func(h CellWriteHandler) { h.AfterCellCreate(sh, tb, cell, head, relativeRowIndex, isHead) })
}
