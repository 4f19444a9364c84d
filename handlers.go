package xlwrite

import "log/slog"

// TraceHandler logs every lifecycle event at debug level. It implements all
// four handler interfaces.
type TraceHandler struct {
	logger *slog.Logger
}

var (
	_ WorkbookWriteHandler = (*TraceHandler)(nil)
	_ SheetWriteHandler    = (*TraceHandler)(nil)
	_ RowWriteHandler      = (*TraceHandler)(nil)
	_ CellWriteHandler     = (*TraceHandler)(nil)
)

// NewTraceHandler creates a TraceHandler writing to logger, or to slog.Default when nil.
func NewTraceHandler(logger *slog.Logger) *TraceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TraceHandler{logger: logger}
}

func (h *TraceHandler) BeforeWorkbookCreate() {
	h.logger.Debug("before workbook create")
}

func (h *TraceHandler) AfterWorkbookCreate(wb *WorkbookHolder) {
	h.logger.Debug("after workbook create", "auto_close", wb.AutoCloseStream())
}

func (h *TraceHandler) BeforeSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.logger.Debug("before sheet create", "sheet_no", sh.SheetNo())
}

func (h *TraceHandler) AfterSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	h.logger.Debug("after sheet create", "sheet_no", sh.SheetNo(), "sheet", sh.Sheet().Name())
}

func (h *TraceHandler) BeforeRowCreate(sh *SheetHolder, tb *TableHolder, rowIndex, relativeRowIndex int, isHead bool) {
	h.logger.Debug("before row create", scopeAttrs(sh, tb, "row", rowIndex, "relative_row", relativeRowIndex, "head", isHead)...)
}

func (h *TraceHandler) AfterRowCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, relativeRowIndex int, isHead bool) {
	h.logger.Debug("after row create", scopeAttrs(sh, tb, "row", row.RowNum(), "relative_row", relativeRowIndex, "head", isHead)...)
}

func (h *TraceHandler) BeforeCellCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, head *Head, relativeRowIndex int, isHead bool) {
	h.logger.Debug("before cell create", scopeAttrs(sh, tb, "row", row.RowNum(), "col", head.Index, "head", isHead)...)
}

func (h *TraceHandler) AfterCellCreate(sh *SheetHolder, tb *TableHolder, cell CellHandle, _ *Head, relativeRowIndex int, isHead bool) {
	h.logger.Debug("after cell create", scopeAttrs(sh, tb, "cell", CellName(cell.RowIndex(), cell.ColumnIndex()), "value", cell.Value(), "head", isHead)...)
}

func scopeAttrs(sh *SheetHolder, tb *TableHolder, args ...any) []any {
	attrs := make([]any, 0, len(args)+4)
	if sh != nil {
		attrs = append(attrs, "sheet_no", sh.SheetNo())
	}
	if tb != nil {
		attrs = append(attrs, "table_no", tb.TableNo())
	}
	return append(attrs, args...)
}

// FreezeHeadHandler freezes the rows above and including a sheet's header
// block once the sheet has been created. Table headers are ignored. Sheets
// whose backend does not implement PaneFreezer are left alone.
type FreezeHeadHandler struct {
	logger  *slog.Logger
	headEnd map[*SheetHolder]int
}

var (
	_ SheetWriteHandler = (*FreezeHeadHandler)(nil)
	_ RowWriteHandler   = (*FreezeHeadHandler)(nil)
)

// NewFreezeHeadHandler creates a FreezeHeadHandler. Failures are logged to logger when non-nil.
func NewFreezeHeadHandler(logger *slog.Logger) *FreezeHeadHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FreezeHeadHandler{logger: logger, headEnd: make(map[*SheetHolder]int)}
}

func (h *FreezeHeadHandler) BeforeSheetCreate(*WorkbookHolder, *SheetHolder) {}

func (h *FreezeHeadHandler) AfterSheetCreate(_ *WorkbookHolder, sh *SheetHolder) {
	rows, ok := h.headEnd[sh]
	if !ok {
		return
	}
	delete(h.headEnd, sh)
	pf, ok := sh.Sheet().(PaneFreezer)
	if !ok {
		return
	}
	if err := pf.FreezeRows(rows); err != nil {
		h.logger.Warn("freeze head rows", "sheet_no", sh.SheetNo(), "rows", rows, "error", err)
	}
}

func (h *FreezeHeadHandler) BeforeRowCreate(*SheetHolder, *TableHolder, int, int, bool) {}

func (h *FreezeHeadHandler) AfterRowCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, _ int, isHead bool) {
	if !isHead || tb != nil {
		return
	}
	h.headEnd[sh] = row.RowNum() + 1
}
