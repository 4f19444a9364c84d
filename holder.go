package xlwrite

import (
	"fmt"
	"io"
)

// ConfigurationSelector resolves the configuration of a scope. Each holder
// answers with values already resolved against its enclosing scopes.
type ConfigurationSelector interface {
	// NeedHead reports whether a header block is written when the scope is created.
	NeedHead() bool
	// RelativeHeadRowIndex is the number of blank rows before the header block.
	RelativeHeadRowIndex() int
	// HandlerMap returns the handlers in effect for the scope.
	HandlerMap() *HandlerMap
}

// scopeConfig is the resolved configuration shared by all holders.
type scopeConfig struct {
	needHead             bool
	relativeHeadRowIndex int
	handlers             *HandlerMap
}

var rootConfig = scopeConfig{needHead: true, handlers: &HandlerMap{}}

// resolveConfig applies the overrides in s on top of parent.
func resolveConfig(parent scopeConfig, s Settings) (scopeConfig, error) {
	own, err := NewHandlerMap(s.Handlers...)
	if err != nil {
		return scopeConfig{}, err
	}
	c := scopeConfig{
		needHead:             parent.needHead,
		relativeHeadRowIndex: parent.relativeHeadRowIndex,
		handlers:             own.Override(parent.handlers),
	}
	if s.NeedHead != nil {
		c.needHead = *s.NeedHead
	}
	if s.RelativeHeadRowIndex != nil {
		c.relativeHeadRowIndex = *s.RelativeHeadRowIndex
	}
	return c, nil
}

// NeedHead, RelativeHeadRowIndex and HandlerMap implement ConfigurationSelector
// for every holder.
func (c *scopeConfig) NeedHead() bool            { return c.needHead }
func (c *scopeConfig) RelativeHeadRowIndex() int { return c.relativeHeadRowIndex }
func (c *scopeConfig) HandlerMap() *HandlerMap   { return c.handlers }

// WorkbookHolder is the root scope. It owns the document and the streams the
// context opened.
type WorkbookHolder struct {
	scopeConfig

	workbook        *Workbook
	document        Document
	output          io.Writer
	template        io.Reader
	autoCloseStream bool
	writeHandler    LegacyWriteHandler
	sheets          map[int]*SheetHolder
	owned           streamOwnership
}

// streamOwnership marks the streams the context opened itself. Those are
// closed by Finish regardless of AutoCloseStream.
type streamOwnership struct {
	output   bool
	template bool
}

var _ ConfigurationSelector = (*WorkbookHolder)(nil)

func newWorkbookHolder(wb *Workbook, output io.Writer, template io.Reader, autoClose bool) (*WorkbookHolder, error) {
	cfg, err := resolveConfig(rootConfig, wb.Settings)
	if err != nil {
		return nil, err
	}
	return &WorkbookHolder{
		scopeConfig:     cfg,
		workbook:        wb,
		output:          output,
		template:        template,
		autoCloseStream: autoClose,
		writeHandler:    wb.WriteHandler,
		sheets:          make(map[int]*SheetHolder),
	}, nil
}

// Workbook returns the descriptor the holder was built from.
func (h *WorkbookHolder) Workbook() *Workbook { return h.workbook }

// Document returns the backing document, nil before it has been created.
func (h *WorkbookHolder) Document() Document { return h.document }

// Output returns the sink Finish writes to.
func (h *WorkbookHolder) Output() io.Writer { return h.output }

// Template returns the template source, if any.
func (h *WorkbookHolder) Template() io.Reader { return h.template }

// AutoCloseStream reports whether Finish closes the output and template.
func (h *WorkbookHolder) AutoCloseStream() bool { return h.autoCloseStream }

// WriteHandler returns the legacy handler, if any.
func (h *WorkbookHolder) WriteHandler() LegacyWriteHandler { return h.writeHandler }

// SheetHolder returns the initialized sheet with the given number.
func (h *WorkbookHolder) SheetHolder(sheetNo int) (*SheetHolder, bool) {
	sh, ok := h.sheets[sheetNo]
	return sh, ok
}

// SheetCount returns the number of initialized sheets.
func (h *WorkbookHolder) SheetCount() int { return len(h.sheets) }

// closeStreams closes the output and template when the holder is responsible
// for them. Both are attempted; the first failure is returned.
func (h *WorkbookHolder) closeStreams() error {
	var first error
	if c, ok := h.output.(io.Closer); ok && (h.autoCloseStream || h.owned.output) {
		if err := c.Close(); err != nil {
			first = fmt.Errorf("close output: %w", err)
		}
	}
	if c, ok := h.template.(io.Closer); ok && (h.autoCloseStream || h.owned.template) {
		if err := c.Close(); err != nil && first == nil {
			first = fmt.Errorf("close template: %w", err)
		}
	}
	return first
}

// SheetHolder is a sheet scope.
type SheetHolder struct {
	scopeConfig

	sheetNo           int
	sheetName         string
	parent            *WorkbookHolder
	sheet             SheetHandle
	head              HeadSpec
	newInitialization bool
	tables            map[int]*TableHolder
}

var _ ConfigurationSelector = (*SheetHolder)(nil)

func newSheetHolder(s *Sheet, sheetNo int, parent *WorkbookHolder) (*SheetHolder, error) {
	cfg, err := resolveConfig(parent.scopeConfig, s.Settings)
	if err != nil {
		return nil, err
	}
	return &SheetHolder{
		scopeConfig:       cfg,
		sheetNo:           sheetNo,
		sheetName:         s.SheetName,
		parent:            parent,
		head:              headSpecOf(s.HeadSpec, s.Head, s.HeadLinks),
		newInitialization: true,
		tables:            make(map[int]*TableHolder),
	}, nil
}

// SheetNo returns the normalized 0-based sheet number.
func (h *SheetHolder) SheetNo() int { return h.sheetNo }

// WorkbookHolder returns the workbook the sheet belongs to.
func (h *SheetHolder) WorkbookHolder() *WorkbookHolder { return h.parent }

// Sheet returns the backing sheet, nil until the backend has produced it.
func (h *SheetHolder) Sheet() SheetHandle { return h.sheet }

// Head returns the header metadata of the sheet.
func (h *SheetHolder) Head() HeadSpec { return h.head }

// NewInitialization reports whether the sheet was created by the last
// EnterSheet call rather than resumed.
func (h *SheetHolder) NewInitialization() bool { return h.newInitialization }

// TableHolder returns the initialized table with the given number.
func (h *SheetHolder) TableHolder(tableNo int) (*TableHolder, bool) {
	tb, ok := h.tables[tableNo]
	return tb, ok
}

// TableHolder is a table scope inside a sheet.
type TableHolder struct {
	scopeConfig

	tableNo           int
	parent            *SheetHolder
	head              HeadSpec
	newInitialization bool
}

var _ ConfigurationSelector = (*TableHolder)(nil)

func newTableHolder(t *Table, tableNo int, parent *SheetHolder) (*TableHolder, error) {
	cfg, err := resolveConfig(parent.scopeConfig, t.Settings)
	if err != nil {
		return nil, err
	}
	return &TableHolder{
		scopeConfig:       cfg,
		tableNo:           tableNo,
		parent:            parent,
		head:              headSpecOf(t.HeadSpec, t.Head, t.HeadLinks),
		newInitialization: true,
	}, nil
}

// TableNo returns the normalized 0-based table number.
func (h *TableHolder) TableNo() int { return h.tableNo }

// SheetHolder returns the sheet the table belongs to.
func (h *TableHolder) SheetHolder() *SheetHolder { return h.parent }

// Head returns the header metadata of the table.
func (h *TableHolder) Head() HeadSpec { return h.head }

// Sheet returns the sheet the table is written into.
func (h *TableHolder) Sheet() SheetHandle { return h.parent.sheet }

// NewInitialization reports whether the table was created by the last
// EnterTable call rather than resumed.
func (h *TableHolder) NewInitialization() bool { return h.newInitialization }
