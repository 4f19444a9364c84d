package xlwrite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// State is the lifecycle state of a WriteContext.
type State int

const (
	StateUninitialized State = iota
	StateWorkbookActive
	StateSheetActive
	StateTableActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWorkbookActive:
		return "workbook"
	case StateSheetActive:
		return "sheet"
	case StateTableActive:
		return "table"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// WriteContext stages a workbook scope by scope. It tracks the current
// workbook, sheet and table, and the configuration of the innermost one.
//
// A WriteContext owns its document and is not safe for concurrent use.
type WriteContext struct {
	opts  *Options
	log   *slog.Logger
	state State

	workbook *WorkbookHolder
	sheet    *SheetHolder
	table    *TableHolder
	selector ConfigurationSelector
}

// NewWriteContext opens the workbook described by wb: it acquires the template
// stream, then creates or opens the document between the workbook handlers'
// BeforeWorkbookCreate and AfterWorkbookCreate calls. An output File is
// created after the template has been read, so it may be the template's own
// path. Streams acquired here are released if the document cannot be created.
func NewWriteContext(wb *Workbook, opts ...Option) (*WriteContext, error) {
	if wb == nil {
		return nil, fmt.Errorf("%w: workbook argument cannot be nil", ErrInvalidArgument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c := &WriteContext{opts: o, log: o.logger}
	c.log.Debug("begin to initialize write context")

	if err := c.initWorkbookHolder(wb); err != nil {
		return nil, err
	}

	handlers := c.workbook.HandlerMap()
	handlers.beforeWorkbookCreate()
	doc, err := o.backend.CreateOrOpen(wb, c.workbook.template)
	if err != nil {
		c.release(c.workbook)
		c.state = StateClosed
		return nil, fmt.Errorf("%w: %w", ErrDocumentCreation, err)
	}
	if wb.File != "" {
		// The template has been read by now, so File may name the template itself.
		f, err := os.Create(wb.File)
		if err != nil {
			if cerr := doc.Close(); cerr != nil {
				c.log.Warn("close document after failed output creation", "error", cerr)
			}
			c.release(c.workbook)
			c.state = StateClosed
			return nil, fmt.Errorf("%w: create output file %q: %w", ErrDocumentCreation, wb.File, err)
		}
		c.workbook.output = f
	}
	c.workbook.document = doc
	c.state = StateWorkbookActive
	handlers.afterWorkbookCreate(c.workbook)

	c.log.Debug("write context initialized")
	return c, nil
}

// initWorkbookHolder opens the template and builds the workbook holder. An
// output File is created only once the document exists.
func (c *WriteContext) initWorkbookHolder(wb *Workbook) error {
	var (
		output    = wb.Output
		template  = wb.Template
		autoClose = wb.AutoCloseStream
		owned     streamOwnership
	)
	if wb.File != "" {
		output = nil
		autoClose = true
		owned.output = true
	} else if output == nil {
		return fmt.Errorf("%w: workbook has no File or Output", ErrInvalidArgument)
	}
	if wb.TemplateFile != "" {
		f, err := os.Open(wb.TemplateFile)
		if err != nil {
			c.release(&WorkbookHolder{output: output, template: template, autoCloseStream: autoClose, owned: owned})
			return fmt.Errorf("%w: open template file %q: %w", ErrDocumentCreation, wb.TemplateFile, err)
		}
		template = f
		owned.template = true
	}

	h, err := newWorkbookHolder(wb, output, template, autoClose)
	if err != nil {
		c.release(&WorkbookHolder{output: output, template: template, autoCloseStream: autoClose, owned: owned})
		return err
	}
	h.owned = owned
	c.workbook = h
	c.selector = h
	c.log.Debug("current configuration selector is the workbook holder")
	return nil
}

// release closes the streams h is responsible for after a failed open.
func (c *WriteContext) release(h *WorkbookHolder) {
	if err := h.closeStreams(); err != nil {
		c.log.Warn("release streams after failed workbook creation", "error", err)
	}
}

// EnterSheet makes the sheet described by s the current scope. A sheet seen
// before is resumed without firing handlers or writing its header again.
// Otherwise the sheet is fetched from the document (created when missing),
// its header block is written when configured, and sheet handlers run
// around the whole step.
func (c *WriteContext) EnterSheet(s *Sheet) error {
	if c.state == StateClosed {
		return fmt.Errorf("%w: enter sheet after finish", ErrInvalidState)
	}
	if s == nil {
		return fmt.Errorf("%w: sheet argument cannot be nil", ErrInvalidArgument)
	}
	sheetNo := max(s.SheetNo, 0)

	if sh, ok := c.workbook.sheets[sheetNo]; ok {
		c.log.Debug("sheet already exists", "sheet_no", sheetNo)
		sh.newInitialization = false
		c.activateSheet(sh)
		return nil
	}

	sh, err := newSheetHolder(s, sheetNo, c.workbook)
	if err != nil {
		return err
	}
	prev := c.snapshot()
	c.workbook.sheets[sheetNo] = sh
	c.activateSheet(sh)

	handlers := sh.HandlerMap()
	handlers.beforeSheetCreate(c.workbook, sh)
	if err := c.initSheet(sh); err != nil {
		delete(c.workbook.sheets, sheetNo)
		c.restore(prev)
		return err
	}
	handlers.afterSheetCreate(c.workbook, sh)
	if lh := c.workbook.writeHandler; lh != nil {
		lh.Sheet(sh.sheetNo, sh.sheet)
	}
	return nil
}

func (c *WriteContext) activateSheet(sh *SheetHolder) {
	c.sheet = sh
	c.table = nil
	c.selector = sh
	c.state = StateSheetActive
	c.log.Debug("current configuration selector is the sheet holder", "sheet_no", sh.sheetNo)
}

func (c *WriteContext) initSheet(sh *SheetHolder) error {
	doc := c.workbook.document
	sheet, err := doc.SheetAt(sh.sheetNo)
	if errors.Is(err, ErrSheetNotFound) {
		c.log.Debug("can not find sheet, creating it", "sheet_no", sh.sheetNo)
		sheet, err = doc.CreateSheet(sh.sheetNo, sh.sheetName)
	}
	if err != nil {
		return fmt.Errorf("init sheet %d: %w", sh.sheetNo, err)
	}
	sh.sheet = sheet
	if err := c.writeHead(sh.head); err != nil {
		return fmt.Errorf("init sheet %d: %w", sh.sheetNo, err)
	}
	return nil
}

// EnterTable makes the table described by t the current scope within the
// current sheet. A nil table is ignored. A new table writes its own header
// block; only row and cell handlers fire.
func (c *WriteContext) EnterTable(t *Table) error {
	if c.state == StateClosed {
		return fmt.Errorf("%w: enter table after finish", ErrInvalidState)
	}
	if t == nil {
		return nil
	}
	if c.sheet == nil {
		return fmt.Errorf("%w: enter table without a current sheet", ErrInvalidState)
	}
	tableNo := max(t.TableNo, 0)

	if tb, ok := c.sheet.tables[tableNo]; ok {
		c.log.Debug("table already exists", "sheet_no", c.sheet.sheetNo, "table_no", tableNo)
		tb.newInitialization = false
		c.activateTable(tb)
		return nil
	}

	tb, err := newTableHolder(t, tableNo, c.sheet)
	if err != nil {
		return err
	}
	prev := c.snapshot()
	c.sheet.tables[tableNo] = tb
	c.activateTable(tb)

	if err := c.writeHead(tb.head); err != nil {
		delete(c.sheet.tables, tableNo)
		c.restore(prev)
		return fmt.Errorf("init table %d: %w", tableNo, err)
	}
	return nil
}

func (c *WriteContext) activateTable(tb *TableHolder) {
	c.table = tb
	c.selector = tb
	c.state = StateTableActive
	c.log.Debug("current configuration selector is the table holder", "sheet_no", c.sheet.sheetNo, "table_no", tb.tableNo)
}

type scope struct {
	state    State
	sheet    *SheetHolder
	table    *TableHolder
	selector ConfigurationSelector
}

func (c *WriteContext) snapshot() scope {
	return scope{state: c.state, sheet: c.sheet, table: c.table, selector: c.selector}
}

// restore returns to the scope that was current before a failed creation.
func (c *WriteContext) restore(s scope) {
	c.state, c.sheet, c.table, c.selector = s.state, s.sheet, s.table, s.selector
}

// CurrentConfigurationSelector returns the configuration of the innermost active scope.
func (c *WriteContext) CurrentConfigurationSelector() ConfigurationSelector { return c.selector }

// CurrentWorkbookHolder returns the root scope.
func (c *WriteContext) CurrentWorkbookHolder() *WorkbookHolder { return c.workbook }

// CurrentSheetHolder returns the current sheet, nil before the first EnterSheet.
func (c *WriteContext) CurrentSheetHolder() *SheetHolder { return c.sheet }

// CurrentTableHolder returns the current table, nil when no table scope is active.
func (c *WriteContext) CurrentTableHolder() *TableHolder { return c.table }

// State returns the lifecycle state.
func (c *WriteContext) State() State { return c.state }

// Finish writes the document to its output and closes it. With AutoCloseStream
// (or for streams the context opened itself) the output and template are
// closed as well. Every step is attempted; the first failure is returned
// wrapped in ErrFinalization. The context is closed afterwards either way.
func (c *WriteContext) Finish() error {
	if c.state == StateClosed || c.state == StateUninitialized {
		return fmt.Errorf("%w: finish called in state %s", ErrInvalidState, c.state)
	}
	c.state = StateClosed

	wb := c.workbook
	var first error
	record := func(step string, err error) {
		if err == nil {
			return
		}
		if first == nil {
			first = fmt.Errorf("%s: %w", step, err)
			return
		}
		c.log.Warn("finish step failed after an earlier failure", "step", step, "error", err)
	}
	record("write workbook", wb.document.Write(wb.output))
	record("close workbook", wb.document.Close())
	record("close streams", wb.closeStreams())

	if first != nil {
		return fmt.Errorf("%w: %w", ErrFinalization, first)
	}
	c.log.Debug("finished write")
	return nil
}
