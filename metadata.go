package xlwrite

import "io"

// Settings holds the overrides a scope may carry. A nil pointer or an empty
// handler list means the value is inherited from the enclosing scope.
type Settings struct {
	// NeedHead controls whether a header block is written when the scope is created.
	NeedHead *bool
	// RelativeHeadRowIndex is the number of rows left blank before the header block.
	RelativeHeadRowIndex *int
	// Handlers are the lifecycle handlers registered for this scope. For each
	// handler kind a non-empty list replaces the enclosing scope's list.
	Handlers []WriteHandler
}

// Workbook describes the workbook to write.
type Workbook struct {
	Settings

	// File is an output path. The context creates and closes it; AutoCloseStream
	// is implied.
	File string
	// Output receives the workbook when File is empty.
	Output io.Writer
	// TemplateFile is an xlsx file the workbook starts from. Opened and closed by the context.
	TemplateFile string
	// Template is a template source used when TemplateFile is empty.
	Template io.Reader
	// AutoCloseStream closes Output and Template in Finish when they implement io.Closer.
	AutoCloseStream bool
	// WriteHandler is notified after every sheet, row and cell creation,
	// regardless of the handler lists.
	WriteHandler LegacyWriteHandler
}

// Sheet describes a sheet scope.
type Sheet struct {
	Settings

	// SheetNo is the 0-based sheet index. Negative values are treated as 0.
	SheetNo int
	// SheetName is used when the sheet has to be created. Defaults to "Sheet<n+1>".
	SheetName string
	// Head lists header names per column, one entry per header row.
	Head [][]string
	// HeadLinks optionally gives a hyperlink URL per Head column.
	HeadLinks []string
	// HeadSpec takes precedence over Head when set.
	HeadSpec HeadSpec
}

// Table describes a table scope inside the current sheet.
type Table struct {
	Settings

	// TableNo is the 0-based table index within the sheet. Negative values are treated as 0.
	TableNo   int
	Head      [][]string
	HeadLinks []string
	// HeadSpec takes precedence over Head when set.
	HeadSpec HeadSpec
}

// Bool returns a pointer to b, for use in Settings.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for use in Settings.
func Int(i int) *int { return &i }

func headSpecOf(spec HeadSpec, head [][]string, links []string) HeadSpec {
	if spec != nil {
		return spec
	}
	return NewHeadProperty(head, links...)
}
