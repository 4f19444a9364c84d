package xlwrite

import "errors"

var (
	// ErrInvalidArgument reports a missing required descriptor or an unusable handler.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports a scope operation that the current state does not allow,
	// such as entering a sheet after Finish.
	ErrInvalidState = errors.New("invalid state")

	// ErrDocumentCreation wraps the backend failure that prevented the workbook from
	// being opened or created.
	ErrDocumentCreation = errors.New("create workbook failure")

	// ErrFinalization wraps the first failure of the flush/close sequence run by Finish.
	ErrFinalization = errors.New("can not close IO")

	// ErrSheetNotFound is returned by Document.SheetAt when no sheet exists at the index.
	ErrSheetNotFound = errors.New("sheet not found")
)
