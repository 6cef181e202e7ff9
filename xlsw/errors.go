package xlsw

import "errors"

// Lifecycle (state) errors. Hitting one of these means the caller broke the
// document -> sheet -> row ordering; the operation did nothing.
var (
	ErrClosed           = errors.New("document is closed")
	ErrNoOpenSheet      = errors.New("no open sheet")
	ErrNoOpenRow        = errors.New("no open row")
	ErrSheetAlreadyOpen = errors.New("sheet already open")
	ErrRowAlreadyOpen   = errors.New("row already open")
	ErrRowOutOfOrder    = errors.New("row index not greater than last written row")
)

// Validation and domain-rule errors.
var (
	ErrSheetName          = errors.New("invalid sheet name")
	ErrDuplicateSheetName = errors.New("duplicate sheet name")
	ErrInvalidRange       = errors.New("invalid range")
	ErrOverlappingRange   = errors.New("range overlaps an existing merged range")
	ErrMissingOperand     = errors.New("operator requires a second operand")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnsupportedKind    = errors.New("unsupported document kind")
)
