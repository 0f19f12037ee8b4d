package engine

import (
	"errors"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// ErrInvalidInput is wrapped by every validation failure of the calculator
// and its input helpers. Callers match it with errors.Is.
var ErrInvalidInput = errors.New(config.ErrInvalidInput)

// Validation causes, wrapped alongside ErrInvalidInput so collectors can
// tell the user which field to fix.
var (
	ErrBirthdateMissing = errors.New(config.ErrBirthdateMissing)
	ErrBirthdateFormat  = errors.New(config.ErrBirthdateParse)
	ErrBirthdateNoYear  = errors.New(config.ErrBirthdateYear)
	ErrLifespanMissing  = errors.New(config.ErrLifespanMissing)
	ErrLifespanNumber   = errors.New(config.ErrLifespanNumber)
	ErrLifespanRange    = errors.New(config.ErrLifespanRange)
	ErrColorFormat      = errors.New(config.ErrColorParse)
	ErrCellOutOfGrid    = errors.New(config.ErrCellOutOfGrid)
	ErrNoBirthday       = errors.New(config.ErrNoBirthday)
)

// ErrFetchStatus is returned when a remote vCard server answers with a non-200
// status. The wrapped message carries the code.
var ErrFetchStatus = errors.New(config.ErrFetchStatus)
