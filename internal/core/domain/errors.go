package domain

import "errors"

// Sentinel errors shared across services and mapped to HTTP status codes by
// the API error handler. The four kinds are: not-found, invalid-state,
// invalid-input and conflict; everything else is treated as internal.
var (
	ErrPlotNotFound        = errors.New("land plot not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrPlotAlreadySold   = errors.New("land plot already sold")
	ErrPlotDisputed      = errors.New("land plot is disputed")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidInput = errors.New("invalid input")

	ErrDuplicatePlotNumber = errors.New("plot number already registered")
	ErrDuplicateEmail      = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
)
