package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrQuoteUnavailable indicates the external quote source could not be reached
// or answered with a transient failure. Retrying later may succeed.
var ErrQuoteUnavailable = errors.New("quote source unavailable")

// ErrMalformedQuote indicates the external quote source answered with a payload
// that cannot be interpreted as a valid quote. Retrying will not help.
var ErrMalformedQuote = errors.New("malformed quote payload")

// ErrSyncInProgress indicates a synchronization pass is already running and the
// requested pass was rejected rather than queued.
var ErrSyncInProgress = errors.New("synchronization already in progress")
