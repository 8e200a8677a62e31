package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoOrganization     = errors.New("no organization membership")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotOwner           = errors.New("caller is not the organization owner")

	ErrVendorNotFound   = errors.New("vendor not found")
	ErrDocumentNotFound = errors.New("document not found")

	ErrVendorLimitReached   = errors.New("vendor limit reached")
	ErrDocumentLimitReached = errors.New("document limit reached")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidPlan          = errors.New("invalid plan")
	ErrNoBillingAccount     = errors.New("no billing customer")
	ErrBillingUnavailable   = errors.New("billing provider unavailable")
)

// ValidationError carries the first human-readable violation of a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
