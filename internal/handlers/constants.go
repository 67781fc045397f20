package handlers

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrNotFound            = "Not found"
)
