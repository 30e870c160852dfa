package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ValidationError reports a business-rule violation detected before anything
// is written. Field names the request attribute the message belongs to.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PermissionError is returned when the caller can see an entity but their
// board role does not allow the operation.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

// NewPermissionError creates a PermissionError with a human-readable reason.
func NewPermissionError(reason string) *PermissionError {
	return &PermissionError{Reason: reason}
}

// NotFoundError covers both missing rows and rows on boards the caller does
// not participate in. The two cases must stay indistinguishable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NewNotFoundError creates a NotFoundError for resource.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsPermission reports whether err wraps a PermissionError.
func IsPermission(err error) bool {
	var p *PermissionError
	return stderrors.As(err, &p)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return stderrors.As(err, &n)
}

// Respond translates a domain error into its HTTP response. It returns false
// when err is not part of the taxonomy so the caller can log it and answer 500.
func Respond(c *gin.Context, err error) bool {
	var (
		validation *ValidationError
		permission *PermissionError
		notFound   *NotFoundError
	)
	switch {
	case stderrors.As(err, &validation):
		BadRequestWithDetails(c, validation.Message, map[string][]string{
			validation.Field: {validation.Message},
		})
	case stderrors.As(err, &permission):
		Forbidden(c, permission.Reason)
	case stderrors.As(err, &notFound):
		NotFound(c, err.Error())
	default:
		return false
	}
	return true
}
