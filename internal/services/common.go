package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	apierrors "github.com/yukikurage/goal-tracker-api/internal/errors"
	"gorm.io/gorm"
)

const blankFieldMessage = "This field may not be blank."

// notFoundOr maps gorm.ErrRecordNotFound to a NotFoundError for resource and
// wraps anything else.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NewNotFoundError(resource)
	}
	return fmt.Errorf("failed to load %s: %w", resource, err)
}

// requireText trims value and checks it is non-blank and at most max runes.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apierrors.NewValidationError(field, blankFieldMessage)
	}
	if utf8.RuneCountInString(value) > max {
		return "", apierrors.NewValidationError(field,
			fmt.Sprintf("Ensure this field has no more than %d characters.", max))
	}
	return value, nil
}
