package contract

import (
	"errors"
	"fmt"
)

// Failure sentinels shared by the service layer and its callers.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSavePreferences = errors.New("failed to save planning inputs")
	ErrModel           = errors.New("model request failed")
	ErrDraftNotFound   = errors.New("draft not found or expired")
	ErrSaveDraft       = errors.New("failed to save draft")
	ErrSavePlan        = errors.New("failed to save plan")
	ErrNotFound        = errors.New("not found")
)

// ModelError carries the provider's failure so it can be shown as-is while
// still matching ErrModel.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %v", ErrModel, e.Err)
}

func (e *ModelError) Unwrap() []error {
	return []error{ErrModel, e.Err}
}

// InvalidInput builds an ErrInvalidInput with a caller-facing message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// FailureMessage maps an error from the plan service to the text shown to
// the user. It returns "" for a nil error.
func FailureMessage(err error) string {
	var modelErr *ModelError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	case errors.Is(err, ErrSavePreferences):
		return "Failed to save planning inputs"
	case errors.Is(err, ErrDraftNotFound):
		return "Draft not found or expired. Generate a new plan to start over."
	case errors.As(err, &modelErr):
		return modelErr.Err.Error()
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrSaveDraft), errors.Is(err, ErrSavePlan):
		return "Could not save your plan. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
