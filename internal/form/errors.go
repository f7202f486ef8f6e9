package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrReadOnly         = errors.New("form field is read-only")
	ErrInvalidValue     = errors.New("invalid form value")
	ErrValidation       = errors.New("form validation failed")
	ErrSubmitInProgress = errors.New("order submission already in progress")
)

// ValidationError lists the fields that blocked a submit.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, f := range Fields {
		if kinds, ok := e.Errors[f]; ok {
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = string(k)
			}
			parts = append(parts, fmt.Sprintf("%s (%s)", f, strings.Join(names, ", ")))
		}
	}
	return "form validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
