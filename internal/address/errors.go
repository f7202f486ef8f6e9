package address

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTier is returned for a tier outside the hierarchy.
	ErrUnknownTier = errors.New("unknown address tier")

	// ErrFetch matches every FetchError via errors.Is.
	ErrFetch = errors.New("address lookup failed")
)

// FetchError reports a failed lookup for one tier.
// The resolver keeps its previous options when this happens.
type FetchError struct {
	Tier   Tier
	Parent ID
	Err    error
}

func (e *FetchError) Error() string {
	if e.Parent.IsSet() {
		return fmt.Sprintf("lookup %s options for parent %d: %v", e.Tier, e.Parent, e.Err)
	}
	return fmt.Sprintf("lookup %s options: %v", e.Tier, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
