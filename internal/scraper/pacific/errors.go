package pacific

import (
	"fmt"
	"strings"
)

// AuthError reports that the authenticated post-login state was never
// reached. It aborts the run before any state mutation.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SearchNotFoundError reports that a configured saved search is not among
// the options the site offers. It is fatal for that search only.
type SearchNotFoundError struct {
	Name      string
	Available []string
}

func (e *SearchNotFoundError) Error() string {
	return fmt.Sprintf("saved search %q not found (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// PaginationOverrunError reports that result collection hit the hard page
// cap. Refs collected before the cap are still returned and processed.
type PaginationOverrunError struct {
	Cap int
}

func (e *PaginationOverrunError) Error() string {
	return fmt.Sprintf("pagination exceeded the %d-page safety cap", e.Cap)
}
