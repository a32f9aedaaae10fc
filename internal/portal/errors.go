package portal

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated     = errors.New("session is not authenticated")
	ErrCourseListNotLoaded  = errors.New("course list is not loaded")
	ErrLoginTokenMissing    = errors.New("login token field is missing")
	ErrInvalidCredentials   = errors.New("login was rejected")
	ErrUnknownInstitution   = errors.New("unknown institution")
	ErrUnknownDriver        = errors.New("unknown institution driver")
	ErrNoCalendarViewChange = errors.New("calendar view change is not available")
)

// AuthenticationError is fatal to a run.
type AuthenticationError struct {
	Institution string
	Stage       string
	Err         error
}

func (e AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed at %s: %s", e.Institution, e.Stage, e.Err)
}

func (e AuthenticationError) Unwrap() error {
	return e.Err
}

// NavigationError means one page could not be reached, the run continues without it.
type NavigationError struct {
	Institution string
	Target      string
	Err         error
}

func (e NavigationError) Error() string {
	return fmt.Sprintf("%s: navigate to %s: %s", e.Institution, e.Target, e.Err)
}

func (e NavigationError) Unwrap() error {
	return e.Err
}

// ExtractionStructureError means a page lacks an element every page of its kind must have.
type ExtractionStructureError struct {
	Kind     PageKind
	Selector string
	URL      string
}

func (e ExtractionStructureError) Error() string {
	return fmt.Sprintf("%s page %s: missing required element '%s'", e.Kind, e.URL, e.Selector)
}
