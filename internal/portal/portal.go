package portal

import (
	"context"
	"fmt"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/records"
)

type PageKind int

const (
	PageDocuments PageKind = iota
	PageAssignments
	PageCalendar
)

func (k PageKind) String() string {
	switch k {
	case PageDocuments:
		return "documents"
	case PageAssignments:
		return "assignments"
	case PageCalendar:
		return "calendar"
	}
	return fmt.Sprintf("page_kind(%d)", int(k))
}

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateCourseListLoaded
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateCourseListLoaded:
		return "course_list_loaded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PageResult is the outcome of navigating to one course's sub-page. Exactly one of Page
// and Err is set.
type PageResult struct {
	// Course is the label of the course list entry the page was reached from.
	Course string
	Page   *browser.Page
	Err    error
}

// Batch is the records extracted from one page along with the rows that were skipped.
type Batch[T any] struct {
	Records []T
	Skipped []error
}

// CalendarViewChanger switches the home page calendar into day view and returns the
// refreshed home page.
type CalendarViewChanger interface {
	RequestCalendarViewChange(ctx context.Context, home *browser.Page) (*browser.Page, error)
}

// Session is an authenticated navigation over one institution's portal. It moves from
// StateUnauthenticated to StateAuthenticated on Login and to StateCourseListLoaded on
// LoadCourseList. Sessions are not safe for concurrent use.
type Session interface {
	CalendarViewChanger

	Institution() string
	State() State

	Login(ctx context.Context, username, password string) error
	LoadCourseList(ctx context.Context) error

	HomePage() (*browser.Page, error)
	// DocumentPages returns one result per course, in course list order.
	DocumentPages(ctx context.Context) ([]PageResult, error)
	// AssignmentPages returns one result per course, in course list order.
	AssignmentPages(ctx context.Context) ([]PageResult, error)
	// WhatsNew returns the home page announcements, errors.ErrUnsupported when the
	// institution's home page has none.
	WhatsNew(ctx context.Context) ([]string, error)
}

// Adapter turns pages of one institution into records. A returned error means the page
// itself could not be read, rows that fail are reported in Batch.Skipped instead.
type Adapter interface {
	ExtractDocuments(page *browser.Page) (Batch[*records.Document], error)
	ExtractAssignments(page *browser.Page) (Batch[*records.Assignment], error)
	// ExtractCalendarEvents asks changer for a day view once when the calendar has no rows.
	ExtractCalendarEvents(ctx context.Context, page *browser.Page, changer CalendarViewChanger) (Batch[*records.CalendarEvent], error)
}
