package records

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	// NotACourse is the course name of calendar events not tied to a course.
	NotACourse = "Not A Course"
	// LinkLabel is the attachment name of documents the portal gives no file name for.
	LinkLabel = "Link"
	// NoDescription is the description of calendar events without one.
	NoDescription = "No Description"

	dateStringLayout = "02/Jan/2006"
)

// Record is the read-only view shared by every record kind.
type Record interface {
	CourseName() string
	Title() string
	Timestamp() time.Time
	Seen() bool
	DateString() string
}

// Element is the common part of documents, assignments and calendar events. It is immutable
// once built, time.Time is a value so callers can never mutate the stored timestamp.
type Element struct {
	courseName string
	title      string
	timestamp  time.Time
	seen       bool
}

func newElement(courseName, title string, timestamp time.Time, seen bool) Element {
	return Element{
		courseName: courseName,
		title:      title,
		timestamp:  timestamp,
		seen:       seen,
	}
}

func (e Element) CourseName() string {
	return e.courseName
}

func (e Element) Title() string {
	return e.title
}

func (e Element) Timestamp() time.Time {
	return e.timestamp
}

func (e Element) Seen() bool {
	return e.seen
}

// DateString is the timestamp formatted as dd/Mon/yyyy.
func (e Element) DateString() string {
	return e.timestamp.Format(dateStringLayout)
}

type Document struct {
	Element
	attachmentName string
}

// NewDocument creates a document, an empty attachment name becomes LinkLabel.
func NewDocument(courseName, title string, distributed time.Time, seen bool, attachmentName string) *Document {
	if strings.TrimSpace(attachmentName) == "" {
		attachmentName = LinkLabel
	}
	return &Document{
		Element:        newElement(courseName, title, distributed, seen),
		attachmentName: attachmentName,
	}
}

func (d *Document) AttachmentName() string {
	return d.attachmentName
}

type Assignment struct {
	Element
	completed bool
}

func NewAssignment(courseName, title string, due time.Time, seen, completed bool) *Assignment {
	return &Assignment{
		Element:   newElement(courseName, title, due, seen),
		completed: completed,
	}
}

func (a *Assignment) Completed() bool {
	return a.completed
}

// CalendarEvent is always seen, an empty course name becomes NotACourse and an empty
// description becomes NoDescription.
type CalendarEvent struct {
	Element
	description string
}

func NewCalendarEvent(courseName, title string, date time.Time, description string) *CalendarEvent {
	if strings.TrimSpace(courseName) == "" {
		courseName = NotACourse
	}
	if strings.TrimSpace(description) == "" {
		description = NoDescription
	}
	return &CalendarEvent{
		Element:     newElement(courseName, title, date, true),
		description: description,
	}
}

func (c *CalendarEvent) Description() string {
	return c.description
}

// Compare orders records by timestamp then title.
func Compare[T Record](a, b T) int {
	c := a.Timestamp().Compare(b.Timestamp())
	if c != 0 {
		return c
	}
	return cmp.Compare(a.Title(), b.Title())
}

// Equal is true when title and timestamp match, course and kind specific fields are ignored.
func Equal[T Record](a, b T) bool {
	return a.Title() == b.Title() && a.Timestamp().Equal(b.Timestamp())
}

// Sorted returns a sorted copy of list, list itself is left untouched.
func Sorted[T Record](list []T) []T {
	out := slices.Clone(list)
	slices.SortStableFunc(out, Compare[T])
	return out
}

// Slice returns the last n (newest) or first n (oldest) records of an already sorted list,
// always in ascending order. n is clamped to the list, n <= 0 gives an empty slice.
func Slice[T any](sorted []T, n int, newest bool) []T {
	if n <= 0 {
		return []T{}
	}
	n = min(n, len(sorted))
	if newest {
		return slices.Clone(sorted[len(sorted)-n:])
	}
	return slices.Clone(sorted[:n])
}

// AsRecords widens a typed list into a list of Record.
func AsRecords[T Record](list []T) []Record {
	out := make([]Record, len(list))
	for i, r := range list {
		out[i] = r
	}
	return out
}
