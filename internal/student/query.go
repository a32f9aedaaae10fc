package student

import (
	"fmt"

	"omnivox-backend/internal/records"
)

type Kind int

const (
	KindDocument Kind = iota
	KindAssignment
	KindCalendarEvent
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindAssignment:
		return "assignment"
	case KindCalendarEvent:
		return "calendar_event"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Query selects a ranked slice. Course limits the slice to one course and must be empty for
// calendar events. N <= 0 selects the whole sorted collection when All is set, otherwise an
// empty slice.
type Query struct {
	Kind   Kind
	Course string
	N      int
	Newest bool
	All    bool
}

// RankedSlice sorts the selected collection and returns the newest or oldest N records
// in ascending order.
func (s *Student) RankedSlice(q Query) ([]records.Record, error) {
	var sorted []records.Record
	switch q.Kind {
	case KindDocument:
		list := s.Documents()
		if q.Course != "" {
			var err error
			list, err = s.CourseDocuments(q.Course)
			if err != nil {
				return nil, err
			}
		}
		sorted = records.AsRecords(list)
	case KindAssignment:
		list := s.Assignments()
		if q.Course != "" {
			var err error
			list, err = s.CourseAssignments(q.Course)
			if err != nil {
				return nil, err
			}
		}
		sorted = records.AsRecords(list)
	case KindCalendarEvent:
		if q.Course != "" {
			return nil, fmt.Errorf("calendar events are not course scoped")
		}
		sorted = records.AsRecords(s.CalendarEvents())
	default:
		return nil, fmt.Errorf("unknown record kind %s", q.Kind)
	}

	if q.All {
		return sorted, nil
	}
	return records.Slice(sorted, q.N, q.Newest), nil
}

// Unseen returns the documents and assignments the portal still flags as new.
func (s *Student) Unseen() ([]*records.Document, []*records.Assignment) {
	var documents []*records.Document
	for _, d := range s.Documents() {
		if !d.Seen() {
			documents = append(documents, d)
		}
	}
	var assignments []*records.Assignment
	for _, a := range s.Assignments() {
		if !a.Seen() {
			assignments = append(assignments, a)
		}
	}
	return documents, assignments
}
