package student

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/records"
	"omnivox-backend/pkg/textutil"
)

// CalendarGrace is how far in the past a calendar event may be and still be kept.
const CalendarGrace = 24 * time.Hour

// courseMatchThreshold is the minimum Jaro-Winkler similarity ResolveCourse accepts.
const courseMatchThreshold = 0.85

var ErrUnknownCourse = errors.New("unknown course")

// Student is the aggregate of everything pulled for one student during a run. Documents and
// assignments are indexed twice, once in their Course and once in the student wide lists,
// both indexes hold the same pointers.
type Student struct {
	time chrono.TimeAPI

	mu          sync.RWMutex
	courses     map[string]*Course
	documents   []*records.Document
	assignments []*records.Assignment
	calendar    []*records.CalendarEvent
}

func NewStudent(time chrono.TimeAPI) *Student {
	assert.NotNil(time)
	return &Student{
		time:    time,
		courses: map[string]*Course{},
	}
}

// AddCourse registers a course, the first course registered under a name wins and is
// returned on every later call.
func (s *Student) AddCourse(name string) *Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.courses[name]
	if ok {
		return existing
	}
	course := NewCourse(name)
	s.courses[name] = course
	return course
}

func (s *Student) Course(name string) (*Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[name]
	return course, ok
}

// CourseNames returns the registered course names in alphabetical order.
func (s *Student) CourseNames() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.courses))
	for name := range s.courses {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

// ResolveCourse finds a registered course by exact name first, then by closest name.
func (s *Student) ResolveCourse(name string) (string, bool) {
	_, ok := s.Course(name)
	if ok {
		return name, true
	}
	return textutil.Closest(name, s.CourseNames(), courseMatchThreshold)
}

func (s *Student) AssignDocument(courseName string, document *records.Document) error {
	assert.NotNil(document)

	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseName]
	if !ok {
		return fmt.Errorf("assign document '%s': %w '%s'", document.Title(), ErrUnknownCourse, courseName)
	}
	course.AddDocument(document)
	s.documents = append(s.documents, document)
	return nil
}

func (s *Student) AssignAssignment(courseName string, assignment *records.Assignment) error {
	assert.NotNil(assignment)

	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseName]
	if !ok {
		return fmt.Errorf("assign assignment '%s': %w '%s'", assignment.Title(), ErrUnknownCourse, courseName)
	}
	course.AddAssignment(assignment)
	s.assignments = append(s.assignments, assignment)
	return nil
}

// AssignCalendarEvent keeps the event only if it is not older than CalendarGrace,
// admitted reports whether it was kept.
func (s *Student) AssignCalendarEvent(event *records.CalendarEvent) (admitted bool) {
	assert.NotNil(event)

	cutoff := s.time.Now().Add(-CalendarGrace)
	if event.Timestamp().Before(cutoff) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendar = append(s.calendar, event)
	return true
}

// Documents returns every document of every course, oldest to newest.
func (s *Student) Documents() []*records.Document {
	s.mu.RLock()
	snapshot := s.documents
	s.mu.RUnlock()
	return records.Sorted(snapshot)
}

func (s *Student) Assignments() []*records.Assignment {
	s.mu.RLock()
	snapshot := s.assignments
	s.mu.RUnlock()
	return records.Sorted(snapshot)
}

func (s *Student) CalendarEvents() []*records.CalendarEvent {
	s.mu.RLock()
	snapshot := s.calendar
	s.mu.RUnlock()
	return records.Sorted(snapshot)
}

func (s *Student) CourseDocuments(courseName string) ([]*records.Document, error) {
	course, ok := s.Course(courseName)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCourse, courseName)
	}
	return course.Documents(), nil
}

func (s *Student) CourseAssignments(courseName string) ([]*records.Assignment, error) {
	course, ok := s.Course(courseName)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCourse, courseName)
	}
	return course.Assignments(), nil
}

func (s *Student) NewestDocuments(n int) []*records.Document {
	return records.Slice(s.Documents(), n, true)
}

func (s *Student) OldestDocuments(n int) []*records.Document {
	return records.Slice(s.Documents(), n, false)
}

func (s *Student) NewestAssignments(n int) []*records.Assignment {
	return records.Slice(s.Assignments(), n, true)
}

func (s *Student) OldestAssignments(n int) []*records.Assignment {
	return records.Slice(s.Assignments(), n, false)
}

func (s *Student) NewestCalendarEvents(n int) []*records.CalendarEvent {
	return records.Slice(s.CalendarEvents(), n, true)
}

func (s *Student) OldestCalendarEvents(n int) []*records.CalendarEvent {
	return records.Slice(s.CalendarEvents(), n, false)
}
