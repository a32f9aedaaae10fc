package student

import (
	"sync"

	"omnivox-backend/internal/records"
)

// Course holds the documents and assignments of one course in insertion order. Every
// record added is expected to carry the course's name, callers enforce this.
type Course struct {
	name string

	mu          sync.RWMutex
	documents   []*records.Document
	assignments []*records.Assignment
}

func NewCourse(name string) *Course {
	return &Course{name: name}
}

func (c *Course) Name() string {
	return c.name
}

func (c *Course) AddDocument(document *records.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = append(c.documents, document)
}

func (c *Course) AddAssignment(assignment *records.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments = append(c.assignments, assignment)
}

// Documents returns the course's documents sorted oldest to newest.
func (c *Course) Documents() []*records.Document {
	c.mu.RLock()
	snapshot := c.documents
	c.mu.RUnlock()
	return records.Sorted(snapshot)
}

func (c *Course) Assignments() []*records.Assignment {
	c.mu.RLock()
	snapshot := c.assignments
	c.mu.RUnlock()
	return records.Sorted(snapshot)
}

func (c *Course) NewestDocuments(n int) []*records.Document {
	return records.Slice(c.Documents(), n, true)
}

func (c *Course) OldestDocuments(n int) []*records.Document {
	return records.Slice(c.Documents(), n, false)
}

func (c *Course) NewestAssignments(n int) []*records.Assignment {
	return records.Slice(c.Assignments(), n, true)
}

func (c *Course) OldestAssignments(n int) []*records.Assignment {
	return records.Slice(c.Assignments(), n, false)
}
