package commands

import (
	"io"

	"omnivox-backend/internal/records"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.SetTitle(title)
	return t
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func printDocuments(out io.Writer, title string, list []records.Record) {
	t := newTable(out, title)
	t.AppendHeader(table.Row{"New", "Title", "Released", "FileName"})
	for _, r := range list {
		doc, ok := r.(*records.Document)
		if !ok {
			continue
		}
		t.AppendRow(table.Row{mark(!doc.Seen()), doc.Title(), doc.DateString(), doc.AttachmentName()})
	}
	t.Render()
}

func printAssignments(out io.Writer, title string, list []records.Record) {
	t := newTable(out, title)
	t.AppendHeader(table.Row{"Completed", "New", "Title", "Submit Date"})
	for _, r := range list {
		assignment, ok := r.(*records.Assignment)
		if !ok {
			continue
		}
		t.AppendRow(table.Row{
			mark(assignment.Completed()),
			mark(!assignment.Seen()),
			assignment.Title(),
			assignment.DateString(),
		})
	}
	t.Render()
}

func printCalendarEvents(out io.Writer, title string, list []records.Record) {
	t := newTable(out, title)
	t.AppendHeader(table.Row{"Title", "Description", "Date", "Course"})
	for _, r := range list {
		event, ok := r.(*records.CalendarEvent)
		if !ok {
			continue
		}
		t.AppendRow(table.Row{event.Title(), event.Description(), event.DateString(), event.CourseName()})
	}
	t.Render()
}
