// Package digest summarizes what is new for a student and mails it.
package digest

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"omnivox-backend/internal/config"
	"omnivox-backend/internal/records"
	"omnivox-backend/internal/student"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("omnivox-backend/internal/digest")

// Digest holds the unseen documents and assignments of a student along with the calendar
// events coming up before the horizon.
type Digest struct {
	Institution string
	Student     string
	GeneratedAt time.Time
	Documents   []*records.Document
	Assignments []*records.Assignment
	Events      []*records.CalendarEvent
}

func Build(institution, studentNumber string, s *student.Student, now time.Time, horizon time.Duration) Digest {
	documents, assignments := s.Unseen()

	var events []*records.CalendarEvent
	limit := now.Add(horizon)
	for _, e := range s.CalendarEvents() {
		if e.Timestamp().After(limit) {
			break
		}
		events = append(events, e)
	}

	return Digest{
		Institution: institution,
		Student:     studentNumber,
		GeneratedAt: now,
		Documents:   documents,
		Assignments: assignments,
		Events:      events,
	}
}

func (d Digest) Empty() bool {
	return len(d.Documents) == 0 && len(d.Assignments) == 0 && len(d.Events) == 0
}

func (d Digest) Subject() string {
	return fmt.Sprintf(
		"Omnivox %s: %d new documents, %d new assignments, %d upcoming events",
		d.Institution, len(d.Documents), len(d.Assignments), len(d.Events),
	)
}

func newTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

// Render formats the digest as plain text.
func (d Digest) Render() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Omnivox digest for %s at %s, %s\n\n", d.Student, d.Institution, d.GeneratedAt.Format("02/Jan/2006 15:04"))

	if d.Empty() {
		out.WriteString("Nothing New\n")
		return out.String()
	}

	if len(d.Documents) > 0 {
		t := newTable("New documents", table.Row{"Course", "Title", "Released", "File"})
		for _, doc := range d.Documents {
			t.AppendRow(table.Row{doc.CourseName(), doc.Title(), doc.DateString(), doc.AttachmentName()})
		}
		out.WriteString(t.Render())
		out.WriteString("\n\n")
	}

	if len(d.Assignments) > 0 {
		t := newTable("New assignments", table.Row{"Course", "Title", "Due", "Completed"})
		for _, a := range d.Assignments {
			t.AppendRow(table.Row{a.CourseName(), a.Title(), a.DateString(), a.Completed()})
		}
		out.WriteString(t.Render())
		out.WriteString("\n\n")
	}

	if len(d.Events) > 0 {
		t := newTable("Upcoming events", table.Row{"Date", "Title", "Course", "Description"})
		for _, e := range d.Events {
			t.AppendRow(table.Row{e.DateString(), e.Title(), e.CourseName(), e.Description()})
		}
		out.WriteString(t.Render())
		out.WriteString("\n")
	}

	return out.String()
}

// Send mails the rendered digest, authenticating only when a username is configured.
func Send(ctx context.Context, smtpConfig config.SmtpConfig, d Digest) error {
	_, span := tracer.Start(ctx, "Send")
	defer span.End()

	if !smtpConfig.Enabled() {
		err := fmt.Errorf("smtp is not configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Omnivox Digest <%s>", smtpConfig.From)
	mail.To = smtpConfig.To
	mail.Subject = d.Subject()
	mail.Text = []byte(d.Render())

	addr := fmt.Sprintf("%s:%d", smtpConfig.Host, smtpConfig.Port)
	var auth smtp.Auth
	if smtpConfig.Username != "" {
		auth = smtp.PlainAuth("", smtpConfig.Username, smtpConfig.Password, smtpConfig.Host)
	}

	err := mail.Send(addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
