package omnivox

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/dates"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/records"

	"go.opentelemetry.io/otel/attribute"
)

const (
	report_adapter_extract_documents       = "adapter.extract-documents"
	report_adapter_extract_assignments     = "adapter.extract-assignments"
	report_adapter_extract_calendar_events = "adapter.extract-calendar-events"
)

// Layout holds the selectors of the LEA document and assignment pages and of the home page
// calendar. Cell indexes are zero based.
type Layout struct {
	// Heading holds the course name of a document or assignment page.
	Heading string

	DocumentRows       string
	DocumentTitleCell  int
	DocumentDateCell   int
	DocumentFileCell   int
	AssignmentRows     string
	AssignmentTitle    int
	AssignmentDateCell int
	// NewMarker is present within a row's first cell while the row is unseen.
	NewMarker string
	// Submitted is present within an assignment row once the work was handed in.
	Submitted string

	CalendarEvents      string
	CalendarDay         string
	CalendarMonth       string
	CalendarTitle       string
	CalendarCourse      string
	CalendarDescription string
}

// LEA is the markup shared by the Omnivox LEA pages of every institution.
var LEA = Layout{
	Heading: ".TitrePageLigne2",

	DocumentRows:       "tr.itemDataGrid, tr.itemDataGridAltern",
	DocumentTitleCell:  1,
	DocumentDateCell:   2,
	DocumentFileCell:   3,
	AssignmentRows:     `#tabListeTravEtu > tbody > tr[height="30"]`,
	AssignmentTitle:    1,
	AssignmentDateCell: 2,
	NewMarker:          "img",
	Submitted:          "td table td:nth-child(2) a",

	CalendarEvents:      "#tblCalendrierEvenement td > div:nth-of-type(4) > div",
	CalendarDay:         "div.jour",
	CalendarMonth:       "div.mois",
	CalendarTitle:       "h3",
	CalendarCourse:      "div.details span",
	CalendarDescription: "div.details > div",
}

// DateField locates a date inside a cell's text, in runes.
type DateField struct {
	// Skip is the length of the label preceding the date.
	Skip int
	// Length is the length of the date, zero takes the rest of the text.
	Length int
	// Token ends the date at the first whitespace after Skip and overrides Length. Month
	// names of three or four letters then keep their year.
	Token bool
	// Layout is the Go reference layout of the normalized date.
	Layout string
}

func (f DateField) cut(text string) (string, error) {
	runes := []rune(text)
	if f.Skip > len(runes) {
		return "", dates.DateParseError{
			Raw: text,
			Err: fmt.Errorf("%w: expected at least %d characters", dates.ErrMalformedDate, f.Skip),
		}
	}

	if f.Token {
		fields := strings.Fields(string(runes[f.Skip:]))
		if len(fields) == 0 {
			return "", dates.DateParseError{
				Raw: text,
				Err: fmt.Errorf("%w: no date after %d characters", dates.ErrMalformedDate, f.Skip),
			}
		}
		return fields[0], nil
	}

	end := len(runes)
	if f.Length > 0 {
		end = f.Skip + f.Length
	}
	if end > len(runes) {
		return "", dates.DateParseError{
			Raw: text,
			Err: fmt.Errorf("%w: expected at least %d characters", dates.ErrMalformedDate, end),
		}
	}
	return strings.TrimSpace(string(runes[f.Skip:end])), nil
}

type AdapterOptions struct {
	Institution    string
	Layout         Layout
	Months         dates.MonthTable
	Locale         dates.Locale
	DocumentDate   DateField
	AssignmentDate DateField
	// CalendarLayout parses "<day> <month> <year>" once the month is normalized.
	CalendarLayout string
	Time           chrono.TimeAPI
	Tel            telemetry.API
}

// Adapter extracts records from Omnivox LEA pages.
type Adapter struct {
	institution    string
	layout         Layout
	months         dates.MonthTable
	locale         dates.Locale
	documentDate   DateField
	assignmentDate DateField
	calendarLayout string
	time           chrono.TimeAPI
	tel            telemetry.API
}

func NewAdapter(opts AdapterOptions) *Adapter {
	assert.NotEmptyStr(opts.Institution)
	assert.NotNil(opts.Months)
	assert.NotNil(opts.Time)
	assert.NotNil(opts.Tel)

	return &Adapter{
		institution:    opts.Institution,
		layout:         opts.Layout,
		months:         opts.Months,
		locale:         opts.Locale,
		documentDate:   opts.DocumentDate,
		assignmentDate: opts.AssignmentDate,
		calendarLayout: opts.CalendarLayout,
		time:           opts.Time,
		tel:            telemetry.NewScopedAPI(opts.Institution, opts.Tel),
	}
}

func (a *Adapter) parseDate(raw string, layout string) (time.Time, error) {
	normalized, err := dates.Normalize(raw, a.months)
	if err != nil {
		return time.Time{}, err
	}
	return dates.Parse(layout, normalized, a.locale, a.time.Location())
}

func (a *Adapter) heading(page *browser.Page, kind portal.PageKind) (string, error) {
	heading, ok := page.FindOne(a.layout.Heading)
	if !ok || heading.Text() == "" {
		return "", portal.ExtractionStructureError{
			Kind:     kind,
			Selector: a.layout.Heading,
			URL:      page.URL().String(),
		}
	}
	return heading.Text(), nil
}

func (a *Adapter) cells(row browser.Node, indexes ...int) ([]string, error) {
	out := make([]string, len(indexes))
	for i, index := range indexes {
		cell, ok := row.Cell(index)
		if !ok {
			return nil, fmt.Errorf("row has no cell %d", index)
		}
		out[i] = cell.Text()
	}
	return out, nil
}

func (a *Adapter) unseen(row browser.Node) bool {
	first, ok := row.Cell(0)
	if !ok {
		return false
	}
	return first.Has(a.layout.NewMarker)
}

func (a *Adapter) ExtractDocuments(page *browser.Page) (portal.Batch[*records.Document], error) {
	var batch portal.Batch[*records.Document]

	courseName, err := a.heading(page, portal.PageDocuments)
	if err != nil {
		a.tel.ReportBroken(report_adapter_extract_documents, err)
		return batch, err
	}

	for i, row := range page.FindAll(a.layout.DocumentRows) {
		skip := func(title string, err error) {
			err = fmt.Errorf("%s document row %d '%s': %w", courseName, i+1, title, err)
			a.tel.ReportWarning(report_adapter_extract_documents, err)
			batch.Skipped = append(batch.Skipped, err)
		}

		cells, err := a.cells(row, a.layout.DocumentTitleCell, a.layout.DocumentDateCell, a.layout.DocumentFileCell)
		if err != nil {
			skip("", err)
			continue
		}
		title, distributed, file := cells[0], cells[1], cells[2]

		raw, err := a.documentDate.cut(distributed)
		if err != nil {
			skip(title, err)
			continue
		}
		ts, err := a.parseDate(raw, a.documentDate.Layout)
		if err != nil {
			skip(title, err)
			continue
		}

		batch.Records = append(batch.Records, records.NewDocument(courseName, title, ts, !a.unseen(row), file))
	}

	a.tel.ReportDebug("extracted documents", courseName, len(batch.Records), len(batch.Skipped))
	return batch, nil
}

func (a *Adapter) ExtractAssignments(page *browser.Page) (portal.Batch[*records.Assignment], error) {
	var batch portal.Batch[*records.Assignment]

	courseName, err := a.heading(page, portal.PageAssignments)
	if err != nil {
		a.tel.ReportBroken(report_adapter_extract_assignments, err)
		return batch, err
	}

	for i, row := range page.FindAll(a.layout.AssignmentRows) {
		skip := func(title string, err error) {
			err = fmt.Errorf("%s assignment row %d '%s': %w", courseName, i+1, title, err)
			a.tel.ReportWarning(report_adapter_extract_assignments, err)
			batch.Skipped = append(batch.Skipped, err)
		}

		cells, err := a.cells(row, a.layout.AssignmentTitle, a.layout.AssignmentDateCell)
		if err != nil {
			skip("", err)
			continue
		}
		title, due := cells[0], cells[1]

		raw, err := a.assignmentDate.cut(due)
		if err != nil {
			skip(title, err)
			continue
		}
		ts, err := a.parseDate(raw, a.assignmentDate.Layout)
		if err != nil {
			skip(title, err)
			continue
		}

		completed := row.Has(a.layout.Submitted)
		batch.Records = append(batch.Records, records.NewAssignment(courseName, title, ts, !a.unseen(row), completed))
	}

	a.tel.ReportDebug("extracted assignments", courseName, len(batch.Records), len(batch.Skipped))
	return batch, nil
}

func (a *Adapter) ExtractCalendarEvents(ctx context.Context, page *browser.Page, changer portal.CalendarViewChanger) (portal.Batch[*records.CalendarEvent], error) {
	ctx, span := tracer.Start(ctx, "Adapter.ExtractCalendarEvents")
	defer span.End()

	var batch portal.Batch[*records.CalendarEvent]

	events := page.FindAll(a.layout.CalendarEvents)
	if len(events) == 0 && changer != nil {
		span.AddEvent("calendar view change")
		refreshed, err := changer.RequestCalendarViewChange(ctx, page)
		if err != nil {
			if !errors.Is(err, portal.ErrNoCalendarViewChange) {
				a.tel.ReportWarning(report_adapter_extract_calendar_events, err)
			}
			recordSpanError(span, err)
			return batch, err
		}
		events = refreshed.FindAll(a.layout.CalendarEvents)
	}

	year := a.time.Now().Year()
	for i, event := range events {
		skip := func(title string, err error) {
			err = fmt.Errorf("calendar event %d '%s': %w", i+1, title, err)
			a.tel.ReportWarning(report_adapter_extract_calendar_events, err)
			batch.Skipped = append(batch.Skipped, err)
		}

		titleNode, ok := event.FindOne(a.layout.CalendarTitle)
		if !ok {
			skip("", fmt.Errorf("no element matches '%s'", a.layout.CalendarTitle))
			continue
		}
		title := titleNode.Text()

		day, dayOk := event.FindOne(a.layout.CalendarDay)
		month, monthOk := event.FindOne(a.layout.CalendarMonth)
		if !dayOk || !monthOk {
			skip(title, fmt.Errorf("event has no day or month"))
			continue
		}

		raw := day.Text() + " " + month.Text() + " " + strconv.Itoa(year)
		ts, err := a.parseDate(raw, a.calendarLayout)
		if err != nil {
			skip(title, err)
			continue
		}

		var courseName string
		course, ok := event.FindOne(a.layout.CalendarCourse)
		if ok {
			courseName = course.Text()
		}
		var description string
		descriptionNode, ok := event.FindOne(a.layout.CalendarDescription)
		if ok {
			description = descriptionNode.OwnText()
		}

		batch.Records = append(batch.Records, records.NewCalendarEvent(courseName, title, ts, description))
	}

	span.SetAttributes(
		attribute.Int("events", len(batch.Records)),
		attribute.Int("skipped", len(batch.Skipped)),
	)
	return batch, nil
}

var _ portal.Adapter = (*Adapter)(nil)
