package pipeline

import (
	"context"
	"sync"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/records"
	"omnivox-backend/internal/student"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("omnivox-backend/internal/pipeline")

const (
	report_pipeline_login            = "pipeline.login"
	report_pipeline_pull_documents   = "pipeline.pull-documents"
	report_pipeline_pull_assignments = "pipeline.pull-assignments"
	report_pipeline_pull_calendar    = "pipeline.pull-calendar-events"
)

type Options struct {
	Session portal.Session
	Adapter portal.Adapter
	Student *student.Student
	Tel     telemetry.API
}

// Summary counts what a run added to the student.
type Summary struct {
	Documents      int
	Assignments    int
	CalendarEvents int
	Warnings       int
}

// Pipeline feeds the pages a session navigates to through an adapter and into a student.
// Only authentication failures stop it, every other failure becomes a warning.
type Pipeline struct {
	session portal.Session
	adapter portal.Adapter
	student *student.Student
	tel     telemetry.API

	mutex    sync.Mutex
	warnings []error
}

func New(opts Options) *Pipeline {
	assert.NotNil(opts.Session)
	assert.NotNil(opts.Adapter)
	assert.NotNil(opts.Student)
	assert.NotNil(opts.Tel)

	return &Pipeline{
		session: opts.Session,
		adapter: opts.Adapter,
		student: opts.Student,
		tel:     telemetry.NewScopedAPI("pipeline", opts.Tel),
	}
}

func (p *Pipeline) warn(id string, err error) {
	p.tel.ReportWarning(id, err)
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.warnings = append(p.warnings, err)
}

// Warnings returns every non fatal failure collected so far.
func (p *Pipeline) Warnings() []error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]error(nil), p.warnings...)
}

func (p *Pipeline) Student() *student.Student {
	return p.student
}

// Login authenticates and loads the course list. A course list that cannot be loaded is a
// warning, the calendar can still be read from the home page.
func (p *Pipeline) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Pipeline.Login")
	defer span.End()
	span.SetAttributes(attribute.String("institution", p.session.Institution()))

	err := p.session.Login(ctx, username, password)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_login, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = p.session.LoadCourseList(ctx)
	if err != nil {
		p.warn(report_pipeline_login, err)
		span.RecordError(err)
	}
	return nil
}

func pull[T records.Record](
	ctx context.Context,
	p *Pipeline,
	id string,
	pages func(context.Context) ([]portal.PageResult, error),
	extract func(*browser.Page) (portal.Batch[T], error),
	assign func(courseName string, record T) error,
) int {
	results, err := pages(ctx)
	if err != nil {
		p.warn(id, err)
		return 0
	}

	added := 0
	for _, result := range results {
		if result.Err != nil {
			p.warn(id, result.Err)
			continue
		}

		batch, err := extract(result.Page)
		if err != nil {
			p.warn(id, err)
			continue
		}
		for _, skipped := range batch.Skipped {
			p.warn(id, skipped)
		}
		if len(batch.Records) == 0 {
			continue
		}

		for _, record := range batch.Records {
			p.student.AddCourse(record.CourseName())
			err := assign(record.CourseName(), record)
			if err != nil {
				p.warn(id, err)
				continue
			}
			added++
		}
	}
	return added
}

func (p *Pipeline) PullDocuments(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "Pipeline.PullDocuments")
	defer span.End()

	added := pull(ctx, p, report_pipeline_pull_documents, p.session.DocumentPages, p.adapter.ExtractDocuments, p.student.AssignDocument)
	span.SetAttributes(attribute.Int("documents", added))
	p.tel.ReportCount(report_pipeline_pull_documents, int64(added))
	return added
}

func (p *Pipeline) PullAssignments(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "Pipeline.PullAssignments")
	defer span.End()

	added := pull(ctx, p, report_pipeline_pull_assignments, p.session.AssignmentPages, p.adapter.ExtractAssignments, p.student.AssignAssignment)
	span.SetAttributes(attribute.Int("assignments", added))
	p.tel.ReportCount(report_pipeline_pull_assignments, int64(added))
	return added
}

// PullCalendarEvents reads the home page calendar once, events older than the student's
// grace period are dropped.
func (p *Pipeline) PullCalendarEvents(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "Pipeline.PullCalendarEvents")
	defer span.End()

	home, err := p.session.HomePage()
	if err != nil {
		p.warn(report_pipeline_pull_calendar, err)
		return 0
	}

	batch, err := p.adapter.ExtractCalendarEvents(ctx, home, p.session)
	if err != nil {
		p.warn(report_pipeline_pull_calendar, err)
		return 0
	}
	for _, skipped := range batch.Skipped {
		p.warn(report_pipeline_pull_calendar, skipped)
	}

	admitted := 0
	for _, event := range batch.Records {
		if p.student.AssignCalendarEvent(event) {
			admitted++
			continue
		}
		p.tel.ReportDebug("dropped past calendar event", event.Title(), event.DateString())
	}

	span.SetAttributes(
		attribute.Int("events", admitted),
		attribute.Int("dropped", len(batch.Records)-admitted),
	)
	p.tel.ReportCount(report_pipeline_pull_calendar, int64(admitted))
	return admitted
}

// Run logs in and pulls everything, the returned error is always an authentication failure.
func (p *Pipeline) Run(ctx context.Context, username, password string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Run")
	defer span.End()

	err := p.Login(ctx, username, password)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Documents:      p.PullDocuments(ctx),
		Assignments:    p.PullAssignments(ctx),
		CalendarEvents: p.PullCalendarEvents(ctx),
	}
	summary.Warnings = len(p.Warnings())
	return summary, nil
}

func (p *Pipeline) WhatsNew(ctx context.Context) ([]string, error) {
	return p.session.WhatsNew(ctx)
}
