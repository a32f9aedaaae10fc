package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"omnivox-backend/cmd/omnivox-cli/globals"
	"omnivox-backend/internal/pipeline"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/student"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("omnivox-backend/cmd/omnivox-cli")

func unknownInstitution(registry *portal.Registry, id string) error {
	return fmt.Errorf(
		"unknown institution '%s', supported institutions: %s",
		id, strings.Join(registry.Institutions(), ", "),
	)
}

// scrape runs the full pipeline for one student, only an unknown institution or a failed
// login make it return an error.
func scrape(ctx context.Context, institution, username, password string) (*pipeline.Pipeline, pipeline.Summary, error) {
	g := globals.Get(ctx)

	ctx, span := tracer.Start(ctx, "scrape")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", g.RunId),
		attribute.String("institution", institution),
	)

	session, adapter, err := g.Registry.Open(institution, g.Environment())
	if errors.Is(err, portal.ErrUnknownInstitution) {
		return nil, pipeline.Summary{}, unknownInstitution(g.Registry, institution)
	}
	if err != nil {
		return nil, pipeline.Summary{}, err
	}

	p := pipeline.New(pipeline.Options{
		Session: session,
		Adapter: adapter,
		Student: student.NewStudent(g.Time),
		Tel:     g.Tel,
	})
	summary, err := p.Run(ctx, username, password)
	if err != nil {
		return nil, pipeline.Summary{}, err
	}

	slog.Info(
		"pulled student",
		"institution", institution,
		"documents", summary.Documents,
		"assignments", summary.Assignments,
		"calendar_events", summary.CalendarEvents,
		"warnings", summary.Warnings,
	)
	return p, summary, nil
}
