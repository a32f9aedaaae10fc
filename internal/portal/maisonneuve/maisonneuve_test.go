package maisonneuve

import (
	"context"
	"errors"
	"testing"
	"time"

	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/portal/portaltest"

	"github.com/stretchr/testify/require"
)

var est = time.FixedZone("EST", -5*60*60)

func TestMaisonneuvePortal(t *testing.T) {
	site := portaltest.Portal{
		Username: "1934567",
		Password: "motdepasse",
		Courses: []portaltest.Course{
			{
				Name: "Chimie générale",
				Documents: []portaltest.Document{
					{Title: "Plan de cours", Date: "Distribué 20 jan 2020", File: "plan.pdf"},
					{Title: "Notes de cours 3", Date: "Distribué 3 fév 2020", New: true},
				},
				Assignments: []portaltest.Assignment{
					{Title: "Laboratoire 1", Due: "03-déc-2020 à 23h59", New: true},
				},
			},
		},
		Events: []portaltest.Event{
			{Day: "17", Month: "août", Title: "Rentrée"},
		},
	}.Maisonneuve()
	server := portaltest.NewServer(t, site)

	registry := portal.NewRegistry(map[string]portal.Institution{
		"maisonneuve": {Driver: Driver, BaseUrl: server.URL},
	})
	Register(registry)

	session, adapter, err := registry.Open("maisonneuve", portal.Environment{
		Time: chrono.NewFixedTime(time.Date(2020, time.February, 10, 9, 0, 0, 0, est)),
		Tel:  telemetry.NewRecorder(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "1934567", "motdepasse"))
	require.NoError(t, session.LoadCourseList(ctx))

	documentPages, err := session.DocumentPages(ctx)
	require.NoError(t, err)
	require.Len(t, documentPages, 1)
	documents, err := adapter.ExtractDocuments(documentPages[0].Page)
	require.NoError(t, err)
	require.Len(t, documents.Records, 2)
	require.Equal(t, "Chimie générale", documents.Records[0].CourseName())
	require.Equal(t, time.Date(2020, time.January, 20, 0, 0, 0, 0, est), documents.Records[0].Timestamp())
	require.Equal(t, "Link", documents.Records[1].AttachmentName())

	assignmentPages, err := session.AssignmentPages(ctx)
	require.NoError(t, err)
	assignments, err := adapter.ExtractAssignments(assignmentPages[0].Page)
	require.NoError(t, err)
	require.Len(t, assignments.Records, 1)
	require.Equal(t, time.Date(2020, time.December, 3, 0, 0, 0, 0, est), assignments.Records[0].Timestamp())
	require.False(t, assignments.Records[0].Completed())
	require.False(t, assignments.Records[0].Seen())

	home, err := session.HomePage()
	require.NoError(t, err)
	events, err := adapter.ExtractCalendarEvents(ctx, home, session)
	require.NoError(t, err)
	require.Len(t, events.Records, 1)
	require.Equal(t, time.Date(2020, time.August, 17, 0, 0, 0, 0, est), events.Records[0].Timestamp())

	_, err = session.WhatsNew(ctx)
	require.True(t, errors.Is(err, errors.ErrUnsupported))
}

func TestMaisonneuveBadCredentials(t *testing.T) {
	server := portaltest.NewServer(t, portaltest.Portal{Username: "1", Password: "2"}.Maisonneuve())
	registry := portal.NewRegistry(map[string]portal.Institution{
		"maisonneuve": {Driver: Driver, BaseUrl: server.URL},
	})
	Register(registry)

	session, _, err := registry.Open("maisonneuve", portal.Environment{
		Time: chrono.NewFixedTime(time.Now()),
		Tel:  telemetry.NewRecorder(),
	})
	require.NoError(t, err)

	err = session.Login(context.Background(), "1", "3")
	var authErr portal.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "maisonneuve", authErr.Institution)
}

func TestMaisonneuveSummerAssignments(t *testing.T) {
	site := portaltest.Portal{
		Username: "1934567",
		Password: "motdepasse",
		Courses: []portaltest.Course{
			{
				Name: "Physique",
				Assignments: []portaltest.Assignment{
					{Title: "Devoir juillet court", Due: "03-jui-2020 à 23h59"},
					{Title: "Devoir juin", Due: "03-juin-2020 à 23h59"},
					{Title: "Devoir juillet", Due: "02-juil-2020 à 23h59", Submitted: true},
					{Title: "Devoir mai", Due: "02-mai-2020 à 23h59"},
				},
			},
		},
	}.Maisonneuve()
	server := portaltest.NewServer(t, site)

	registry := portal.NewRegistry(map[string]portal.Institution{
		"maisonneuve": {Driver: Driver, BaseUrl: server.URL},
	})
	Register(registry)

	session, adapter, err := registry.Open("maisonneuve", portal.Environment{
		Time: chrono.NewFixedTime(time.Date(2020, time.May, 1, 9, 0, 0, 0, est)),
		Tel:  telemetry.NewRecorder(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "1934567", "motdepasse"))
	require.NoError(t, session.LoadCourseList(ctx))

	pages, err := session.AssignmentPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	batch, err := adapter.ExtractAssignments(pages[0].Page)
	require.NoError(t, err)
	require.Empty(t, batch.Skipped)
	require.Len(t, batch.Records, 4)

	expected := []time.Time{
		time.Date(2020, time.July, 3, 0, 0, 0, 0, est),
		time.Date(2020, time.June, 3, 0, 0, 0, 0, est),
		time.Date(2020, time.July, 2, 0, 0, 0, 0, est),
		time.Date(2020, time.May, 2, 0, 0, 0, 0, est),
	}
	for i, a := range batch.Records {
		require.Equal(t, expected[i], a.Timestamp(), a.Title())
	}
	require.True(t, batch.Records[2].Completed())
}
