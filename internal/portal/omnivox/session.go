package omnivox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/portal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("omnivox-backend/internal/portal/omnivox")

const (
	report_session_login                = "session.login"
	report_session_load_course_list     = "session.load-course-list"
	report_session_course_pages         = "session.course-pages"
	report_session_calendar_view_change = "session.calendar-view-change"
	report_session_whats_new            = "session.whats-new"
)

const (
	LoginPath = "/intr/Module/Identification/Login/Login.aspx"
	// CalendarSelectorPath is resolved relative to the home page.
	CalendarSelectorPath = "UI/WebParts/Intraflex_CalendrierScolaire/Webpart_Affichage_Selector.ashx"

	loginFormSelector  = `form[name="formLogin"]`
	loginTokenSelector = `input[name="k"]`
)

// Navigation holds the selectors that differ between the home pages and course lists of
// Omnivox institutions.
type Navigation struct {
	// HomeMarker must be present on the landing page after login, empty skips the check.
	HomeMarker string
	// CourseListLink is the home page link leading to the course list.
	CourseListLink string
	// CourseRow matches one element per course on the course list.
	CourseRow string
	// CourseLabel is the course name within a row, the row text is used when empty.
	CourseLabel    string
	DocumentLink   string
	AssignmentLink string
	// WhatsNew matches the home page announcements, empty when the portal has none.
	WhatsNew string
	// CalendarViewChange enables the day view request against the calendar widget.
	CalendarViewChange bool
}

type SessionOptions struct {
	Institution string
	BaseUrl     string
	Browser     browser.Options
	Navigation  Navigation
	Time        chrono.TimeAPI
	Tel         telemetry.API
}

// Session drives one student's authenticated visit of an Omnivox portal.
type Session struct {
	institution string
	nav         Navigation
	browser     *browser.Browser
	time        chrono.TimeAPI
	tel         telemetry.API

	state      portal.State
	home       *browser.Page
	courseList *browser.Page
}

func NewSession(opts SessionOptions) (*Session, error) {
	assert.NotEmptyStr(opts.Institution)
	assert.NotNil(opts.Time)
	assert.NotNil(opts.Tel)

	tel := telemetry.NewScopedAPI(opts.Institution, opts.Tel)
	b, err := browser.New(opts.BaseUrl, opts.Browser, tel)
	if err != nil {
		return nil, err
	}

	return &Session{
		institution: opts.Institution,
		nav:         opts.Navigation,
		browser:     b,
		time:        opts.Time,
		tel:         tel,
	}, nil
}

func (s *Session) Institution() string {
	return s.institution
}

func (s *Session) State() portal.State {
	return s.state
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (s *Session) authError(stage string, err error) error {
	return portal.AuthenticationError{
		Institution: s.institution,
		Stage:       stage,
		Err:         err,
	}
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Session.Login")
	defer span.End()
	span.SetAttributes(attribute.String("institution", s.institution))

	s.state = portal.StateUnauthenticated
	s.home = nil
	s.courseList = nil

	loginPage, err := s.browser.Get(ctx, LoginPath)
	if err != nil {
		err = s.authError("login-page", err)
		s.tel.ReportBroken(report_session_login, err)
		recordSpanError(span, err)
		return err
	}

	var value string
	token, ok := loginPage.FindOne(loginTokenSelector)
	if ok {
		value, _ = token.Attr("value")
	}
	if value == "" {
		err := s.authError("login-page", portal.ErrLoginTokenMissing)
		s.tel.ReportBroken(report_session_login, err, loginPage.URL().String())
		recordSpanError(span, err)
		return err
	}

	landing, err := s.browser.Post(ctx, LoginPath, url.Values{
		"NoDA":               {username},
		"PasswordEtu":        {password},
		"TypeIdentification": {"Etudiant"},
		"TypeLogin":          {"PostSolutionLogin"},
		"k":                  {value},
	})
	if err != nil {
		err = s.authError("submit", err)
		s.tel.ReportBroken(report_session_login, err)
		recordSpanError(span, err)
		return err
	}

	if landing.Has(loginFormSelector) {
		err := s.authError("submit", portal.ErrInvalidCredentials)
		s.tel.ReportWarning(report_session_login, err)
		recordSpanError(span, err)
		return err
	}
	if s.nav.HomeMarker != "" && !landing.Has(s.nav.HomeMarker) {
		err := s.authError("landing", fmt.Errorf("landing page %s lacks '%s'", landing.URL(), s.nav.HomeMarker))
		s.tel.ReportBroken(report_session_login, err)
		recordSpanError(span, err)
		return err
	}

	s.home = landing
	s.state = portal.StateAuthenticated
	s.tel.ReportDebug("logged in", landing.URL().String())
	return nil
}

func (s *Session) HomePage() (*browser.Page, error) {
	if s.state < portal.StateAuthenticated {
		return nil, portal.ErrNotAuthenticated
	}
	return s.home, nil
}

func (s *Session) LoadCourseList(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Session.LoadCourseList")
	defer span.End()

	if s.state < portal.StateAuthenticated {
		recordSpanError(span, portal.ErrNotAuthenticated)
		return portal.ErrNotAuthenticated
	}

	link, ok := s.home.FindOne(s.nav.CourseListLink)
	if !ok {
		err := portal.NavigationError{
			Institution: s.institution,
			Target:      "course list",
			Err:         fmt.Errorf("no element matches '%s'", s.nav.CourseListLink),
		}
		s.tel.ReportBroken(report_session_load_course_list, err)
		recordSpanError(span, err)
		return err
	}

	page, err := link.Click(ctx)
	if err != nil {
		err = portal.NavigationError{
			Institution: s.institution,
			Target:      "course list",
			Err:         err,
		}
		s.tel.ReportBroken(report_session_load_course_list, err)
		recordSpanError(span, err)
		return err
	}

	s.courseList = page
	s.state = portal.StateCourseListLoaded
	return nil
}

func (s *Session) DocumentPages(ctx context.Context) ([]portal.PageResult, error) {
	return s.coursePages(ctx, portal.PageDocuments, s.nav.DocumentLink)
}

func (s *Session) AssignmentPages(ctx context.Context) ([]portal.PageResult, error) {
	return s.coursePages(ctx, portal.PageAssignments, s.nav.AssignmentLink)
}

func (s *Session) courseLabel(row browser.Node, index int) string {
	if s.nav.CourseLabel != "" {
		label, ok := row.FindOne(s.nav.CourseLabel)
		if ok && label.Text() != "" {
			return label.Text()
		}
	}
	text := row.Text()
	if text == "" {
		return fmt.Sprintf("course %d", index+1)
	}
	return text
}

func (s *Session) coursePages(ctx context.Context, kind portal.PageKind, linkSelector string) ([]portal.PageResult, error) {
	ctx, span := tracer.Start(ctx, "Session.CoursePages")
	defer span.End()
	span.SetAttributes(attribute.String("kind", kind.String()))

	if s.state < portal.StateCourseListLoaded {
		recordSpanError(span, portal.ErrCourseListNotLoaded)
		return nil, portal.ErrCourseListNotLoaded
	}

	rows := s.courseList.FindAll(s.nav.CourseRow)
	results := make([]portal.PageResult, len(rows))
	for i, row := range rows {
		label := s.courseLabel(row, i)
		results[i].Course = label

		navErr := func(err error) error {
			return portal.NavigationError{
				Institution: s.institution,
				Target:      fmt.Sprintf("%s of '%s'", kind, label),
				Err:         err,
			}
		}

		link, ok := row.FindOne(linkSelector)
		if !ok {
			results[i].Err = navErr(fmt.Errorf("no element matches '%s'", linkSelector))
			s.tel.ReportWarning(report_session_course_pages, results[i].Err)
			continue
		}
		page, err := link.Click(ctx)
		if err != nil {
			results[i].Err = navErr(err)
			s.tel.ReportWarning(report_session_course_pages, results[i].Err)
			continue
		}
		results[i].Page = page
	}

	s.tel.ReportCount(fmt.Sprintf("%s.%s-pages", report_session_course_pages, kind), int64(len(results)))
	return results, nil
}

// RequestCalendarViewChange posts the day view toggle the calendar widget sends when its
// button is clicked, then reloads the home page.
func (s *Session) RequestCalendarViewChange(ctx context.Context, home *browser.Page) (*browser.Page, error) {
	ctx, span := tracer.Start(ctx, "Session.RequestCalendarViewChange")
	defer span.End()

	if !s.nav.CalendarViewChange {
		err := fmt.Errorf("%s: %w", s.institution, portal.ErrNoCalendarViewChange)
		recordSpanError(span, err)
		return nil, err
	}
	if home == nil {
		home = s.home
	}
	if home == nil {
		return nil, portal.ErrNotAuthenticated
	}

	target, err := home.Resolve(CalendarSelectorPath + "?t=" + strconv.FormatInt(s.time.Now().UnixMilli(), 10))
	if err != nil {
		s.tel.ReportBroken(report_session_calendar_view_change, err)
		recordSpanError(span, err)
		return nil, err
	}

	_, err = s.browser.Post(ctx, target.String(), url.Values{
		"isModeVueParJour": {"true"},
	})
	if err != nil {
		err = fmt.Errorf("change calendar view: %w", err)
		s.tel.ReportWarning(report_session_calendar_view_change, err)
		recordSpanError(span, err)
		return nil, err
	}

	refreshed, err := home.Refresh(ctx)
	if err != nil {
		err = fmt.Errorf("refresh home page: %w", err)
		s.tel.ReportWarning(report_session_calendar_view_change, err)
		recordSpanError(span, err)
		return nil, err
	}
	if home == s.home {
		s.home = refreshed
	}
	return refreshed, nil
}

func (s *Session) WhatsNew(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, "Session.WhatsNew")
	defer span.End()

	if s.nav.WhatsNew == "" {
		return nil, fmt.Errorf("%s what's new: %w", s.institution, errors.ErrUnsupported)
	}
	if s.state < portal.StateAuthenticated {
		return nil, portal.ErrNotAuthenticated
	}

	var entries []string
	for _, node := range s.home.FindAll(s.nav.WhatsNew) {
		text := node.Text()
		if text == "" {
			continue
		}
		entries = append(entries, text)
	}
	s.tel.ReportCount(report_session_whats_new, int64(len(entries)))
	return entries, nil
}

var _ portal.Session = (*Session)(nil)
