// Package champlain drives the Omnivox portal of Champlain College Saint-Lambert.
package champlain

import (
	"omnivox-backend/internal/dates"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/portal/omnivox"
)

const Driver = "champlain"

var Navigation = omnivox.Navigation{
	HomeMarker:         "#region-raccourcis-services-skytech",
	CourseListLink:     "#region-raccourcis-services-skytech a",
	CourseRow:          ".card-panel.section-spacing",
	CourseLabel:        ".card-panel-title",
	DocumentLink:       "div:nth-of-type(2) > a:nth-of-type(1)",
	AssignmentLink:     "div:nth-of-type(2) > a:nth-of-type(2)",
	WhatsNew:           "#qdn-sans-bouton-wrapper a > div:nth-of-type(2)",
	CalendarViewChange: true,
}

// LEA dates read "Posted: 03 Feb 2020" on document pages and "03-Feb-2020 at 11:59 PM"
// on assignment pages.
var (
	DocumentDate   = omnivox.DateField{Skip: 8, Layout: "2 Jan 2006"}
	AssignmentDate = omnivox.DateField{Length: 11, Layout: "2-Jan-2006"}
)

func Open(id string, institution portal.Institution, env portal.Environment) (portal.Session, portal.Adapter, error) {
	session, err := omnivox.NewSession(omnivox.SessionOptions{
		Institution: id,
		BaseUrl:     institution.BaseUrl,
		Browser:     env.Browser,
		Navigation:  Navigation,
		Time:        env.Time,
		Tel:         env.Tel,
	})
	if err != nil {
		return nil, nil, err
	}

	adapter := omnivox.NewAdapter(omnivox.AdapterOptions{
		Institution:    id,
		Layout:         omnivox.LEA,
		Months:         dates.EnglishMonths,
		Locale:         dates.English,
		DocumentDate:   DocumentDate,
		AssignmentDate: AssignmentDate,
		CalendarLayout: "2 Jan 2006",
		Time:           env.Time,
		Tel:            env.Tel,
	})
	return session, adapter, nil
}

func Register(registry *portal.Registry) {
	registry.Register(Driver, Open)
}
