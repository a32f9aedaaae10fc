// Package maisonneuve drives the Omnivox portal of Collège de Maisonneuve.
package maisonneuve

import (
	"omnivox-backend/internal/dates"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/portal/omnivox"
)

const Driver = "maisonneuve"

// Navigation has no what's new selector, the home page has no such section.
var Navigation = omnivox.Navigation{
	HomeMarker:         "a.raccourci-lea",
	CourseListLink:     "a.raccourci-lea",
	CourseRow:          "table.tbListeCours tr.ligneCours",
	CourseLabel:        "td.nomCours",
	DocumentLink:       "a.lienDocuments",
	AssignmentLink:     "a.lienTravaux",
	CalendarViewChange: true,
}

// LEA dates read "Distribué 3 fév 2020" on document pages and "03-fév-2020 à 23h59" on
// assignment pages. June and July come as "juin"/"juil" as well as "jui", so the due date
// is cut at the first space instead of a fixed width.
var (
	DocumentDate   = omnivox.DateField{Skip: 10, Layout: "2 Jan 2006"}
	AssignmentDate = omnivox.DateField{Token: true, Layout: "2-Jan-2006"}
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
		Months:         dates.FrenchMonths,
		Locale:         dates.French,
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
