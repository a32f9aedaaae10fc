package portaltest

import (
	"fmt"
	"strings"
	"time"
)

type Course struct {
	Name        string
	Documents   []Document
	Assignments []Assignment
	// MissingPages makes the course links point at pages that do not exist.
	MissingPages bool
	// Delay holds back both course pages.
	Delay time.Duration
}

// Portal describes a student's portal content independently of the institution markup.
type Portal struct {
	Username string
	Password string
	Courses  []Course
	Events   []Event
	// WeekView hides the calendar events until the day view is requested.
	WeekView bool
	WhatsNew []string
}

const token = "f3a9c0d2e1b4"

func (p Portal) coursePages(pages map[string]string, i int, c Course) (documents, assignments string) {
	if c.MissingPages {
		return "/intr/Module/LEA/Introuvable.aspx", "/intr/Module/LEA/Introuvable.aspx"
	}
	documents = fmt.Sprintf("/intr/Module/LEA/Documents/%d", i)
	assignments = fmt.Sprintf("/intr/Module/LEA/Travaux/%d", i)
	pages[documents] = DocumentsPage(c.Name, c.Documents)
	pages[assignments] = AssignmentsPage(c.Name, c.Assignments)
	return documents, assignments
}

func (p Portal) delays() map[string]time.Duration {
	delays := map[string]time.Duration{}
	for i, c := range p.Courses {
		if c.Delay <= 0 || c.MissingPages {
			continue
		}
		delays[fmt.Sprintf("/intr/Module/LEA/Documents/%d", i)] = c.Delay
		delays[fmt.Sprintf("/intr/Module/LEA/Travaux/%d", i)] = c.Delay
	}
	return delays
}

func (p Portal) site(home func(calendar string) string) Site {
	site := Site{
		Username: p.Username,
		Password: p.Password,
		Token:    token,
		Pages:    map[string]string{},
		Delays:   p.delays(),
	}
	if p.WeekView {
		site.Home = home(Calendar(nil))
		site.DayViewHome = home(Calendar(p.Events))
	} else {
		site.Home = home(Calendar(p.Events))
	}
	return site
}

// Champlain renders the portal with Champlain's anglophone home page and card course list.
func (p Portal) Champlain() Site {
	site := p.site(func(calendar string) string {
		var news strings.Builder
		for _, entry := range p.WhatsNew {
			fmt.Fprintf(&news, `<a href="#"><div class="icone"></div><div>%s</div></a>`, escape(entry))
		}
		return fmt.Sprintf(`<html><body>
<div id="region-raccourcis-services-skytech">
	<a href="/intr/Module/LEA/Cours.aspx">Lea</a>
	<a href="/intr/Module/MIO/Messages.aspx">MIO</a>
</div>
<div id="qdn-sans-bouton-wrapper">%s</div>
%s
</body></html>`, news.String(), calendar)
	})

	var cards strings.Builder
	for i, c := range p.Courses {
		documents, assignments := p.coursePages(site.Pages, i, c)
		fmt.Fprintf(&cards, `<div class="card-panel section-spacing">
	<div class="card-panel-title">%s</div>
	<div class="card-panel-desc"><a href="%s">Documents</a><a href="%s">Assignments</a></div>
</div>
`, escape(c.Name), documents, assignments)
	}
	site.Pages["/intr/Module/LEA/Cours.aspx"] = fmt.Sprintf(`<html><body>
<div class="container">
%s</div>
</body></html>`, cards.String())

	return site
}

// Maisonneuve renders the portal with Maisonneuve's francophone home page and table
// course list.
func (p Portal) Maisonneuve() Site {
	site := p.site(func(calendar string) string {
		return fmt.Sprintf(`<html><body>
<div class="raccourcis">
	<a class="raccourci-mio" href="/intr/Module/MIO/Messages.aspx">Mio</a>
	<a class="raccourci-lea" href="/intr/Module/LEA/ListeCours.aspx">Léa</a>
</div>
%s
</body></html>`, calendar)
	})

	var rows strings.Builder
	for i, c := range p.Courses {
		documents, assignments := p.coursePages(site.Pages, i, c)
		fmt.Fprintf(&rows, `<tr class="ligneCours"><td class="nomCours">%s</td><td><a class="lienDocuments" href="%s">Documents</a></td><td><a class="lienTravaux" href="%s">Travaux</a></td></tr>
`, escape(c.Name), documents, assignments)
	}
	site.Pages["/intr/Module/LEA/ListeCours.aspx"] = fmt.Sprintf(`<html><body>
<table class="tbListeCours"><tbody>
<tr class="entete"><td>Cours</td><td></td><td></td></tr>
%s</tbody></table>
</body></html>`, rows.String())

	return site
}
