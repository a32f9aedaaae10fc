package portaltest

import (
	"fmt"
	"strings"
)

type Document struct {
	Title string
	// Date is the date cell as the portal prints it, label included.
	Date string
	File string
	New  bool
}

type Assignment struct {
	Title string
	// Due is the due date cell as the portal prints it.
	Due       string
	New       bool
	Submitted bool
}

type Event struct {
	Day         string
	Month       string
	Title       string
	Course      string
	Description string
}

func newMarker(isNew bool) string {
	if isNew {
		return `<img src="/images/nouveau.gif" alt="nouveau">`
	}
	return ""
}

// DocumentsPage renders a LEA course documents page.
func DocumentsPage(course string, documents []Document) string {
	var rows strings.Builder
	for i, d := range documents {
		class := "itemDataGrid"
		if i%2 == 1 {
			class = "itemDataGridAltern"
		}
		fmt.Fprintf(
			&rows,
			"<tr class=\"%s\">\n<td>%s</td>\n<td>\n\t%s\n</td>\n<td>%s</td>\n<td>%s</td>\n</tr>\n",
			class, newMarker(d.New), escape(d.Title), escape(d.Date), escape(d.File),
		)
	}
	return fmt.Sprintf(`<html><body>
<div class="TitrePageLigne1">LEA</div>
<div class="TitrePageLigne2">%s</div>
<table class="tbDocuments"><tbody>
<tr class="entete"><td></td><td>Titre</td><td>Date</td><td>Fichier</td></tr>
%s</tbody></table>
</body></html>`, escape(course), rows.String())
}

// AssignmentsPage renders a LEA course assignments page.
func AssignmentsPage(course string, assignments []Assignment) string {
	var rows strings.Builder
	for _, a := range assignments {
		submission := `<td>Non remis</td><td></td>`
		if a.Submitted {
			submission = `<td>Remis</td><td><a href="copie.html">Copie</a></td>`
		}
		fmt.Fprintf(
			&rows,
			"<tr height=\"30\"><td>%s</td><td>%s</td><td>%s</td><td><table><tbody><tr>%s</tr></tbody></table></td></tr>\n",
			newMarker(a.New), escape(a.Title), escape(a.Due), submission,
		)
	}
	return fmt.Sprintf(`<html><body>
<div class="TitrePageLigne2">%s</div>
<table id="tabListeTravEtu"><tbody>
<tr height="20"><td></td><td>Travail</td><td>Date de remise</td><td>Remise</td></tr>
%s</tbody></table>
</body></html>`, escape(course), rows.String())
}

// Calendar renders the home page calendar widget, an empty event list renders the week
// view which has no event cells.
func Calendar(events []Event) string {
	var cells strings.Builder
	for _, e := range events {
		course := ""
		if e.Course != "" {
			course = fmt.Sprintf("<span>%s</span>", escape(e.Course))
		}
		fmt.Fprintf(
			&cells,
			`<div class="evenement"><div><div class="jourSemaine"></div><div class="jour">%s</div><div class="mois">%s</div></div><div class="separateur"></div><div class="details"><h3>%s</h3><div>%s%s</div></div></div>`,
			escape(e.Day), escape(e.Month), escape(e.Title), course, escape(e.Description),
		)
	}
	return fmt.Sprintf(`<table id="tblCalendrierEvenement"><tbody><tr><td>
<div class="entete"></div><div class="navigation"></div><div class="legende"></div>
<div class="evenements">%s</div>
</td></tr></tbody></table>`, cells.String())
}
