package dates

import (
	"fmt"
	"strings"
	"time"
)

// Locale holds the month strings a portal language formats dates with.
type Locale struct {
	Name  string
	Short [12]string
	Long  [12]string
}

// French follows the Canadian French month abbreviations.
var French = Locale{
	Name: "fr-CA",
	Short: [12]string{
		"janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc.",
	},
	Long: [12]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	},
}

var English = Locale{
	Name: "en-CA",
	Short: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	Long: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

func isDelimiter(r rune) bool {
	return r == ' ' || r == '-' || r == '/' || r == ','
}

func (l Locale) month(token string, long bool) (time.Month, bool) {
	names := l.Short
	if long {
		names = l.Long
	}
	for i, name := range names {
		if strings.EqualFold(name, token) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// Parse parses value with a Go reference layout ("2 Jan 2006", "02-Jan-2006",
// "2 January 2006") where the month in value is spelled in the locale.
func Parse(layout, value string, locale Locale, loc *time.Location) (time.Time, error) {
	long := strings.Contains(layout, "January")

	translated := value
	found := false
	for _, token := range strings.FieldsFunc(value, isDelimiter) {
		month, ok := locale.month(token, long)
		if !ok {
			continue
		}
		english := month.String()
		if !long {
			english = english[:3]
		}
		translated = strings.Replace(value, token, english, 1)
		found = true
		break
	}
	if !found {
		return time.Time{}, DateParseError{
			Raw: value,
			Err: fmt.Errorf("no %s month in value", locale.Name),
		}
	}

	t, err := time.ParseInLocation(layout, translated, loc)
	if err != nil {
		return time.Time{}, DateParseError{Raw: value, Err: err}
	}
	return t, nil
}
