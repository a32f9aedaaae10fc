package dates

import (
	"strings"
)

// MonthTable maps the month prefixes a portal emits to the month strings a Locale parses.
type MonthTable map[string]string

// FrenchMonths covers the truncated months of francophone Omnivox portals. juin and juillet
// share a three letter prefix so they are keyed on four, and a bare "jui" is read as juillet.
var FrenchMonths = MonthTable{
	"jan":  "janv.",
	"fév":  "févr.",
	"mar":  "mars",
	"avr":  "avr.",
	"mai":  "mai",
	"jui":  "juil.",
	"juin": "juin",
	"juil": "juil.",
	"aoû":  "août",
	"sep":  "sept.",
	"oct":  "oct.",
	"nov":  "nov.",
	"déc":  "déc.",
}

var EnglishMonths = MonthTable{
	"jan": "Jan",
	"feb": "Feb",
	"mar": "Mar",
	"apr": "Apr",
	"may": "May",
	"jun": "Jun",
	"jul": "Jul",
	"aug": "Aug",
	"sep": "Sep",
	"oct": "Oct",
	"nov": "Nov",
	"dec": "Dec",
}

const minPrefix = 3

// Lookup resolves a month token by the longest table key prefixing it, down to three runes.
func (t MonthTable) Lookup(token string) (string, bool) {
	runes := []rune(strings.ToLower(token))
	for n := len(runes); n >= minPrefix; n-- {
		month, ok := t[string(runes[:n])]
		if ok {
			return month, true
		}
	}
	return "", false
}

// Normalize rewrites the month of a space or hyphen delimited "day month year" string
// into its canonical form, keeping the delimiter that was present.
//
// ex. "03 jan 2020" -> "03 janv. 2020", "03-déc-2020" -> "03-déc.-2020"
func Normalize(raw string, months MonthTable) (string, error) {
	delimiter := " "
	parts := strings.Fields(raw)
	if len(parts) == 1 {
		delimiter = "-"
		parts = strings.Split(parts[0], "-")
	}
	if len(parts) != 3 {
		return "", DateParseError{Raw: raw, Err: ErrMalformedDate}
	}

	month, ok := months.Lookup(parts[1])
	if !ok {
		return "", DateParseError{
			Raw: raw,
			Err: UnrecognizedMonthError{Token: parts[1]},
		}
	}
	parts[1] = month

	return strings.Join(parts, delimiter), nil
}
