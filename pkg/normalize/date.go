package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/agentstation/roster/pkg/records"
)

// Date is a calendar date without a time component. It is comparable and
// can be used as part of a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns d at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AgeOn returns the age in whole years of someone born on d, as of today.
func (d Date) AgeOn(today Date) int {
	age := today.Year - d.Year
	if today.Month < d.Month || (today.Month == d.Month && today.Day < d.Day) {
		age--
	}
	return age
}

// Excel serial day 1 is 1900-01-01; the epoch accounts for the 1900 leap bug.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465 // 9999-12-31

var (
	isoLayouts = []string{
		"2006-01-02",
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2/1/06",
		"2-1-06",
		"2.1.06",
	}
	monthFirstLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"1/2/06",
	}
	namedLayouts = []string{
		"2 January 2006",
		"2 Jan 2006",
		"2-Jan-2006",
		"2-Jan-06",
		"January 2 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"Jan 2 2006",
	}

	timeSuffix = regexp.MustCompile(`[ T]\d{1,2}:\d{2}(:\d{2}(\.\d+)?)?\s*(Z|[+-]\d{2}:?\d{2}|[AaPp][Mm])?$`)

	spanishMonths = strings.NewReplacer(
		"enero", "January", "febrero", "February", "marzo", "March",
		"abril", "April", "mayo", "May", "junio", "June", "julio", "July",
		"agosto", "August", "septiembre", "September", "setiembre", "September",
		"octubre", "October", "noviembre", "November", "diciembre", "December",
		" de ", " ",
	)
)

// DOB parses a date of birth with day-before-month preference.
//
// Date values keep their calendar date, numbers are read as Excel serial
// days, and strings are tried as ISO (year first), then day-first, then
// month-first when day-first cannot form a valid date, then with month names.
// Any time component is dropped.
func DOB(v records.Value) (Date, bool) {
	if t, ok := v.Time(); ok {
		return DateOf(t), true
	}
	if n, ok := v.Num(); ok {
		return fromExcelSerial(n)
	}
	s, ok := text(v)
	if !ok {
		return Date{}, false
	}
	return ParseDate(s)
}

// ParseDate parses s using the DOB layouts.
func ParseDate(s string) (Date, bool) {
	s = CollapseSpace(s)
	if loc := timeSuffix.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = strings.TrimSpace(s[:loc[0]])
	}
	if s == "" {
		return Date{}, false
	}

	for _, group := range [][]string{isoLayouts, dayFirstLayouts, monthFirstLayouts} {
		if d, ok := tryLayouts(s, group); ok {
			return d, true
		}
	}
	named := spanishMonths.Replace(strings.ToLower(s))
	return tryLayouts(named, namedLayouts)
}

func tryLayouts(s string, layouts []string) (Date, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

func fromExcelSerial(n float64) (Date, bool) {
	if n < 1 || n > maxExcelSerial || math.IsInf(n, 0) {
		return Date{}, false
	}
	days := int(math.Floor(n))
	return DateOf(excelEpoch.AddDate(0, 0, days)), true
}
