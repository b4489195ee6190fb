// Package rfcdate parses the RFC 2822 style dates carried by the
// creation-date, modification-date and read-date disposition parameters
// (RFC 2183 §2.4):
//
//	[weekday ","] DD Mon YYYY [hh:mm[:ss]] [(+|-)hhmm]
package rfcdate

import (
	"regexp"
	"strconv"
	"time"

	"github.com/shapestone/shape-formdata/internal/errs"
)

// MinYear is the earliest year accepted.
const MinYear = 1900

// pattern is anchored at both ends; only a trailing comment such as "(UTC)"
// may follow the zone.
var pattern = regexp.MustCompile(`^\s*(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s*,)?\s*(\d{2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})(?:\s+(\d{2}):(\d{2})(?::(\d{2}))?)?(?:\s+([+-])(\d{2})(\d{2}))?(?:\s*\([^()]*\))?\s*$`)

var weekdays = map[string]time.Weekday{
	"Sun": time.Sunday,
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
}

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Timestamp is a parsed date. Without a zone in the input, Time is
// expressed in UTC and HasZone is false: the value is offset-naive.
type Timestamp struct {
	Time    time.Time
	HasZone bool
}

// String formats the timestamp as RFC 3339, omitting the offset when the
// input carried none.
func (ts Timestamp) String() string {
	if ts.HasZone {
		return ts.Time.Format(time.RFC3339)
	}
	return ts.Time.Format("2006-01-02T15:04:05")
}

// Parse parses s. A string that does not match the pattern is an illegal
// token; a matching string that names an impossible date, a year before
// MinYear, or the wrong weekday is a protocol violation.
func Parse(s string) (Timestamp, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, errs.IllegalText(s)
	}

	day := atoi(m[2])
	month := months[m[3]]
	year := atoi(m[4])
	hour, min, sec := atoi(m[5]), atoi(m[6]), atoi(m[7])

	if year < MinYear {
		return Timestamp{}, errs.Violation("year %d before %d", year, MinYear)
	}
	if hour > 23 || min > 59 || sec > 59 {
		return Timestamp{}, errs.Violation("invalid time of day in %q", s)
	}

	loc := time.UTC
	hasZone := m[8] != ""
	if hasZone {
		zh, zm := atoi(m[9]), atoi(m[10])
		if zh > 23 || zm > 59 {
			return Timestamp{}, errs.Violation("invalid zone offset in %q", s)
		}
		offset := zh*3600 + zm*60
		if m[8] == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}

	t := time.Date(year, month, day, hour, min, sec, 0, loc)
	if t.Day() != day || t.Month() != month {
		// time.Date normalized an out-of-range day into the next month.
		return Timestamp{}, errs.Violation("invalid calendar date in %q", s)
	}

	if m[1] != "" && weekdays[m[1]] != t.Weekday() {
		return Timestamp{}, errs.Violation("weekday %s does not match %s", m[1], t.Format("2006-01-02"))
	}

	return Timestamp{Time: t, HasZone: hasZone}, nil
}

// atoi converts a matched digit group; empty groups are zero.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
