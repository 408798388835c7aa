package sources

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Ordered alias lists for the WARN CSV's logical fields. Commerce has
// renamed columns more than once; lookup walks each list in priority
// order and takes the first non-empty cell.
var warnFieldAliases = map[string][]string{
	"employer":       {"Company Name", "Company", "Employer", "Employer Name"},
	"city":           {"City"},
	"county":         {"County"},
	"industry":       {"Industry", "NAICS"},
	"impacted":       {"Employees Affected", "Number Affected", "Impacted", "Number of Employees", "# Employees"},
	"notice_date":    {"Notice Date", "Received Date", "Date Received"},
	"effective_date": {"Effective Date", "Layoff Date"},
	"received_date":  {"Received Date", "Date Received"},
	"notes":          {"Notes", "Comments"},
	"address":        {"Address"},
	"zip":            {"Zip", "ZIP"},
}

// getField resolves a logical field against a header-keyed row.
func getField(row map[string]string, field string) string {
	for _, alias := range warnFieldAliases[field] {
		if v := strings.TrimSpace(row[alias]); v != "" {
			return v
		}
	}
	return ""
}

// knownColumns is the set of headers claimed by some alias list; any
// other column is preserved verbatim in the record's Extra bag.
var knownColumns = func() map[string]bool {
	m := map[string]bool{}
	for _, aliases := range warnFieldAliases {
		for _, a := range aliases {
			m[a] = true
		}
	}
	return m
}()

var usDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// parseDate accepts MM/DD/YYYY (two-digit years get 2000 added) and
// anything time.Parse handles as ISO. Unparseable input is nil, not
// an error; required-field checks happen at the row level.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if m := usDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parseNumber strips everything but digits, so "1,200 employees"
// parses as 1200. Empty after stripping is nil.
func parseNumber(s string) *int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}
