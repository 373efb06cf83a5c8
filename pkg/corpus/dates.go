package corpus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	isoYMD   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoYM    = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	yearOnly = regexp.MustCompile(`^(\d{4})$`)
	dmySlash = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeDate coerces a date-like value to YYYY-MM-DD. Best effort,
// non-failing: partial dates are padded with -01, DD/MM/YYYY is reordered,
// anything else passes through unchanged.
func NormalizeDate(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if isoYMD.MatchString(s) {
		return s
	}
	if m := isoYM.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-01", m[1], m[2])
	}
	if m := yearOnly.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-01-01", m[1])
	}
	if m := dmySlash.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return s
}

// YearOf extracts the publication year from a normalized date string.
// Accepts "YYYY-MM-DD" and bare "YYYY"; reports false for anything else.
func YearOf(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	if i := strings.IndexByte(date, '-'); i >= 0 {
		date = date[:i]
	}
	year, err := strconv.Atoi(date)
	if err != nil {
		return 0, false
	}
	return year, true
}
