package grouping

import (
	"regexp"
	"strconv"
)

// Sentinels applied when a statement carries no usable period label.
const (
	UnknownPeriod = "Unknown Period"
	UnknownDate   = "Unknown Date"
)

var reYear = regexp.MustCompile(`20\d{2}`)

// ComparePeriods orders two free-text period labels. When both contain a
// four-digit 20xx year the years are compared numerically; otherwise the
// comparison falls back to plain string order. This is a documented
// heuristic, not a date parser — swap this one function to upgrade it.
func ComparePeriods(a, b string) int {
	ya, aok := extractYear(a)
	yb, bok := extractYear(b)
	if aok && bok && ya != yb {
		if ya < yb {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func extractYear(period string) (int, bool) {
	m := reYear.FindString(period)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
