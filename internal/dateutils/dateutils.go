// Package dateutils provides the date parsing used by receipt extraction and
// CSV import. Receipts mix western, kanji and imperial-era notations; all of
// them normalize to ISO YYYY-MM-DD strings.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO = "2006-01-02"
)

// CommonFormats is the list of layouts tried when parsing CSV statement dates.
var CommonFormats = []string{
	DateLayoutISO,
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"20060102",
	"2006-1-2",
}

var (
	// Western date with slash, dot or hyphen separators; years 2000-2099.
	slashDateRe = regexp.MustCompile(`(20\d{2})[/.\-](\d{1,2})[/.\-](\d{1,2})`)

	// Full kanji date, e.g. 2024年3月15日.
	kanjiDateRe = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)

	// Reiwa era shorthand, e.g. 令和6.3.20, 令6.3.20 or R5.4.1. 今 is a
	// frequent OCR misread of 令 and is accepted as an alternate.
	eraDateRe = regexp.MustCompile(`(?:[令今]和|[令今R])\s?(\d{1,2})\.(\d{1,2})\.(\d{1,2})`)

	// kanjiEraDateRe matches the long era form 令和6年3月20日.
	kanjiEraDateRe = regexp.MustCompile(`[令今]和(\d{1,2})年(\d{1,2})月(\d{1,2})日`)

	// leadingDateRe flags lines that begin with a date token of any notation.
	leadingDateRe = regexp.MustCompile(`^\s*(20\d{2}[/.\-]\d|\d{4}年|(?:[令今]和|[令今R])\s?\d{1,2}[.年])`)
)

// reiwaEpoch is the Gregorian year of Reiwa 0; Reiwa N = 2018+N. Earlier eras
// are deliberately not handled.
const reiwaEpoch = 2018

// FindDate scans a single line for a date in any supported notation and
// returns it as an ISO string. Notations are tried in fixed priority order:
// western, kanji era long form, kanji calendar date, era shorthand.
func FindDate(line string) (string, bool) {
	if m := slashDateRe.FindStringSubmatch(line); m != nil {
		return buildISO(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := kanjiEraDateRe.FindStringSubmatch(line); m != nil {
		return buildISO(reiwaEpoch+atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := kanjiDateRe.FindStringSubmatch(line); m != nil {
		return buildISO(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := eraDateRe.FindStringSubmatch(line); m != nil {
		return buildISO(reiwaEpoch+atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	return "", false
}

// StartsWithDate reports whether a line begins with a date token. Used by the
// vendor heuristic to skip date headers.
func StartsWithDate(line string) bool {
	return leadingDateRe.MatchString(line)
}

// ParseFlexible parses a CSV statement date trying each of CommonFormats and
// the kanji calendar notation.
func ParseFlexible(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	if m := kanjiDateRe.FindStringSubmatch(dateStr); m != nil {
		if iso, ok := buildISO(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return time.Parse(DateLayoutISO, iso)
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// buildISO validates the calendar components and renders them as YYYY-MM-DD.
func buildISO(year, month, day int) (string, bool) {
	if year < 2000 || year > 2099 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// Reject impossible dates like Feb 30
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
