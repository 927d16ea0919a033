package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Training dates are free text, often human date ranges like
// "January 21-23, 2026". Everything here is a documented heuristic with
// explicit fallbacks, not a calendar parser: malformed strings are never
// rejected, they just fall back (year "2026", sort key epoch zero,
// renewal "N/A").

const fallbackYear = "2026"

var (
	yearPattern  = regexp.MustCompile(`(19|20)\d{2}`)
	wordPattern  = regexp.MustCompile(`[A-Za-z]+`)
	digitPattern = regexp.MustCompile(`\d+`)
	monthDayPat  = regexp.MustCompile(`([A-Za-z]+)\.?\s+(\d{1,2})`)
)

var monthIndex = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// extractYear returns the first 4-digit year found in the string, or the
// fallback year when none is present.
func extractYear(raw string) string {
	if match := yearPattern.FindString(raw); match != "" {
		return match
	}
	return fallbackYear
}

// lastMonthName returns the last recognized month name token, or "".
func lastMonthName(raw string) string {
	result := ""
	for _, word := range wordPattern.FindAllString(raw, -1) {
		if month, ok := monthIndex[strings.ToLower(word)]; ok {
			result = month.String()
		}
	}
	return result
}

// lastDayNumber returns the last number token in [1,31], skipping tokens
// equal to the year digits, or 0 when none qualifies.
func lastDayNumber(raw, year string) int {
	day := 0
	for _, token := range digitPattern.FindAllString(raw, -1) {
		if token == year {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n >= 1 && n <= 31 {
			day = n
		}
	}
	return day
}

// issuedParts extracts the pieces of the "Issued this Nth day of Month
// Year" line from a raw training date.
func issuedParts(raw string) (day int, month, year string) {
	year = extractYear(raw)
	month = lastMonthName(raw)
	day = lastDayNumber(raw, year)
	return day, month, year
}

// ordinal renders an English ordinal suffix (1st, 2nd, 3rd, 4th, 11th).
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// parseLongDate parses a "January 2, 2006" style date.
func parseLongDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// rangeEndDate reconstructs the end-of-range date from a raw training
// date: the part after "-" when present, inheriting the month from the
// range start and the year from the whole string when the end omits them.
func rangeEndDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	end := raw
	if idx := strings.Index(raw, "-"); idx >= 0 {
		start := strings.TrimSpace(raw[:idx])
		end = strings.TrimSpace(raw[idx+1:])
		if lastMonthName(end) == "" {
			if month := lastMonthName(start); month != "" {
				end = month + " " + end
			}
		}
	}
	if !yearPattern.MatchString(end) {
		if year := yearPattern.FindString(raw); year != "" {
			end = strings.TrimRight(end, ", ") + ", " + year
		}
	}

	return parseLongDate(end)
}

// renewalDate computes the ID card renewal date: end-of-range date plus
// exactly 2 years and 2 days. Unparsable dates resolve to "N/A".
func renewalDate(raw string) string {
	end, ok := rangeEndDate(raw)
	if !ok {
		return "N/A"
	}
	return end.AddDate(2, 0, 2).Format("January 2, 2006")
}

// batchSortTime extracts a best-effort sort key from a batch display
// date: the first month-day fragment plus the year parsed from the part
// after the comma. Unparsable strings sort as epoch zero (oldest). This
// may silently mis-sort non-standard range strings; batches remain
// groupable and downloadable regardless.
func batchSortTime(display string) time.Time {
	epoch := time.Unix(0, 0).UTC()

	var month time.Month
	day := 0
	for _, match := range monthDayPat.FindAllStringSubmatch(display, -1) {
		m, ok := monthIndex[strings.ToLower(match[1])]
		if !ok {
			continue
		}
		d, err := strconv.Atoi(match[2])
		if err != nil || d < 1 || d > 31 {
			continue
		}
		month, day = m, d
		break
	}
	if day == 0 {
		return epoch
	}

	parts := strings.SplitN(display, ",", 2)
	if len(parts) != 2 {
		return epoch
	}
	yearToken := yearPattern.FindString(parts[1])
	if yearToken == "" {
		return epoch
	}
	year, err := strconv.Atoi(yearToken)
	if err != nil {
		return epoch
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
