package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Duration and price fields are human-authored text ("6 semanas",
// "$45 USD", "Gratis"). These parsers degrade to zero instead of failing
// the whole record.

const (
	hoursPerWeek  = 40
	hoursPerMonth = 160
)

var (
	hoursPattern  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*h(?:(?:ou)?rs?|oras?)?\b`)
	weeksPattern  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:weeks?|semanas?)\b`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:months?|mes(?:es)?)\b`)
	integerRun    = regexp.MustCompile(`\d+`)
)

// ExtractDurationHours converts a free-text duration description into
// hours. Weeks count as 40 hours, months as 160. Unparseable input
// yields 0.
func ExtractDurationHours(text string) float64 {
	if IsBlank(text) {
		return 0
	}
	if n, ok := firstNumber(hoursPattern, text); ok {
		return n
	}
	if n, ok := firstNumber(weeksPattern, text); ok {
		return n * hoursPerWeek
	}
	if n, ok := firstNumber(monthsPattern, text); ok {
		return n * hoursPerMonth
	}
	return 0
}

// ExtractPrice converts a free-text price description into an amount.
// A "free"/"gratis" token means 0; otherwise the first contiguous integer
// run wins; otherwise 0.
func ExtractPrice(text string) float64 {
	if IsBlank(text) {
		return 0
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "free") || strings.Contains(lower, "gratis") {
		return 0
	}
	if m := integerRun.FindString(text); m != "" {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			return n
		}
	}
	return 0
}

func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
