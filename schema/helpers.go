package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Display formats for timestamps.
const (
	SliderTimeFormat = "1/2/2006, 3:04:05 PM"
	FullDateFormat   = "Monday, January 2, 2006"
	ClockFormat      = "3:04 PM"
)

// cleanParts trims non-alphanumeric punctuation from both ends of each name part.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats "Samuel Huang" to "Samuel H". Single-word names and
// bot accounts are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return strings.Join(strings.Fields(trimmed), " ")
	}

	trimmed = strings.Trim(trimmed, "()\"'`")
	cleaned := cleanParts(strings.Fields(trimmed))

	switch len(cleaned) {
	case 0:
		return trimmed
	case 1:
		return cleaned[0]
	}

	last := []rune(cleaned[len(cleaned)-1])
	return cleaned[0] + " " + string(last[0])
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatPercent renders a 0..1 proportion with one decimal place and trailing
// zeros trimmed: 0.5 -> "50%", 1/3 -> "33.3%".
func FormatPercent(proportion float64) string {
	s := strconv.FormatFloat(RoundTo(proportion*100, 1), 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + "%"
}

// Plural picks the word form for a count.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// SelectionCountText is the brush counter label.
func SelectionCountText(n int) string {
	if n == 0 {
		return "No commits selected"
	}
	return strconv.Itoa(n) + " commits selected"
}

// FormatSliderTime renders the slider readout for a threshold time.
func FormatSliderTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(SliderTimeFormat)
}

// HourFraction returns hour + minute/60 for t in its own location.
func HourFraction(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
