package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours|hour|hrs|hr|h)\b`)
	minutesRe = regexp.MustCompile(`\b(\d+)\s*(?:minutes|minute|mins|min|m)\b`)
)

// Duration parses phrases like "2 hours 30 minutes", "2.5h" or "90 min"
// into total minutes.
func Duration(utterance string) (int, error) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return 0, ErrNoMatch
	}
	text = strings.ReplaceAll(text, "hours and", "hours")
	text = strings.ReplaceAll(text, "hour and", "hour")

	var hours float64
	var minutes int

	if m := hoursRe.FindStringSubmatch(text); m != nil {
		hours, _ = strconv.ParseFloat(m[1], 64)
		// Drop the matched span so "2 hours 30 minutes" leaves only the
		// minutes part for the second pass.
		text = hoursRe.ReplaceAllString(text, "")
	}
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}

	total := int(math.Round(hours*60)) + minutes
	if total <= 0 {
		return 0, ErrNoMatch
	}
	return total, nil
}
