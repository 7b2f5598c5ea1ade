package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	clockRe     = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.|o'clock)?\b`)
)

// Arrival parses a spoken arrival time like "today at 3 PM" or
// "tomorrow at 10 AM" relative to now. Times are naive UTC, seconds zeroed.
// A parsed instant more than five minutes in the past rolls to the next day,
// matching how callers mean "at 1 AM" late in the evening.
func Arrival(utterance string, now time.Time) (time.Time, error) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return time.Time{}, ErrNoMatch
	}

	day := now
	explicitDate := false
	switch {
	case strings.Contains(text, "tomorrow"):
		day = now.AddDate(0, 0, 1)
		explicitDate = true
	case strings.Contains(text, "today"):
		explicitDate = true
	case isoDateRe.MatchString(text):
		m := isoDateRe.FindStringSubmatch(text)
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		dom, _ := strconv.Atoi(m[3])
		day = time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.UTC)
		text = isoDateRe.ReplaceAllString(text, "")
		explicitDate = true
	case slashDateRe.MatchString(text):
		m := slashDateRe.FindStringSubmatch(text)
		month, _ := strconv.Atoi(m[1])
		dom, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || dom < 1 || dom > 31 {
			return time.Time{}, ErrNoMatch
		}
		day = time.Date(now.Year(), time.Month(month), dom, 0, 0, 0, 0, time.UTC)
		text = slashDateRe.ReplaceAllString(text, "")
		explicitDate = true
	}

	hour, minute, ok := clockTime(text)
	if !ok {
		return time.Time{}, ErrNoMatch
	}

	dt := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)

	// A bare "at 1 AM" said at 3 PM means tomorrow's 1 AM. An explicit day
	// is taken literally even if it has already passed.
	if !explicitDate && dt.Before(now.Add(-5*time.Minute)) {
		dt = dt.AddDate(0, 0, 1)
	}
	return dt, nil
}

// clockTime finds the first time-of-day token in text. "noon" and
// "midnight" are understood; a bare hour needs an am/pm marker to count.
func clockTime(text string) (hour, minute int, ok bool) {
	if strings.Contains(text, "noon") {
		return 12, 0, true
	}
	if strings.Contains(text, "midnight") {
		return 0, 0, true
	}

	for _, m := range clockRe.FindAllStringSubmatch(text, -1) {
		h, err := strconv.Atoi(m[1])
		if err != nil || h > 23 {
			continue
		}
		min := 0
		if m[2] != "" {
			min, err = strconv.Atoi(m[2])
			if err != nil || min > 59 {
				continue
			}
		}
		meridiem := m[3]
		// A bare number with no colon and no am/pm is ambiguous; skip it.
		if m[2] == "" && meridiem == "" {
			continue
		}
		switch {
		case strings.HasPrefix(meridiem, "p") && h < 12:
			h += 12
		case strings.HasPrefix(meridiem, "a") && h == 12:
			h = 0
		}
		if h > 23 {
			continue
		}
		return h, min, true
	}
	return 0, 0, false
}
