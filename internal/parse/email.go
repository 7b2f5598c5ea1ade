package parse

import (
	"regexp"
	"strings"
)

var (
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	emailPrefaceRe = regexp.MustCompile(`\b(my|the|our)?\s*(email|mail|address|id)\s*(is|:)\s*`)
	multiDotRe     = regexp.MustCompile(`\.+`)
	multiAtRe      = regexp.MustCompile(`@+`)
)

// spokenTokens maps words people say aloud to the characters they mean.
var spokenTokens = map[string]string{
	"at":         "@",
	"dot":        ".",
	"period":     ".",
	"underscore": "_",
	"dash":       "-",
	"hyphen":     "-",
	"minus":      "-",
	"plus":       "+",
	"space":      "",
	"spaces":     "",
}

// Email normalizes a spoken email like "john dot doe at gmail dot com"
// into john.doe@gmail.com. A plain typed address passes through unchanged.
func Email(utterance string) (string, error) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return "", ErrNoMatch
	}

	text = emailPrefaceRe.ReplaceAllString(text, "")

	var b strings.Builder
	for _, raw := range strings.Fields(text) {
		tok := strings.Trim(raw, ",;.!?")
		if mapped, ok := spokenTokens[tok]; ok {
			b.WriteString(mapped)
		} else {
			b.WriteString(tok)
		}
	}

	candidate := b.String()
	candidate = multiDotRe.ReplaceAllString(candidate, ".")
	candidate = multiAtRe.ReplaceAllString(candidate, "@")
	candidate = strings.TrimRight(candidate, ".")

	if strings.Count(candidate, "@") != 1 || !emailRe.MatchString(candidate) {
		return "", ErrNoMatch
	}
	return candidate, nil
}

// IsSkip reports whether the caller declined to give an email.
func IsSkip(utterance string) bool {
	text := strings.ToLower(utterance)
	for _, w := range []string{"skip", "no email", "no thanks", "none"} {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
