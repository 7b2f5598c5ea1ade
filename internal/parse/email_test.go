package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailSpokenForms(t *testing.T) {
	cases := []struct {
		utterance string
		want      string
	}{
		{"john dot doe at gmail dot com", "john.doe@gmail.com"},
		{"my email is john dot doe at gmail dot com", "john.doe@gmail.com"},
		{"jane underscore smith at example dot org", "jane_smith@example.org"},
		{"bob dash jones at mail dot co dot uk", "bob-jones@mail.co.uk"},
		{"john.doe@gmail.com", "john.doe@gmail.com"},
		{"John.Doe@Gmail.Com", "john.doe@gmail.com"},
		{"j o h n at gmail dot com", "john@gmail.com"},
		{"sam plus offers at example dot com", "sam+offers@example.com"},
		{"the address is amy at example dot com.", "amy@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			got, err := Email(tc.utterance)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEmailNoMatch(t *testing.T) {
	cases := []string{
		"",
		"not an email",
		"john at gmail",          // no TLD
		"john gmail dot com",     // no @
		"a at b at c dot com ok", // too much noise around the address
	}
	for _, utterance := range cases {
		_, err := Email(utterance)
		assert.ErrorIs(t, err, ErrNoMatch, "utterance %q", utterance)
	}
}

func TestIsSkip(t *testing.T) {
	assert.True(t, IsSkip("skip"))
	assert.True(t, IsSkip("no email please"))
	assert.True(t, IsSkip("No thanks"))
	assert.True(t, IsSkip("none"))
	assert.False(t, IsSkip("john at gmail dot com"))
}
