package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		utterance string
		want      int
	}{
		{"2 hours", 120},
		{"2 hours 30 minutes", 150},
		{"2 hours and 30 minutes", 150},
		{"2.5 hours", 150},
		{"2.5h", 150},
		{"90 min", 90},
		{"90 minutes", 90},
		{"1 hour", 60},
		{"just half an hour, say 30 mins", 30},
		{"I'll stay for 3 hrs", 180},
	}
	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			got, err := Duration(tc.utterance)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDurationNoMatch(t *testing.T) {
	for _, utterance := range []string{"", "a while", "until I feel like leaving", "0 minutes"} {
		_, err := Duration(utterance)
		assert.ErrorIs(t, err, ErrNoMatch, "utterance %q", utterance)
	}
}
