package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchBucket(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  string
	}{
		{name: "top of range", score: 100, want: "high"},
		{name: "first high value", score: 80, want: "high"},
		{name: "just below high", score: 79, want: "medium"},
		{name: "first medium value", score: 40, want: "medium"},
		{name: "just below medium", score: 39, want: "low"},
		{name: "zero", score: 0, want: "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchBucket(tt.score))
		})
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "easy", want: "easy"},
		{raw: "medium", want: "medium"},
		{raw: "hard", want: "hard"},
		{raw: "EASY", want: "unknown"},
		{raw: "trivial", want: "unknown"},
		{raw: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Difficulty(tt.raw))
		})
	}
}
