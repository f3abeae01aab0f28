package enrich

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetrock/gitscout/pkg/models"
)

func TestParseInsight(t *testing.T) {
	in, err := parseInsight(`{"difficulty":"easy","match_score":92,"skills":["go"]}`)
	require.NoError(t, err)
	assert.Equal(t, "easy", in.Difficulty)
	assert.Equal(t, 92, *in.MatchScore)
	assert.Equal(t, []string{"go"}, in.Skills)
}

func TestParseInsightStripsFences(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"summary\":\"a cache bug\"}\n```\nHope that helps."
	in, err := parseInsight(text)
	require.NoError(t, err)
	assert.Equal(t, "a cache bug", in.Summary)
}

func TestParseInsightOmittedKeysStayAbsent(t *testing.T) {
	in, err := parseInsight(`{"difficulty":"hard"}`)
	require.NoError(t, err)
	assert.Nil(t, in.MatchScore)
	assert.Empty(t, in.Summary)
}

func TestParseInsightNoJSON(t *testing.T) {
	_, err := parseInsight("I cannot analyse this issue.")
	require.Error(t, err)
}

func TestParseInsightMalformedJSON(t *testing.T) {
	_, err := parseInsight(`{"difficulty": easy}`)
	require.Error(t, err)
}

func TestDescribeIssue(t *testing.T) {
	e := models.Entity{
		Ref:         models.EntityRef{Repository: "owner/repo", Number: 3, Kind: models.KindIssue},
		Title:       "crash on start",
		Labels:      []string{"bug", "good first issue"},
		Description: "stack trace attached",
	}

	got := describe(e)
	assert.Contains(t, got, "owner/repo#3")
	assert.Contains(t, got, "bug, good first issue")
	assert.Contains(t, got, "stack trace attached")
}

func TestDescribeTruncatesLongBodies(t *testing.T) {
	e := models.Entity{
		Ref:         models.EntityRef{Repository: "owner/repo", Number: 3, Kind: models.KindIssue},
		Title:       "wall of text",
		Description: strings.Repeat("x", 10000),
	}

	got := describe(e)
	assert.Less(t, len(got), 5000)
}

func TestDescribeTruncatesOnRuneBoundary(t *testing.T) {
	e := models.Entity{
		Ref:         models.EntityRef{Repository: "owner/repo", Number: 3, Kind: models.KindIssue},
		Title:       "unicode wall of text",
		Description: strings.Repeat("é", 5000),
	}

	got := describe(e)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, 4000, strings.Count(got, "é"))
}
