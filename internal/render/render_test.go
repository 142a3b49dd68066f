package render

import (
	"bytes"
	"testing"

	"github.com/naka-gawa/contribution-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *domain.StatsResult {
	t.Helper()
	jan, err := domain.ParseDate("2024-01-02")
	require.NoError(t, err)
	mar, err := domain.ParseDate("2024-03-05")
	require.NoError(t, err)
	return &domain.StatsResult{
		LongestStreak:   1,
		TotalCommits:    9,
		CommitRank:      "Bottom 30%",
		CalendarData:    []domain.ContributionDay{{Date: jan, Count: 4}, {Date: mar, Count: 5}},
		MostActiveDay:   domain.ActiveDay{Name: "Tuesday", Commits: 32},
		MostActiveMonth: domain.ActiveDay{Name: "March", Commits: 5},
		StarsEarned:     12,
		TopLanguages:    []string{"Go", "Rust"},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "jdoe", sampleResult(t)))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no escape codes for a non-terminal writer")
	assert.Contains(t, out, "Contribution stats for jdoe")
	assert.Contains(t, out, "Total commits       9")
	assert.Contains(t, out, "Rank                Bottom 30%")
	assert.Contains(t, out, "Most active month   March (5 commits)")
	assert.Contains(t, out, "Most active day     Tuesday (~32 commits)")
	assert.Contains(t, out, "Top languages       Go, Rust")
}

func TestWriteText_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "nobody", &domain.StatsResult{CommitRank: "Bottom 30%"}))

	out := buf.String()
	assert.NotContains(t, out, "Most active")
	assert.NotContains(t, out, "Top languages")
	assert.Contains(t, out, "Longest streak      0 days")
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, "jdoe", sampleResult(t)))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Contributions of jdoe")
	assert.Contains(t, out, "jdoe: 9 commits")
	assert.Contains(t, out, "2024-03-05")
}
