package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/contribution-stats/internal/domain"
)

// maxTopLanguages caps the length of StatsResult.TopLanguages.
const maxTopLanguages = 3

// commitRanks is evaluated top-down; the first threshold reached wins.
var commitRanks = []struct {
	min   int
	label string
}{
	{5000, "Top 0.5%-1%"},
	{2000, "Top 1%-3%"},
	{1000, "Top 5%-10%"},
	{500, "Top 10%-15%"},
	{200, "Top 25%-30%"},
	{50, "Median 50%"},
}

const bottomRank = "Bottom 30%"

// CommitRank maps a yearly commit total to its rank label.
func CommitRank(total int) string {
	for _, r := range commitRanks {
		if total >= r.min {
			return r.label
		}
	}
	return bottomRank
}

// ComputeStats derives the statistics summary from the raw per-day counts and
// the user's projects. Only days falling in now's calendar year are kept.
//
// Days are walked in chronological order. Ties for the most active month go to
// the earliest month, ties for the most active weekday go to the lowest weekday
// index (Sunday first) and ties between languages go to the lexicographically
// smaller name.
func ComputeStats(contributions map[string]int, projects []domain.Project, now time.Time) *domain.StatsResult {
	days := currentYearDays(contributions, now.Year())

	var (
		monthly      [12]int
		monthPresent [12]bool
		weekly       [7]int
		dayPresent   [7]bool
		total        int
		streak       int
		longest      int
	)
	for _, d := range days {
		m := int(d.Date.Month()) - 1
		monthly[m] += d.Count
		monthPresent[m] = true

		wd := int(d.Date.Weekday())
		weekly[wd] += d.Count
		dayPresent[wd] = true

		total += d.Count

		if d.Count > 0 {
			streak++
			if streak > longest {
				longest = streak
			}
		} else {
			streak = 0
		}
	}

	result := &domain.StatsResult{
		LongestStreak: longest,
		TotalCommits:  total,
		CommitRank:    CommitRank(total),
		CalendarData:  days,
		TopLanguages:  []string{},
	}

	if m, ok := maxBucket(monthly[:], monthPresent[:]); ok {
		result.MostActiveMonth = domain.ActiveDay{
			Name:    time.Month(m + 1).String(),
			Commits: monthly[m],
		}
	}

	if wd, ok := maxBucket(weekly[:], dayPresent[:]); ok {
		result.MostActiveDay = domain.ActiveDay{
			Name:    time.Weekday(wd).String(),
			Commits: weekdayAverage(weekly[wd], len(days)),
		}
	}

	stars, langs := summarizeProjects(projects)
	result.StarsEarned = stars
	result.TopLanguages = langs

	return result
}

// currentYearDays flattens the mapping into date order and drops keys that do not
// parse or that fall outside year.
func currentYearDays(contributions map[string]int, year int) []domain.ContributionDay {
	days := make([]domain.ContributionDay, 0, len(contributions))
	for key, count := range contributions {
		date, err := domain.ParseDate(key)
		if err != nil || date.Year() != year {
			continue
		}
		days = append(days, domain.ContributionDay{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date.Time)
	})
	return days
}

// maxBucket returns the index of the largest present bucket, preferring the lowest index on ties.
func maxBucket(buckets []int, present []bool) (int, bool) {
	best, found := 0, false
	for i, v := range buckets {
		if !present[i] {
			continue
		}
		if !found || v > buckets[best] {
			best, found = i, true
		}
	}
	return best, found
}

// weekdayAverage divides a weekday total by the expected number of occurrences
// of that weekday among dayCount days.
func weekdayAverage(weekdayTotal, dayCount int) int {
	if dayCount == 0 {
		return 0
	}
	avg := float64(weekdayTotal) / (float64(dayCount) / 7)
	rounded, err := stats.Round(avg, 0)
	if err != nil {
		return 0
	}
	return int(rounded)
}

func summarizeProjects(projects []domain.Project) (int, []string) {
	stars := 0
	freq := make(map[string]int)
	for _, p := range projects {
		if p.StarCount != nil {
			stars += *p.StarCount
		}
		if p.Language != nil && *p.Language != "" {
			freq[*p.Language]++
		}
	}

	langs := make([]string, 0, len(freq))
	for name := range freq {
		langs = append(langs, name)
	}
	sort.Slice(langs, func(i, j int) bool {
		if freq[langs[i]] != freq[langs[j]] {
			return freq[langs[i]] > freq[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > maxTopLanguages {
		langs = langs[:maxTopLanguages]
	}
	return stars, langs
}
