package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/naka-gawa/contribution-stats/internal/domain"
)

// WriteChart renders an HTML page with the monthly commit totals and the daily calendar of result.
func WriteChart(w io.Writer, username string, result *domain.StatsResult) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Contributions of %s", username)
	page.AddCharts(monthlyBar(username, result), calendarLine(result))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func monthlyBar(username string, result *domain.StatsResult) *charts.Bar {
	var totals [12]int
	for _, d := range result.CalendarData {
		totals[d.Date.Month()-1] += d.Count
	}

	months := make([]string, 0, len(totals))
	data := make([]opts.BarData, 0, len(totals))
	for i, v := range totals {
		months = append(months, time.Month(i + 1).String()[:3])
		data = append(data, opts.BarData{Value: v})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{BackgroundColor: "transparent"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %d commits", username, result.TotalCommits),
			Subtitle: result.CommitRank,
		}),
	)
	bar.SetXAxis(months).AddSeries("Commits", data)
	return bar
}

func calendarLine(result *domain.StatsResult) *charts.Line {
	days := make([]string, 0, len(result.CalendarData))
	data := make([]opts.LineData, 0, len(result.CalendarData))
	for _, d := range result.CalendarData {
		days = append(days, d.Date.String())
		data = append(data, opts.LineData{Value: d.Count, Symbol: "none"})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{BackgroundColor: "transparent"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Daily contributions",
			Subtitle: fmt.Sprintf("Longest streak: %d days", result.LongestStreak),
		}),
	)
	line.SetXAxis(days).
		AddSeries("Commits", data).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.4}),
		)
	return line
}
