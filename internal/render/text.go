// Package render formats a StatsResult for humans: a colored terminal summary and an HTML chart page.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/naka-gawa/contribution-stats/internal/domain"
)

type palette struct {
	header *color.Color
	label  *color.Color
	value  *color.Color
	rank   *color.Color
}

func newPalette(w io.Writer) palette {
	p := palette{
		header: color.New(color.Bold, color.FgCyan),
		label:  color.New(color.FgWhite),
		value:  color.New(color.Bold, color.FgGreen),
		rank:   color.New(color.Bold, color.FgYellow),
	}
	if !isTerminal(w) {
		for _, c := range []*color.Color{p.header, p.label, p.value, p.rank} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// WriteText prints a short summary of result for username.
func WriteText(w io.Writer, username string, result *domain.StatsResult) error {
	p := newPalette(w)
	var b strings.Builder

	p.header.Fprintf(&b, "Contribution stats for %s\n", username)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	row := func(label string, value any) {
		p.label.Fprintf(&b, "%-20s", label)
		p.value.Fprintf(&b, "%v\n", value)
	}
	row("Total commits", result.TotalCommits)
	p.label.Fprintf(&b, "%-20s", "Rank")
	p.rank.Fprintf(&b, "%s\n", result.CommitRank)
	row("Longest streak", fmt.Sprintf("%d days", result.LongestStreak))
	if result.MostActiveMonth.Name != "" {
		row("Most active month", fmt.Sprintf("%s (%d commits)", result.MostActiveMonth.Name, result.MostActiveMonth.Commits))
	}
	if result.MostActiveDay.Name != "" {
		row("Most active day", fmt.Sprintf("%s (~%d commits)", result.MostActiveDay.Name, result.MostActiveDay.Commits))
	}
	row("Stars earned", result.StarsEarned)
	if len(result.TopLanguages) > 0 {
		row("Top languages", strings.Join(result.TopLanguages, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
