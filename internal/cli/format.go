package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/streak"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Unit is the display unit for an intake tracker.
func Unit(kind constants.TrackerKind) string {
	if kind == constants.TrackerProtein {
		return "g"
	}
	return "ml"
}

// Bar renders a fixed-width text progress bar.
func Bar(current, goal, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if goal > 0 {
		filled = current * width / goal
	}
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// Percent is current/goal as a whole percentage, 0 without a goal.
func Percent(current, goal int) int {
	if goal <= 0 {
		return 0
	}
	return current * 100 / goal
}

// StreakTable renders streaks longest first.
func StreakTable(streaks []streak.Streak) string {
	rows := make([][]string, 0, len(streaks))
	for i, s := range streaks {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Start, s.End, strconv.Itoa(s.Length)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers("#", "START", "END", "DAYS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

// PrintStreaks writes a streak summary for label.
func PrintStreaks(ctx *Context, label string, streaks []streak.Streak) {
	if len(streaks) == 0 {
		ctx.Printf("No %s streaks yet.\n", label)
		return
	}
	best, _ := streak.Longest(streaks)
	ctx.Printf("%s streaks (%d total)\n", label, len(streaks))
	ctx.Println(StreakTable(streaks))
	ctx.Printf("Longest: %s\n", Days(best.Length))
	ctx.Printf("Current: %s\n", Days(streak.Current(streaks, ctx.Today())))
}

// Days formats a day count.
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
