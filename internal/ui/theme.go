package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lifesystem/core"
)

// Life System theme for CLI output.

const (
	IconLevel    = "⚔️"
	IconXP       = "✨"
	IconStreak   = "🔥"
	IconShield   = "🛡️"
	IconQuest    = "🗺️"
	IconDone     = "✅"
	IconOpen     = "▫️"
	IconTrophy   = "🏆"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconSleep    = "🌙"
	IconMeal     = "🥗"
	IconJournal  = "📓"
	IconWorkout  = "💪"
	IconRecovery = "🌱"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Bar renders a width-wide progress bar for cur out of total.
func Bar(cur, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = cur * width / total
	}
	filled = min(max0(filled), width)
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// RankText colours a rank by tier.
func RankText(r core.Rank) string {
	switch r {
	case core.RankBronze:
		return Warn.Render(string(r))
	case core.RankSilver:
		return Muted.Render(string(r))
	case core.RankGold, core.RankLegend:
		return Gold.Render(string(r))
	default:
		return H2.Render(string(r))
	}
}

// QuestLine renders one quest with its completion mark and reward.
func QuestLine(q core.Quest) string {
	mark, title := IconOpen, q.Title
	if q.Completed {
		mark, title = IconDone, Muted.Render(q.Title)
	}
	return fmt.Sprintf("%s %s %s", mark, title, Gold.Render(fmt.Sprintf("+%d XP", q.XPReward)))
}

// EventLine renders an engine notification for the terminal.
func EventLine(e core.Event) string {
	switch e.Type {
	case core.EventLevelUp:
		return BadgeLevelUp + " " + e.Message
	case core.EventMilestoneReached, core.EventSkillUnlocked, core.EventDisciplineLevelUp:
		return Gold.Render(IconTrophy + " " + e.Message)
	case core.EventQuestCompleted:
		return Good.Render(IconDone + " " + e.Message)
	case core.EventPersistenceWarning:
		return Warn.Render(IconWarn + " " + e.Message)
	case core.EventRelapse:
		return Muted.Render(e.Message)
	default:
		return e.Message
	}
}
