package root

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"lifesystem/core"
	"lifesystem/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, streaks, recovery tracks and today's quests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				st := app.Engine.State()
				stats := app.Engine.Stats()
				now := app.Engine.Now()
				renderStatus(cmd.OutOrStdout(), st, stats, now)
				renderQuests(cmd.OutOrStdout(), app.Engine.Quests())
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("“"+app.Engine.Quote()+"”"))
				return nil
			})
		},
	}
}

func newQuestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quests",
		Short: "List today's daily quests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				renderQuests(cmd.OutOrStdout(), app.Engine.Quests())
				return nil
			})
		},
	}
}

func renderStatus(out io.Writer, st core.PlayerState, stats core.Stats, now time.Time) {
	fmt.Fprintln(out, ui.Heading(ui.IconLevel, st.Name))
	fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d %s", stats.Level, ui.RankText(stats.Rank))))
	fmt.Fprintf(out, "%s %s %d/%d\n", ui.Key.Render("XP:"), ui.Bar(stats.XP, stats.XPRequired, 20), stats.XP, stats.XPRequired)
	fmt.Fprintln(out, ui.LabelValue("Total XP", stats.TotalXP))
	fmt.Fprintln(out, ui.LabelValue("Days active", stats.DaysActive))
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconStreak+" Streaks"))
	fmt.Fprintf(out, "- Clean: %d days %s\n", stats.CleanStreak, ui.Muted.Render(fmt.Sprintf("(best %d)", stats.LongestCleanStreak)))
	fmt.Fprintf(out, "- Discipline: level %d, %d%% success\n", stats.DisciplineLevel, stats.DisciplineRate)
	fmt.Fprintf(out, "- Workouts: %d day streak, %d logged\n", stats.WorkoutStreak, stats.TotalWorkouts)
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconRecovery+" Recovery"))
	renderTrack(out, "Porn", stats.Porn)
	renderTrack(out, "Alcohol", stats.Alcohol)
	fmt.Fprintln(out, "")

	if len(st.Workouts) > 0 {
		w := st.Workouts[0]
		fmt.Fprintln(out, ui.LabelValue("Last workout", fmt.Sprintf("%s %s", w.Type, ui.Muted.Render(core.TimeAgo(w.Date, now)))))
	}
	if len(st.UnlockedSkills) > 0 {
		fmt.Fprintln(out, ui.LabelValue("Skills", len(st.UnlockedSkills)))
	}
}

func renderTrack(out io.Writer, name string, t core.TrackStats) {
	badges := ""
	for _, b := range t.Badges {
		if b.Achieved {
			badges += " " + ui.Gold.Render(fmt.Sprintf("%dd", b.Days))
		}
	}
	fmt.Fprintf(out, "- %s: %d days %s%s\n", name, t.Days,
		ui.Muted.Render(fmt.Sprintf("(best %d, %d victories, %d%% success)", t.LongestStreak, t.Victories, t.SuccessRate)),
		badges)
}

func renderQuests(out io.Writer, quests []core.Quest) {
	fmt.Fprintln(out, ui.H2.Render(ui.IconQuest+" Daily quests"))
	if len(quests) == 0 {
		fmt.Fprintln(out, ui.Muted.Render("(none)"))
		return
	}
	for _, q := range quests {
		fmt.Fprintln(out, "- "+ui.QuestLine(q))
	}
	fmt.Fprintln(out, "")
}
