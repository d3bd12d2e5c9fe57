package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifesystem/core"
	"lifesystem/internal/ui"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log workouts, meals, sleep and journal entries",
	}
	cmd.AddCommand(
		newLogWorkoutCmd(),
		newLogSessionCmd(),
		newLogExerciseCmd(),
		newLogMealCmd(),
		newLogSleepCmd(),
		newLogJournalCmd(),
	)
	return cmd
}

func logged(cmd *cobra.Command, icon, what, id string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s logged %s\n", icon, what, ui.Muted.Render("("+id+")"))
}

func newLogWorkoutCmd() *cobra.Command {
	var in core.DetailedWorkoutInput
	cmd := &cobra.Command{
		Use:   "workout <type>",
		Short: "Log a detailed workout with sets, reps and weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = args[0]
			return withApp(cmd, func(ctx context.Context, app *App) error {
				w, err := app.Engine.LogDetailedWorkout(ctx, in)
				if err != nil {
					return err
				}
				logged(cmd, ui.IconWorkout, w.Type, w.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&in.Sets, "sets", 0, "number of sets")
	cmd.Flags().IntVar(&in.Reps, "reps", 0, "reps per set")
	cmd.Flags().IntVar(&in.Weight, "weight", 0, "weight used")
	cmd.Flags().IntVar(&in.Duration, "duration", 0, "duration in minutes")
	return cmd
}

func newLogSessionCmd() *cobra.Command {
	var in core.WorkoutSessionInput
	cmd := &cobra.Command{
		Use:   "session <type>",
		Short: "Log a timed workout session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = args[0]
			return withApp(cmd, func(ctx context.Context, app *App) error {
				w, err := app.Engine.LogWorkoutSession(ctx, in)
				if err != nil {
					return err
				}
				logged(cmd, ui.IconWorkout, fmt.Sprintf("%s (%d min)", w.Type, w.Duration), w.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&in.Duration, "duration", "d", 0, "duration in minutes")
	cmd.Flags().IntVarP(&in.Intensity, "intensity", "i", 5, "intensity from 1 to 10")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "optional notes")
	return cmd
}

func newLogExerciseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercise <type>",
		Short: "Log a quick exercise such as pushups or cardio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				q, err := app.Engine.LogQuickExercise(ctx, args[0])
				if err != nil {
					return err
				}
				logged(cmd, ui.IconWorkout, q.Type, q.ID)
				return nil
			})
		},
	}
}

func newLogMealCmd() *cobra.Command {
	var in core.MealInput
	cmd := &cobra.Command{
		Use:   "meal <type> <items...>",
		Short: "Log a meal with a 1-10 health rating",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = args[0]
			in.Items = strings.Join(args[1:], " ")
			return withApp(cmd, func(ctx context.Context, app *App) error {
				m, err := app.Engine.LogMeal(ctx, in)
				if err != nil {
					return err
				}
				logged(cmd, ui.IconMeal, m.Type, m.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&in.Health, "health", 5, "health rating from 1 to 10")
	cmd.Flags().StringVar(&in.Portion, "portion", "", "portion size")
	return cmd
}

func newLogSleepCmd() *cobra.Command {
	var in core.SleepInput
	cmd := &cobra.Command{
		Use:   "sleep <bedtime> <waketime>",
		Short: "Log last night's sleep, times as HH:MM",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Bedtime, in.Waketime = args[0], args[1]
			return withApp(cmd, func(ctx context.Context, app *App) error {
				s, err := app.Engine.LogSleep(ctx, in)
				if err != nil {
					return err
				}
				logged(cmd, ui.IconSleep, fmt.Sprintf("%.1fh sleep", s.Duration), s.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&in.Quality, "quality", "q", 7, "sleep quality from 1 to 10")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "optional notes")
	return cmd
}

func newLogJournalCmd() *cobra.Command {
	var in core.JournalInput
	cmd := &cobra.Command{
		Use:   "journal <text...>",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Text = strings.Join(args, " ")
			return withApp(cmd, func(ctx context.Context, app *App) error {
				j, err := app.Engine.LogJournal(ctx, in)
				if err != nil {
					return err
				}
				logged(cmd, ui.IconJournal, "journal entry", j.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&in.Mood, "mood", "m", 3, "mood from 1 to 5")
	return cmd
}
