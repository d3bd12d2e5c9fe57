package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lifesystem/core"
	"lifesystem/internal/ui"
)

func newXPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xp <amount> [source]",
		Short: "Award XP manually",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("amount is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("amount must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, _ := strconv.Atoi(args[0])
			source := "Manual"
			if len(args) == 2 {
				source = args[1]
			}
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return app.Engine.AwardXP(ctx, amount, source)
			})
		},
	}
}

func newUrgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urge",
		Short: "Record a defeated urge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				if err := app.Engine.DefeatUrge(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconShield+" Urge defeated. "+app.Engine.Quote()))
				return nil
			})
		},
	}
}

func newMeditateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meditate",
		Short: "Record a meditation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return app.Engine.Meditate(ctx)
			})
		},
	}
}

func newRelapseCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "relapse",
		Short: "Reset the clean streak (requires --yes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				err := app.Engine.Relapse(ctx, yes)
				if errors.Is(err, core.ErrNotConfirmed) {
					return errors.New("relapse not recorded: re-run with --yes to reset your streak")
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the streak reset")
	return cmd
}

func newEmergencyCmd() *cobra.Command {
	var recovery bool
	cmd := &cobra.Command{
		Use:   "emergency <tool>",
		Short: "Use an emergency tool such as breathing or cold-shower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				if recovery {
					return app.Engine.UseRecoveryTool(ctx, args[0])
				}
				return app.Engine.UseEmergencyTool(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&recovery, "recovery", false, "log as a recovery emergency tool")
	return cmd
}

func newRecoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Manage the porn and alcohol recovery tracks",
	}

	victory := &cobra.Command{
		Use:   "victory <porn|alcohol>",
		Short: "Record a resisted urge or craving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := core.ParseTrack(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return app.Engine.RecordVictory(ctx, track)
			})
		},
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset <porn|alcohol>",
		Short: "Reset a recovery track after a relapse (requires --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := core.ParseTrack(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *App) error {
				err := app.Engine.ResetTrack(ctx, track, yes)
				if errors.Is(err, core.ErrNotConfirmed) {
					return fmt.Errorf("%s track not reset: re-run with --yes", track)
				}
				return err
			})
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")

	cmd.AddCommand(victory, reset)
	return cmd
}
