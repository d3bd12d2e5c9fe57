package root

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lifesystem/core"
	"lifesystem/internal/ui"
)

const Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "lifesystem",
	Short:         "Life System: a personal progression and streak tracker",
	Long:          "Life System turns workouts, meals, sleep, journaling and recovery streaks into XP, levels, ranks and daily quests.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "serve" {
			quietLogs()
		}
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.json, .yaml or .yml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newQuestsCmd(),
		newLogCmd(),
		newXPCmd(),
		newUrgeCmd(),
		newRelapseCmd(),
		newMeditateCmd(),
		newEmergencyCmd(),
		newRecoveryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

// quietLogs keeps one-shot commands' terminal output readable unless the
// user configured logging explicitly.
func quietLogs() {
	if _, ok := os.LookupEnv("LIFESYSTEM_LOG_OUTPUT"); !ok {
		_ = os.Setenv("LIFESYSTEM_LOG_OUTPUT", "stderr")
	}
	if _, ok := os.LookupEnv("LIFESYSTEM_LOG_LEVEL"); !ok {
		_ = os.Setenv("LIFESYSTEM_LOG_LEVEL", "warn")
	}
}

// withApp builds the app, echoes engine notifications to out while fn runs
// and tears everything down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, cleanup, err := BuildApp(ctx, ConfigPath(configPath))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if app.Engine.MemoryOnly() {
		fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" storage unavailable, progress is kept in memory only"))
	}
	unsubscribe := app.Engine.Bus().SubscribeAll(func(_ context.Context, e core.Event) {
		printEvent(out, e)
	})

	err = fn(ctx, app)
	cleanup()
	unsubscribe()
	return err
}

func printEvent(out io.Writer, e core.Event) {
	switch e.Type {
	case core.EventStateChanged, core.EventReconnected, core.EventQuestsGenerated, core.EventActivityLogged:
		return
	}
	if e.Message != "" {
		fmt.Fprintln(out, ui.EventLine(e))
	}
}
