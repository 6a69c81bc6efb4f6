package cmd

import (
	"fmt"
	"log/slog"
	"time"
	"webweg/cmd/webreg-cli/globals"
	"webweg/internal/watch"
	"webweg/lib/telemetry"
	"webweg/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var watchNotify bool

func init() {
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "email openings using the smtp section of the config")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [subject number]...",
	Short: "Polls the configured courses (or the given ones) and reports sections that open up.",
	Example: `webreg-cli watch CSE 100 MATH 20C
webreg-cli watch --notify`,
	Run: func(cmd *cobra.Command, args []string) {
		g := globals.Get(cmd.Context())

		if len(args)%2 != 0 {
			serviceutil.Fatal("invalid arguments", fmt.Errorf("expected subject and number pairs, got %v", args))
		}
		courses := g.Config.Watch.Courses
		if len(args) > 0 {
			courses = nil
			for i := 0; i < len(args); i += 2 {
				courses = append(courses, watch.Course{Subject: args[i], Number: args[i+1]})
			}
		}
		if len(courses) == 0 {
			serviceutil.Fatal("nothing to watch", fmt.Errorf("no courses given or configured"))
		}

		interval, err := g.Config.Watch.ParsedInterval()
		if err != nil {
			serviceutil.Fatal("invalid config", err)
		}

		var notifier watch.Notifier
		if watchNotify {
			if !g.Config.Smtp.Enabled() {
				serviceutil.Fatal("invalid config", fmt.Errorf("--notify needs smtp.host and smtp.to"))
			}
			notifier = watch.NewEmailNotifier(g.Config.Smtp)
		}

		telemetry.InstrumentPerfStats(cmd.Context(), time.Minute)

		slog.Info("watching", "courses", len(courses), "interval", interval.String())
		watcher := watch.NewWatcher(g.Client, courses, notifier, g.Clock, g.Telemetry)
		watcher.Run(cmd.Context(), interval)
	},
}
