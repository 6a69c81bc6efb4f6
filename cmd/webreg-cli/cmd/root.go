package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"webweg/cmd/webreg-cli/cmd/events"
	"webweg/cmd/webreg-cli/cmd/schedules"
	"webweg/cmd/webreg-cli/config"
	"webweg/cmd/webreg-cli/globals"
	"webweg/internal/components/chrono"
	"webweg/lib/platforms/webreg"
	"webweg/lib/restyutil"
	"webweg/lib/telemetry"
	"webweg/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envPath    string
	termFlag   string
	debug      bool
	dumpHttp   bool
	withOtel   bool
)

var otelHandle telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "webreg-cli",
	Short: "webreg-cli is a command line client for UCSD's WebReg.",
	Long: `webreg-cli is a command line client for UCSD's WebReg.

It reuses the session of a logged in browser, copy the Cookie header of any
request a WebReg tab makes into the config file or WEBREG_COOKIES.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		cfg, err := config.Load(configPath, envPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if termFlag != "" {
			cfg.Term = termFlag
		}
		if cfg.Term == "" {
			return fmt.Errorf("no term given, set it in %s, %s or with --term", configPath, config.EnvTerm)
		}

		if withOtel {
			otelHandle, err = telemetry.SetupFromEnv(cmd.Context(), "webreg-cli")
			if err != nil {
				return fmt.Errorf("setup telemetry: %w", err)
			}
		}

		var dump restyutil.InstrumentOutput
		if dumpHttp {
			output, err := restyutil.NewFilesystemOutput("<dev_state>/http")
			if err != nil {
				return err
			}
			slog.Info("dumping http exchanges", "dir", output.Directory())
			dump = output
		}

		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return err
		}
		tel := telemetry.SlogAPI{}
		client, err := webreg.NewClient(webreg.Options{
			Cookies:           cfg.Cookies,
			Term:              cfg.Term,
			UserAgent:         cfg.UserAgent,
			BaseUrl:           cfg.BaseUrl,
			RequestsPerSecond: cfg.RequestsPerSecond,
			CloudflareBypass:  cfg.CloudflareBypass,
			VerifyFailMarker:  cfg.VerifyFailMarker,
			Telemetry:         tel,
			Clock:             clock,
			DumpOutput:        dump,
		})
		if err != nil {
			return err
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Client:    client,
			Config:    cfg,
			Clock:     clock,
			Telemetry: tel,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if !withOtel {
			return
		}
		err := otelHandle.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultPath, "path to the json5 config file")
	flags.StringVar(&envPath, "env", config.DefaultEnvPath, "path to a dotenv file with WEBREG_COOKIES and WEBREG_TERM")
	flags.StringVarP(&termFlag, "term", "t", "", "term code, ex. FA24 (overrides the config)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.BoolVar(&dumpHttp, "dump-http", false, "write every http exchange to dev/.state/http")
	flags.BoolVar(&withOtel, "telemetry", false, "export traces and metrics as configured in telemetry.json5")

	rootCmd.AddCommand(schedules.RootCmd)
	rootCmd.AddCommand(events.RootCmd)
}

func Execute() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
