package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"omnivox-backend/cmd/omnivox-cli/globals"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/config"
	"omnivox-backend/internal/portal"
	"omnivox-backend/internal/portal/champlain"
	"omnivox-backend/internal/portal/maisonneuve"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	otelProviders telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "omnivox-cli",
	Short:         "omnivox-cli pulls documents, assignments and calendar events from Omnivox portals.",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		clock, err := cfg.Clock()
		if err != nil {
			return fmt.Errorf("load timezone '%s': %w", cfg.Timezone, err)
		}

		otelProviders, err = telemetry.Setup(cmd.Context(), "omnivox-cli", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		runId, err := random.String(8)
		if err != nil {
			return err
		}
		tel := telemetry.NewMetricsAPI(telemetry.NewSlogAPI("run", runId))
		if otelProviders.MeterProvider != nil {
			telemetry.InstrumentPerfStats(cmd.Context(), tel, 15*time.Second)
		}

		registry := portal.NewRegistry(cfg.Institutions)
		champlain.Register(registry)
		maisonneuve.Register(registry)

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:   cfg,
			Registry: registry,
			Time:     clock,
			Tel:      tel,
			RunId:    runId,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelProviders.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "omnivox.json5", "path to the json5 config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
