package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"

	"github.com/newsroom-dev/newsroom/internal/log"
	"github.com/newsroom-dev/newsroom/internal/render"
	"github.com/newsroom-dev/newsroom/internal/scheduler"
)

var (
	cronFlag string

	watchCmd = &cobra.Command{
		Use:   "watch [source]",
		Short: "Fetch and print on a cron schedule",
		Long: `watch fetches once immediately and then again on every tick of the cron
schedule (CRON_SPEC or --cron), printing each run. Runs are independent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVar(&cronFlag, "cron", "", "Cron schedule, defaults to CRON_SPEC")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sources, err := selectSources(args)
	if err != nil {
		return err
	}
	if err := checkLimit(maxPageFlag); err != nil {
		return err
	}

	spec := cronFlag
	if spec == "" {
		spec = cfg.CronSpec
	}

	printer := render.NewPrinter(cmd.OutOrStdout())
	s, err := scheduler.New(spec, newExtractor(), sources, maxPageFlag, func(results []scheduler.Result) {
		if err := printer.Print(results); err != nil {
			log.Error("print results failed", "error", err)
		}
	})
	if err != nil {
		return failure.Wrap(err,
			failure.Message("Invalid cron schedule "+spec),
		)
	}

	s.Start()
	log.Info("watching", "cron", spec, "sources", len(sources))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-cmd.Context().Done():
	}
	s.Stop()
	return nil
}
