package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"

	"github.com/newsroom-dev/newsroom/internal/collector"
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/render"
	"github.com/newsroom-dev/newsroom/internal/scheduler"
)

var (
	maxPageFlag int

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:           "newsroom [source]",
		Short:         "Print the top items of tech news sites",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `newsroom fetches the current top items from a fixed set of news sites
and prints them grouped by source.

Without a source every known source is fetched concurrently:
  newsroom
  newsroom hackernews --max-page 5

Run "newsroom sources" for the accepted source names.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			if !cmd.Flags().Changed("max-page") {
				maxPageFlag = cfg.MaxPage
			}
		},
		RunE: runRoot,
	}

	// Version information
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsroom version %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", Date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(&maxPageFlag, "max-page", "m", config.DefaultMaxPage, "Maximum number of items per source")
	rootCmd.AddCommand(versionCmd)
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	sources, err := selectSources(args)
	if err != nil {
		return err
	}
	if err := checkLimit(maxPageFlag); err != nil {
		return err
	}

	results := scheduler.RunOnce(cmd.Context(), newExtractor(), sources, maxPageFlag)
	return render.NewPrinter(cmd.OutOrStdout()).Print(results)
}

// selectSources returns the single named source, or all of them.
func selectSources(args []string) ([]collector.Source, error) {
	if len(args) == 0 {
		return collector.AllSources(), nil
	}
	s, err := collector.ParseSource(args[0])
	if err != nil {
		return nil, err
	}
	return []collector.Source{s}, nil
}

func checkLimit(n int) error {
	if n < 1 {
		return failure.New(collector.ErrInvalidLimit,
			failure.Message("--max-page must be a positive integer"),
			failure.Context{"max-page": strconv.Itoa(n)},
		)
	}
	return nil
}

func newExtractor() *collector.Extractor {
	if cfg == nil {
		cfg = config.Load()
	}
	return collector.NewExtractor(
		collector.WithTimeout(cfg.HTTPTimeout),
		collector.WithUserAgent(cfg.UserAgent),
	)
}

// Exit prints err the way users should see it and exits non-zero.
func Exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", collector.MessageOf(err))
	os.Exit(1)
}
