package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsroom-dev/newsroom/internal/collector"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported sources",
	Long:  "Display every supported source with the name accepted on the command line",
	Args:  cobra.NoArgs,
	Run:   runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Sources:")
	for _, s := range collector.AllSources() {
		kind := "html"
		if s.IsFeed() {
			kind = "feed"
		}
		fmt.Fprintf(out, "  %-16s %-20s (%s) %s\n", s.Token(), s.String(), kind, s.Endpoint())
	}
}
