package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/finharvest/finharvest/internal/config"
	"github.com/finharvest/finharvest/internal/storage"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics for a harvest directory",
		Long: `Stats reads the catalog in the output directory and prints document
totals broken down by source organization and by financial domain.`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir,
		"Harvest output directory holding the catalog")
	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	outputDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	store, err := storage.New(outputDir)
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total documents in catalog: %d\n", stats.TotalDocuments)
	if len(stats.BySource) > 0 {
		fmt.Fprintln(out, "By source:")
		for _, source := range sortedKeys(stats.BySource) {
			fmt.Fprintf(out, "  %s: %d\n", source, stats.BySource[source])
		}
	}
	if len(stats.ByDomain) > 0 {
		fmt.Fprintln(out, "By domain:")
		for _, domain := range sortedKeys(stats.ByDomain) {
			fmt.Fprintf(out, "  %s: %d\n", domain, stats.ByDomain[domain])
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
