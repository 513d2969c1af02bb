package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for finharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finharvest",
		Short: "Harvest regulatory and financial documents into a local catalog",
		Long: `finharvest crawls government and market-authority web properties
(SEBI, NSE, AMFI, RBI, CBDT by default) and harvests their published
documents: circulars, notifications, investor-education booklets, and
datasets. Harvested files land under a deterministic directory layout with
an append-only catalog of extracted metadata.

The crawler is polite: it honors robots.txt, keeps a conditional-GET cache
so unchanged documents are never re-downloaded, and retries transient
failures with exponential backoff.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewSourcesCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
