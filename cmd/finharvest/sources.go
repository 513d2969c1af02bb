package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finharvest/finharvest/internal/config"
	"github.com/finharvest/finharvest/internal/crawler"
)

// NewSourcesCmd creates the sources command.
func NewSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the available sources",
		Long: `List every source the harvester knows about: the built-in regulators
plus any sources defined in a --sources-file.`,
		Args: cobra.NoArgs,
		RunE: runSourcesCmd,
	}
	cmd.Flags().String("sources-file", "", "YAML file defining additional sources")
	return cmd
}

// runSourcesCmd executes the sources command.
func runSourcesCmd(cmd *cobra.Command, _ []string) error {
	available, err := crawler.BuiltinSources()
	if err != nil {
		return err
	}

	sourcesFile, err := cmd.Flags().GetString("sources-file")
	if err != nil {
		return err
	}
	if sourcesFile != "" {
		extra, err := config.LoadSourcesFile(sourcesFile)
		if err != nil {
			return err
		}
		for name, sc := range extra {
			available[name] = sc
		}
	}

	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORG\tDOMAIN\tSEEDS\tMAX DEPTH\tMAX PAGES")
	for _, name := range names {
		sc := available[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			name, sc.Org, sc.Domain, len(sc.SeedURLs), sc.MaxDepth, sc.MaxPages)
	}
	return w.Flush()
}
