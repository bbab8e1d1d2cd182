package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvinuesa/kaspwarden/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available source adapters",
	Long: `List all available source adapters that can be used for import.

Each source adapter supports specific file formats and extensions. Use the
--source flag with the convert command to skip auto-detection.

Examples:
  # List all sources
  kaspwarden sources`,
	Run: runSources,
}

func runSources(cmd *cobra.Command, args []string) {
	registry := sources.DefaultRegistry()
	sourceList := registry.List()

	sort.Slice(sourceList, func(i, j int) bool {
		return sourceList[i].Name() < sourceList[j].Name()
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available source adapters:")
	fmt.Fprintln(out)

	for _, source := range sourceList {
		extStr := strings.Join(source.SupportedExtensions(), ", ")
		if extStr == "" {
			extStr = "(any)"
		}

		fmt.Fprintf(out, "  %-12s %s\n", source.Name(), source.Description())
		fmt.Fprintf(out, "  %-12s Extensions: %s\n", "", extStr)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Use 'kaspwarden convert -s <source> -i <input>' to convert an export.")
}
