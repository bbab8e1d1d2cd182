package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvinuesa/kaspwarden/internal/model"
)

var previewFlags struct {
	source string
}

var previewCmd = &cobra.Command{
	Use:   "preview [input-file]",
	Short: "Preview an export without conversion",
	Long: `Preview a Kaspersky export without writing any output.

The preview command shows what would be converted: entry counts by kind,
how many entries would be skipped, and warnings about individual entries.

Examples:
  # Preview an export
  kaspwarden preview kaspersky.txt

  # Preview the file named by KASPWARDEN_INPUT
  kaspwarden preview`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.source, "source", "s", "", "Source type (auto-detected if empty)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	inputPath := cfg.InputPath
	if len(args) > 0 {
		inputPath = args[0]
	}

	// Show help if there is nothing to preview
	if inputPath == "" {
		return cmd.Help()
	}

	if err := validateInput(inputPath); err != nil {
		return err
	}

	source, err := getSourceAdapter(previewFlags.source, inputPath)
	if err != nil {
		return err
	}

	records, err := readRecords(source, inputPath)
	if err != nil {
		return err
	}

	printPreview(source.Name(), inputPath, records, collectWarnings(records))
	return nil
}

// collectWarnings describes entries that will be skipped or look off.
func collectWarnings(records []model.Record) []string {
	var warnings []string

	for i := range records {
		rec := &records[i]
		entry := i + 1

		if err := rec.Validate(); err != nil {
			switch {
			case errors.Is(err, model.ErrEmptyRecord):
				warnings = append(warnings, fmt.Sprintf("entry %d: no recognized fields, will be skipped", entry))
			case errors.Is(err, model.ErrMissingName):
				warnings = append(warnings, fmt.Sprintf("entry %d: no name, will be skipped", entry))
			default:
				warnings = append(warnings, fmt.Sprintf("entry %d (%s): %v", entry, rec.Name, err))
			}
			continue
		}

		if rec.Kind == model.KindUnknown {
			warnings = append(warnings, fmt.Sprintf("entry %d (%s): no login fields or note text, will be imported as an empty login", entry, rec.Name))
		}
	}

	return warnings
}

// printPreview outputs the entry preview to stdout.
func printPreview(sourceName, inputPath string, records []model.Record, warnings []string) {
	counts, skipped := countRecords(records)

	fmt.Printf("Source: %s (%s)\n", sourceName, inputPath)
	fmt.Printf("Entries: %d total\n", len(records))
	printKindCounts(os.Stdout, counts)

	if skipped > 0 {
		fmt.Printf("Skipped: %d\n", skipped)
	}

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
