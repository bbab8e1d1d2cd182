package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nvinuesa/kaspwarden/internal/model"
	"github.com/nvinuesa/kaspwarden/internal/sources"
)

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptLine asks for a single line. An empty answer yields def.
func promptLine(in *bufio.Reader, prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(os.Stderr, "%s: ", prompt)
	}

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// validateInput checks that the input path exists.
func validateInput(inputPath string) error {
	if inputPath == "" {
		return fmt.Errorf("input path is required")
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input path does not exist: %s", inputPath)
	}

	return nil
}

// getSourceAdapter retrieves the source adapter by name or auto-detects it.
func getSourceAdapter(sourceName, inputPath string) (sources.Source, error) {
	registry := sources.DefaultRegistry()

	if sourceName != "" {
		source, ok := registry.Get(sourceName)
		if !ok {
			return nil, fmt.Errorf("unknown source type: %s (try: %s)",
				sourceName, strings.Join(registry.Names(), ", "))
		}
		return source, nil
	}

	detected, err := registry.DetectSource(inputPath)
	if err != nil {
		return nil, fmt.Errorf("could not auto-detect source type for: %s (use --source to specify)", inputPath)
	}

	logger.Infow("auto-detected source", "source", detected.Name())
	return detected, nil
}

// readRecords opens the source, reads every record and closes it again.
func readRecords(source sources.Source, inputPath string) ([]model.Record, error) {
	if err := source.Open(inputPath, sources.OpenOptions{Logger: logger}); err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	logger.Debugw("reading entries", "path", inputPath)

	records, err := source.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return records, nil
}

// countRecords tallies named records by kind and counts the nameless ones.
func countRecords(records []model.Record) (map[model.Kind]int, int) {
	counts := make(map[model.Kind]int)
	skipped := 0
	for i := range records {
		if !records[i].HasName() {
			skipped++
			continue
		}
		counts[records[i].Kind]++
	}
	return counts, skipped
}

// printKindCounts writes one line per kind in a stable order.
func printKindCounts(w io.Writer, counts map[model.Kind]int) {
	for _, kind := range []model.Kind{model.KindLogin, model.KindNote, model.KindUnknown} {
		if counts[kind] > 0 {
			fmt.Fprintf(w, "  - %d %s\n", counts[kind], kind)
		}
	}
}
