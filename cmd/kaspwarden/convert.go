package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nvinuesa/kaspwarden/internal/bitwarden"
	"github.com/nvinuesa/kaspwarden/internal/config"
	"github.com/nvinuesa/kaspwarden/internal/cxf"
	"github.com/nvinuesa/kaspwarden/internal/export"
	"github.com/nvinuesa/kaspwarden/internal/model"
	"github.com/nvinuesa/kaspwarden/internal/security"
)

var convertFlags struct {
	source        string
	input         string
	output        string
	format        string
	kind          string
	password      string
	kdfIterations int
	encrypt       bool
	dryRun        bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Kaspersky export for Bitwarden",
	Long: `Convert a Kaspersky Password Manager text export.

The convert command reads every entry of the export and writes a Bitwarden
JSON import file (the default) or a CXF document. When --input or --output
is missing and the terminal is interactive, it asks for them.

Examples:
  # Convert to bitwarden.json
  kaspwarden convert -i kaspersky.txt -o bitwarden.json

  # Password-protected export, prompting for the password
  kaspwarden convert -i kaspersky.txt --encrypt

  # Only the notes, as CXF
  kaspwarden convert -i kaspersky.txt --format cxf --kind note

  # Preview without writing output
  kaspwarden convert -i kaspersky.txt --dry-run`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFlags.source, "source", "s", "", "Source type (auto-detected if empty)")
	convertCmd.Flags().StringVarP(&convertFlags.input, "input", "i", "", "Kaspersky export path (or KASPWARDEN_INPUT)")
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", "", "Output file path (default: input_name.json)")
	convertCmd.Flags().StringVarP(&convertFlags.format, "format", "f", "", "Output format (bitwarden|cxf)")
	convertCmd.Flags().StringVarP(&convertFlags.kind, "kind", "k", "", "Only convert entries of this kind (login|note); login also keeps named entries without fields")
	convertCmd.Flags().BoolVarP(&convertFlags.encrypt, "encrypt", "e", false, "Write a password-protected Bitwarden export")
	convertCmd.Flags().StringVarP(&convertFlags.password, "password", "p", "", "Password for --encrypt (prompted if empty)")
	convertCmd.Flags().IntVar(&convertFlags.kdfIterations, "kdf-iterations", 0, "PBKDF2 iterations for --encrypt")
	convertCmd.Flags().BoolVar(&convertFlags.dryRun, "dry-run", false, "Preview only, no output file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	settings, err := convertSettings(cmd)
	if err != nil {
		return err
	}

	if settings.InputPath == "" || (settings.OutputPath == "" && !convertFlags.dryRun) {
		if err := promptPaths(settings); err != nil {
			return err
		}
	}

	if err := validateInput(settings.InputPath); err != nil {
		return err
	}

	source, err := getSourceAdapter(convertFlags.source, settings.InputPath)
	if err != nil {
		return err
	}

	records, err := readRecords(source, settings.InputPath)
	if err != nil {
		return err
	}

	if convertFlags.kind != "" {
		kind, err := model.ParseKind(convertFlags.kind)
		if err != nil {
			return err
		}
		records = filterRecords(records, kind)
	}

	out, err := buildDocument(settings, records)
	if err != nil {
		return err
	}

	if !rootFlags.quiet {
		printConversionSummary(source.Name(), settings.InputPath, records, out)
	}

	if convertFlags.dryRun {
		if !rootFlags.quiet {
			fmt.Fprintln(os.Stderr, "\n[Dry run - no output written]")
		}
		return nil
	}

	if err := security.ValidateOutputPath(settings.OutputPath, settings.InputPath); err != nil {
		return err
	}

	if err := export.Write(out.doc, export.Options{OutputPath: settings.OutputPath}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Debugw("output written", "path", settings.OutputPath, "items", out.written)

	if !rootFlags.quiet {
		fmt.Fprintf(os.Stderr, "\nOutput written to: %s\n", settings.OutputPath)
		fmt.Fprintln(os.Stderr, importHint(settings.Format, settings.Encrypt))
	}

	return nil
}

// convertSettings layers explicitly set flags over the environment config.
func convertSettings(cmd *cobra.Command) (*config.Config, error) {
	settings := *cfg

	flags := cmd.Flags()
	if flags.Changed("input") {
		settings.InputPath = convertFlags.input
	}
	if flags.Changed("output") {
		settings.OutputPath = convertFlags.output
	}
	if flags.Changed("format") {
		settings.Format = strings.ToLower(convertFlags.format)
	}
	if flags.Changed("kdf-iterations") {
		settings.KDFIterations = convertFlags.kdfIterations
	}
	if flags.Changed("encrypt") {
		settings.Encrypt = convertFlags.encrypt
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// promptPaths asks for missing input and output paths on the terminal.
func promptPaths(settings *config.Config) error {
	interactive := stdinIsTerminal()
	in := bufio.NewReader(os.Stdin)

	if settings.InputPath == "" {
		if !interactive {
			return fmt.Errorf("input path is required")
		}
		path, err := promptLine(in, "Path to the Kaspersky TXT export", "")
		if err != nil {
			return fmt.Errorf("failed to read input path: %w", err)
		}
		settings.InputPath = path
	}

	if settings.OutputPath == "" && settings.InputPath != "" {
		def := defaultOutputPath(settings.InputPath, settings.Format)
		if !interactive || convertFlags.dryRun {
			settings.OutputPath = def
			return nil
		}
		path, err := promptLine(in, "Output JSON file", def)
		if err != nil {
			return fmt.Errorf("failed to read output path: %w", err)
		}
		settings.OutputPath = path
	}

	return nil
}

// defaultOutputPath derives an output name next to the input file.
func defaultOutputPath(inputPath, format string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inputPath)

	if format == config.FormatCXF {
		return filepath.Join(dir, name+".cxf.json")
	}
	return filepath.Join(dir, name+".json")
}

// filterRecords keeps records of the given kind, and nameless ones so they
// are still reported as skipped. Records of unknown kind are written as
// logins, so they count as logins here.
func filterRecords(records []model.Record, kind model.Kind) []model.Record {
	return slices.DeleteFunc(records, func(r model.Record) bool {
		return r.HasName() && outputKind(r.Kind) != outputKind(kind)
	})
}

// outputKind folds KindUnknown into KindLogin.
func outputKind(kind model.Kind) model.Kind {
	if kind == model.KindUnknown {
		return model.KindLogin
	}
	return kind
}

// conversion is a generated document and how many items went into it.
type conversion struct {
	doc      any
	written  int
	rejected int
}

// buildDocument generates the output document in the configured format.
func buildDocument(settings *config.Config, records []model.Record) (*conversion, error) {
	if settings.Format == config.FormatCXF {
		opts := cxf.DefaultOptions()
		opts.Logger = logger

		result, err := cxf.Generate(slices.Values(records), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CXF: %w", err)
		}
		if err := cxf.ValidateHeader(result.Header); err != nil {
			return nil, fmt.Errorf("generated CXF is invalid: %w", err)
		}
		return &conversion{
			doc:      result.Header,
			written:  cxf.ItemCount(result.Header),
			rejected: result.Rejected,
		}, nil
	}

	opts := bitwarden.DefaultOptions()
	opts.Logger = logger

	result, err := bitwarden.Generate(slices.Values(records), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Bitwarden export: %w", err)
	}
	out := &conversion{doc: result.Export, written: len(result.Export.Items)}

	if !settings.Encrypt || convertFlags.dryRun {
		return out, nil
	}

	password, err := exportPassword()
	if err != nil {
		return nil, err
	}
	defer password.Zero()

	logger.Debugw("encrypting export", "kdf_iterations", settings.KDFIterations)

	protected, err := bitwarden.Protect(result.Export, password, bitwarden.ProtectOptions{
		Iterations: settings.KDFIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt export: %w", err)
	}
	out.doc = protected
	return out, nil
}

// exportPassword returns the --password value or asks for it twice without echo.
func exportPassword() (*security.SecureBytes, error) {
	if convertFlags.password != "" {
		return security.FromBytes([]byte(convertFlags.password)), nil
	}

	if !stdinIsTerminal() {
		return nil, fmt.Errorf("export password is required (use --password)")
	}

	first, err := promptPassword("Export password: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	second, err := promptPassword("Confirm password: ")
	if err != nil {
		first.Zero()
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer second.Zero()

	if !first.Equal(second) {
		first.Zero()
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func promptPassword(prompt string) (*security.SecureBytes, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password
	if err != nil {
		return nil, err
	}
	return security.FromBytes(password), nil
}

func importHint(format string, encrypted bool) string {
	switch {
	case format == config.FormatCXF:
		return "You can now import this file into any password manager that accepts CXF."
	case encrypted:
		return "You can now import this file in Bitwarden under Tools > Import data, " +
			"choosing \"Bitwarden (json)\" and entering the export password."
	default:
		return "You can now import this file in Bitwarden under Tools > Import data, " +
			"choosing \"Bitwarden (json)\"."
	}
}

func printConversionSummary(sourceName, inputPath string, records []model.Record, out *conversion) {
	counts, skipped := countRecords(records)

	fmt.Fprintf(os.Stderr, "\nSource: %s (%s)\n", sourceName, inputPath)
	fmt.Fprintf(os.Stderr, "Items: %d converted\n", out.written)
	printKindCounts(os.Stderr, counts)

	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped: %d entries without a name\n", skipped)
	}
	if out.rejected > 0 {
		fmt.Fprintf(os.Stderr, "Rejected: %d entries that do not fit the output format\n", out.rejected)
	}
}
