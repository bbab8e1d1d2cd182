// Package main provides the entry point for the kaspwarden CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvinuesa/kaspwarden/internal/config"
	"github.com/nvinuesa/kaspwarden/internal/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-edge"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	cfg    *config.Config
	logger = zap.NewNop().Sugar()
)

var rootFlags struct {
	verbose bool
	quiet   bool
}

var rootCmd = &cobra.Command{
	Use:   "kaspwarden",
	Short: "Convert Kaspersky Password Manager exports for Bitwarden",
	Long: `kaspwarden converts the plain-text export of Kaspersky Password Manager
into a JSON document Bitwarden can import, or into the FIDO Alliance
Credential Exchange Format (CXF).

Website and application entries become logins; notes become secure notes.
Entries without a name are skipped.

Settings may also come from the environment or a .env file:
  KASPWARDEN_INPUT, KASPWARDEN_OUTPUT, KASPWARDEN_FORMAT,
  KASPWARDEN_LOG_LEVEL, KASPWARDEN_KDF_ITERATIONS

Examples:
  # Convert, prompting for the paths
  kaspwarden convert

  # Convert to a Bitwarden file
  kaspwarden convert -i kaspersky.txt -o bitwarden.json

  # Password-protected Bitwarden export
  kaspwarden convert -i kaspersky.txt --encrypt

  # Preview without conversion
  kaspwarden preview kaspersky.txt`,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.quiet, "quiet", "q", false, "Suppress all output except errors")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the environment configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.NewConfig()
	if err != nil {
		return err
	}

	level := logging.Level(rootFlags.verbose, rootFlags.quiet, c.LogLevel)
	l, err := logging.New(level)
	if err != nil {
		return err
	}

	cfg = c
	logger = l
	logger.Debugw("configuration loaded",
		"format", cfg.Format,
		"log_level", level,
		"kdf_iterations", cfg.KDFIterations,
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
