// Package sources provides adapters that read password manager exports into
// intermediate records.
package sources

import (
	"go.uber.org/zap"

	"github.com/nvinuesa/kaspwarden/internal/model"
)

// Source defines the interface for export readers.
// Each adapter reads one export format and turns every entry into a model.Record.
type Source interface {
	// Name returns the unique identifier for this source (e.g., "kaspersky").
	Name() string

	// Description returns a human-readable description of the source.
	Description() string

	// SupportedExtensions returns file extensions this source handles (e.g., [".txt"]).
	SupportedExtensions() []string

	// Detect checks if the given path is valid for this source.
	// Returns a confidence score from 0-100 (100 = definitely this format).
	Detect(path string) (confidence int, err error)

	// Open reads and validates the export at path.
	Open(path string, opts OpenOptions) error

	// Read returns one record per entry, in export order.
	// Records without a name are included; generators drop them.
	Read() ([]model.Record, error)

	// Close releases any resources held by the source.
	Close() error
}

// OpenOptions provides configuration for opening a source.
type OpenOptions struct {
	// Logger receives per-entry diagnostics. Nil disables logging.
	Logger *zap.SugaredLogger
}

func (o OpenOptions) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}
