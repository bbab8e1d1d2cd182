package bitwarden

import (
	"iter"

	"go.uber.org/zap"

	"github.com/nvinuesa/kaspwarden/internal/model"
	"github.com/nvinuesa/kaspwarden/internal/security"
)

// GeneratorOptions configures export generation.
type GeneratorOptions struct {
	// Provider supplies ids and timestamps (SystemProvider if nil).
	Provider Provider
	// Logger receives a debug line per skipped record (no-op if nil).
	Logger *zap.SugaredLogger
}

// DefaultOptions returns GeneratorOptions backed by the system provider.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Provider: SystemProvider(),
		Logger:   zap.NewNop().Sugar(),
	}
}

// Result is a generated export along with what was left out of it.
type Result struct {
	Export  *Export
	Skipped int
}

// Generate maps records into an export document, preserving their order.
// Records without a name are skipped and counted.
func Generate(records iter.Seq[model.Record], opts GeneratorOptions) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	mapper := NewMapper(opts.Provider)

	export := &Export{
		Encrypted: false,
		Folders:   []Folder{},
		Items:     []Item{},
	}
	result := &Result{Export: export}

	index := 0
	for rec := range records {
		index++
		item, ok := mapper.Map(rec)
		if !ok {
			result.Skipped++
			logger.Debugw("skipping record without a name", "entry", index)
			continue
		}
		export.Items = append(export.Items, item)
	}

	if err := security.ValidateItemCount(len(export.Items)); err != nil {
		return nil, err
	}

	logger.Debugw("generated bitwarden export", "items", len(export.Items), "skipped", result.Skipped)
	return result, nil
}

// CountByType returns the number of items of each type.
func (e *Export) CountByType() map[ItemType]int {
	counts := make(map[ItemType]int)
	if e == nil {
		return counts
	}
	for _, item := range e.Items {
		counts[item.Type]++
	}
	return counts
}
