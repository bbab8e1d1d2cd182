// Package cxf maps intermediate records to the FIDO Alliance Credential
// Exchange Format.
package cxf

import (
	"encoding/base64"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/nvinuesa/go-cxf"
	"go.uber.org/zap"

	"github.com/nvinuesa/kaspwarden/internal/model"
	"github.com/nvinuesa/kaspwarden/internal/security"
)

// Generator errors.
var (
	ErrMissingRpID     = errors.New("exporter RP ID is required")
	ErrMissingExporter = errors.New("exporter name is required")
)

// Provider supplies item identifiers and the current time.
type Provider interface {
	NewID() string
	Now() time.Time
}

type systemProvider struct{}

func (systemProvider) NewID() string  { return generateBase64URLID() }
func (systemProvider) Now() time.Time { return time.Now().UTC() }

// GeneratorOptions configures CXF generation.
type GeneratorOptions struct {
	// ExporterRpID is the FIDO RP ID of the exporting application.
	ExporterRpID string
	// ExporterName is the human-readable display name for the exporter.
	ExporterName string
	// AccountID is the unique identifier for the account (auto-generated if empty).
	AccountID string
	// AccountUsername is the username for the account.
	AccountUsername string
	// AccountEmail is the email for the account.
	AccountEmail string
	// Provider supplies ids and timestamps (random base64url UUIDs and the
	// wall clock if nil).
	Provider Provider
	// Logger receives a debug line per skipped record (no-op if nil).
	Logger *zap.SugaredLogger
}

// DefaultOptions returns GeneratorOptions with sensible defaults.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		ExporterRpID: "kaspwarden.local",
		ExporterName: "kaspwarden",
	}
}

// Result is a generated header along with what was left out of it.
type Result struct {
	Header *cxf.Header
	// Skipped counts records without a name.
	Skipped int
	// Rejected counts named records whose item failed ValidateItem.
	Rejected int
}

// Generate creates a single-account CXF header from records, preserving order.
// Records without a name are skipped and counted. Items that fail
// ValidateItem are left out with a warning and counted as rejected.
func Generate(records iter.Seq[model.Record], opts GeneratorOptions) (*Result, error) {
	if opts.ExporterRpID == "" {
		return nil, ErrMissingRpID
	}
	if opts.ExporterName == "" {
		return nil, ErrMissingExporter
	}

	provider := opts.Provider
	if provider == nil {
		provider = systemProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	accountID := opts.AccountID
	if accountID == "" {
		accountID = generateBase64URLID()
	}

	items := make([]cxf.Item, 0)
	skipped := 0
	rejected := 0
	index := 0
	for rec := range records {
		index++
		if !rec.HasName() {
			skipped++
			logger.Debugw("skipping record without a name", "entry", index)
			continue
		}

		item, err := mapRecordToItem(&rec, provider)
		if err != nil {
			return nil, err
		}
		if err := ValidateItem(item); err != nil {
			rejected++
			logger.Warnw("leaving out invalid item", "entry", index, "error", err)
			continue
		}
		items = append(items, item)
	}

	if err := security.ValidateItemCount(len(items)); err != nil {
		return nil, err
	}

	header := &cxf.Header{
		Version: cxf.Version{
			Major: cxf.VersionMajor,
			Minor: cxf.VersionMinor,
		},
		ExporterRpId:        opts.ExporterRpID,
		ExporterDisplayName: opts.ExporterName,
		Timestamp:           uint64(provider.Now().Unix()),
		Accounts: []cxf.Account{
			{
				ID:          accountID,
				Username:    opts.AccountUsername,
				Email:       opts.AccountEmail,
				Collections: []cxf.Collection{},
				Items:       items,
			},
		},
	}

	logger.Debugw("generated cxf header", "items", len(items), "skipped", skipped, "rejected", rejected)
	return &Result{Header: header, Skipped: skipped, Rejected: rejected}, nil
}

// ItemCount returns the number of items across all accounts.
func ItemCount(header *cxf.Header) int {
	if header == nil {
		return 0
	}
	count := 0
	for _, account := range header.Accounts {
		count += len(account.Items)
	}
	return count
}

// generateBase64URLID generates a base64url-encoded UUID.
func generateBase64URLID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// uintPtr returns a pointer to the given uint64 value.
func uintPtr(v uint64) *uint64 {
	return &v
}
