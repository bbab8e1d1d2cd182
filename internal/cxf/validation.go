package cxf

import (
	"errors"
	"fmt"
	"time"

	"github.com/nvinuesa/go-cxf"

	"github.com/nvinuesa/kaspwarden/internal/security"
)

// ValidateHeader checks a generated header before it is written.
func ValidateHeader(header *cxf.Header) error {
	if header == nil {
		return errors.New("header is nil")
	}

	if header.ExporterRpId == "" {
		return ErrMissingRpID
	}
	if header.ExporterDisplayName == "" {
		return ErrMissingExporter
	}
	if err := security.ValidateStringLength(header.ExporterDisplayName, 256, "exporter display name"); err != nil {
		return err
	}

	// Timestamps are Unix seconds.
	minTime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTime := time.Now().Add(24 * time.Hour).Unix()
	if int64(header.Timestamp) < minTime || int64(header.Timestamp) > maxTime {
		return fmt.Errorf("timestamp %d is out of range", header.Timestamp)
	}

	for i, account := range header.Accounts {
		if err := ValidateAccount(account); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
	}

	return nil
}

// ValidateAccount validates a CXF account and its items.
func ValidateAccount(account cxf.Account) error {
	if !isBase64URL(account.ID) {
		return fmt.Errorf("invalid account ID %q", account.ID)
	}

	if err := security.ValidateItemCount(len(account.Items)); err != nil {
		return err
	}

	seen := make(map[string]bool, len(account.Items))
	for i, item := range account.Items {
		if err := ValidateItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate item ID: %s", item.ID)
		}
		seen[item.ID] = true
	}

	return nil
}

// ValidateItem validates a CXF item.
func ValidateItem(item cxf.Item) error {
	if !isBase64URL(item.ID) {
		return fmt.Errorf("invalid item ID %q", item.ID)
	}

	if item.Title == "" {
		return errors.New("item title is required")
	}
	if err := security.ValidateStringLength(item.Title, security.MaxNameLength, "item title"); err != nil {
		return err
	}

	if len(item.Credentials) == 0 {
		return errors.New("item has no credentials")
	}

	if item.Scope != nil {
		for _, u := range item.Scope.Urls {
			if err := security.ValidateURL(u); err != nil {
				return fmt.Errorf("invalid scope: %w", err)
			}
		}
	}

	return nil
}
