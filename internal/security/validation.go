package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input size limits.
const (
	MaxNameLength     = 1024
	MaxUsernameLength = 512
	MaxPasswordLength = 1024
	MaxURLLength      = 2048
	MaxNotesLength    = 65536
	MaxInputSize      = 64 * 1024 * 1024 // 64 MB
	MaxItemCount      = 100000
)

// ValidateStringLength validates that a string is within allowed length.
func ValidateStringLength(s string, maxLen int, fieldName string) error {
	if len(s) > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d bytes", fieldName, maxLen)
	}
	return nil
}

// ValidateURL performs basic URL validation.
func ValidateURL(urlStr string) error {
	if err := ValidateStringLength(urlStr, MaxURLLength, "URL"); err != nil {
		return err
	}

	if strings.Contains(urlStr, "\x00") {
		return fmt.Errorf("URL contains null byte")
	}

	return nil
}

// ValidateInputSize rejects export files too large to be a password manager export.
func ValidateInputSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("input size cannot be negative")
	}
	if size > MaxInputSize {
		return fmt.Errorf("input exceeds maximum size of %d bytes", MaxInputSize)
	}
	return nil
}

// ValidateOutputPath ensures the output path is usable and does not clobber the input.
func ValidateOutputPath(outputPath, inputPath string) error {
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	cleaned := filepath.Clean(outputPath)
	if strings.HasSuffix(outputPath, string(filepath.Separator)) || cleaned == "." {
		return fmt.Errorf("output path must name a file")
	}

	if inputPath != "" {
		absOut, errOut := filepath.Abs(cleaned)
		absIn, errIn := filepath.Abs(filepath.Clean(inputPath))
		if errOut == nil && errIn == nil && absOut == absIn {
			return fmt.Errorf("output path must differ from the input path")
		}
	}

	return nil
}

// ValidateItemCount validates the number of items.
func ValidateItemCount(count int) error {
	if count > MaxItemCount {
		return fmt.Errorf("too many items: %d (max %d)", count, MaxItemCount)
	}
	return nil
}
