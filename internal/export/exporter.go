// Package export serializes converted documents and writes them to disk.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// Exporter errors.
var (
	ErrNilDocument  = errors.New("document is nil")
	ErrNoOutputPath = errors.New("output path is required")
)

// Options configures how a document is written.
type Options struct {
	// OutputPath is the destination file path.
	OutputPath string
}

// Write serializes doc and writes it to opts.OutputPath, creating parent
// directories as needed. The file is readable by its owner only.
func Write(doc any, opts Options) error {
	data, err := ToBytes(doc)
	if err != nil {
		return err
	}

	if opts.OutputPath == "" {
		return ErrNoOutputPath
	}

	dir := filepath.Dir(opts.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", opts.OutputPath, err)
	}

	return nil
}

// ToBytes returns doc as two-space indented JSON with a trailing newline.
// HTML characters are not escaped so URLs stay readable.
func ToBytes(doc any) ([]byte, error) {
	if isNil(doc) {
		return nil, ErrNilDocument
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return buf.Bytes(), nil
}

func isNil(doc any) bool {
	if doc == nil {
		return true
	}
	v := reflect.ValueOf(doc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
