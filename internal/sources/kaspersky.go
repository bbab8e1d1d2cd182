package sources

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nvinuesa/kaspwarden/internal/model"
	"github.com/nvinuesa/kaspwarden/internal/security"
)

// detectSampleSize bounds how much of a file Detect inspects.
const detectSampleSize = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// KasperskySource implements the Source interface for Kaspersky Password
// Manager plain-text exports.
type KasperskySource struct {
	filePath string
	logger   *zap.SugaredLogger
	isOpen   bool
	content  string
	records  []model.Record
}

// NewKasperskySource creates a new Kaspersky text export source adapter.
func NewKasperskySource() *KasperskySource {
	return &KasperskySource{}
}

// Name returns the unique identifier for this source.
func (s *KasperskySource) Name() string {
	return "kaspersky"
}

// Description returns a human-readable description.
func (s *KasperskySource) Description() string {
	return "Kaspersky Password Manager text export"
}

// SupportedExtensions returns file extensions this source handles.
func (s *KasperskySource) SupportedExtensions() []string {
	return []string{".txt"}
}

// Detect scores how much the file at path looks like a Kaspersky export:
// it needs at least one delimiter line and one recognized label.
func (s *KasperskySource) Detect(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &ErrFileNotFound{Path: path}
		}
		return 0, err
	}

	if info.IsDir() {
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, nil
	}
	defer f.Close()

	sample := make([]byte, detectSampleSize)
	n, _ := f.Read(sample)
	sample = bytes.TrimPrefix(sample[:n], utf8BOM)

	confidence := detectKasperskyStructure(string(sample))
	if confidence > 0 && strings.ToLower(filepath.Ext(path)) != ".txt" {
		confidence /= 2
	}
	return confidence, nil
}

// detectKasperskyStructure counts the distinct labels found at line starts.
func detectKasperskyStructure(sample string) int {
	hasDelimiter := false
	seen := make(map[string]bool)

	for _, line := range strings.Split(sample, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == entryDelimiter {
			hasDelimiter = true
			continue
		}
		key, _, found := strings.Cut(trimmed, labelSeparator)
		if !found {
			continue
		}
		for _, label := range knownLabels {
			if strings.TrimSpace(key) == label {
				seen[label] = true
				break
			}
		}
	}

	if !hasDelimiter || len(seen) == 0 {
		return 0
	}

	confidence := 50 + 10*len(seen)
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// Open reads the export at path. The file must be valid UTF-8.
func (s *KasperskySource) Open(path string, opts OpenOptions) error {
	if s.isOpen {
		return ErrAlreadyOpen
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrFileNotFound{Path: path}
		}
		return &ErrPermissionDenied{Path: path, Op: "stat", Err: err}
	}

	if info.IsDir() {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "path must be a file, not a directory",
		}
	}

	if err := security.ValidateInputSize(info.Size()); err != nil {
		return &ErrInvalidFormat{Source: s.Name(), Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &ErrPermissionDenied{Path: path, Op: "read", Err: err}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return &ErrInvalidFormat{
			Source:  s.Name(),
			Path:    path,
			Details: "input is not valid UTF-8",
		}
	}

	s.filePath = path
	s.logger = opts.logger()
	s.content = string(data)
	s.records = nil
	s.isOpen = true

	return nil
}

// Read parses the export and returns one record per entry block.
func (s *KasperskySource) Read() ([]model.Record, error) {
	if !s.isOpen {
		return nil, ErrNotOpen
	}

	if s.records != nil {
		return s.records, nil
	}

	records := make([]model.Record, 0)
	index := 0
	for record := range ParseEntries(s.content) {
		index++
		if !record.HasName() {
			s.logger.Debugw("entry has no name and will be skipped",
				"source", s.Name(), "entry", index)
		} else {
			s.logger.Debugw("parsed entry",
				"source", s.Name(), "entry", index, "kind", record.Kind.String())
		}
		records = append(records, record)
	}

	if err := security.ValidateItemCount(len(records)); err != nil {
		return nil, &ErrInvalidFormat{Source: s.Name(), Path: s.filePath, Err: err}
	}

	s.records = records
	return records, nil
}

// Close releases resources.
func (s *KasperskySource) Close() error {
	s.isOpen = false
	s.filePath = ""
	s.content = ""
	s.records = nil
	return nil
}

func init() {
	RegisterDefault(NewKasperskySource())
}

var _ Source = (*KasperskySource)(nil)
