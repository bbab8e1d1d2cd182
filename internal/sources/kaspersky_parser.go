package sources

import (
	"iter"
	"slices"
	"strings"

	"github.com/nvinuesa/kaspwarden/internal/model"
)

// entryDelimiter separates entry blocks in a Kaspersky text export. It must
// sit alone on its line; surrounding whitespace is ignored.
const entryDelimiter = "---"

// labelSeparator splits a field line into label and value.
const labelSeparator = ":"

// Field labels of a Kaspersky entry block. Matched exactly, case-sensitive.
const (
	labelName        = "Name"
	labelText        = "Text"
	labelWebsiteName = "Website name"
	labelWebsiteURL  = "Website URL"
	labelApplication = "Application"
	labelLoginName   = "Login name"
	labelLogin       = "Login"
	labelPassword    = "Password"
	labelComment     = "Comment"
)

var knownLabels = []string{
	labelName,
	labelText,
	labelWebsiteName,
	labelWebsiteURL,
	labelApplication,
	labelLoginName,
	labelLogin,
	labelPassword,
	labelComment,
}

// SplitEntries splits an export into entry blocks.
// Everything before the first delimiter is preamble and is dropped, even if
// it contains field lines. Blank blocks are dropped too.
func SplitEntries(content string) []string {
	segments := splitOnDelimiter(content)
	if len(segments) > 0 {
		segments = segments[1:]
	}

	blocks := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		blocks = append(blocks, segment)
	}
	return blocks
}

func splitOnDelimiter(content string) []string {
	var segments []string
	var current []string

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entryDelimiter {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
			continue
		}
		current = append(current, line)
	}

	return append(segments, strings.Join(current, "\n"))
}

// ParseEntries returns a single-pass sequence of records, one per entry block.
// Nameless records are yielded as well; it is up to the consumer to drop them.
func ParseEntries(content string) iter.Seq[model.Record] {
	return func(yield func(model.Record) bool) {
		for _, block := range SplitEntries(content) {
			if !yield(ParseEntry(block)) {
				return
			}
		}
	}
}

// ParseAll materializes ParseEntries.
func ParseAll(content string) []model.Record {
	return slices.Collect(ParseEntries(content))
}

// ParseEntry parses one entry block.
func ParseEntry(block string) model.Record {
	var state parseState
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		state = state.step(line)
	}
	return state.finish()
}

// parseState is the accumulator folded over the lines of one block.
// step never mutates its receiver's shared data, so earlier states stay valid.
type parseState struct {
	record model.Record

	// noteStarted is set by a Name label.
	noteStarted bool
	// capturing is set by a Text label following Name; unlabeled lines
	// after it belong to the note body.
	capturing bool
	// application is set by an Application label.
	application bool

	text []string
}

func (s parseState) step(line string) parseState {
	key, value, found := strings.Cut(line, labelSeparator)
	if !found {
		if s.capturing && s.noteStarted {
			s.text = appendLine(s.text, strings.TrimSpace(line))
		}
		return s
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch {
	case key == labelName:
		s.record.Name = value
		s.noteStarted = true
	case key == labelText && s.noteStarted:
		s.record.Text = value
		s.capturing = true
		if value != "" {
			s.text = appendLine(s.text, value)
		}
	case key == labelWebsiteName:
		s.record.Name = value
		s.record.Kind = model.KindLogin
	case key == labelWebsiteURL:
		s.record.URL = value
	case key == labelApplication:
		s.record.Name = value
		s.record.Kind = model.KindLogin
		s.application = true
	case key == labelLoginName && s.application:
		// Application entries repeat the account under "Login name";
		// the value under "Login" is the one kept.
	case key == labelLogin:
		s.record.Login = value
	case key == labelPassword:
		s.record.Password = value
	case key == labelComment:
		s.record.Comment = value
	}

	return s
}

func (s parseState) finish() model.Record {
	record := s.record
	if s.noteStarted && len(s.text) > 0 {
		record.Text = strings.Join(s.text, "\n")
		record.Kind = model.KindNote
	}
	return record
}

// appendLine appends without writing into a backing array another state may share.
func appendLine(lines []string, line string) []string {
	return append(slices.Clip(lines), line)
}
