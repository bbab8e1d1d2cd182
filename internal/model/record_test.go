package model

import (
	"errors"
	"strings"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"Unknown", KindUnknown, "unknown"},
		{"Login", KindLogin, "login"},
		{"Note", KindNote, "note"},
		{"Out of range", Kind(42), "kind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"Unknown", "unknown", KindUnknown, false},
		{"Login", "login", KindLogin, false},
		{"Note", "note", KindNote, false},
		{"Capitalized", "Login", KindUnknown, true},
		{"Empty", "", KindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseKind() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_HasName(t *testing.T) {
	var nilRecord *Record
	if nilRecord.HasName() {
		t.Error("nil record should not have a name")
	}

	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{"Named", Record{Name: "Bank"}, true},
		{"Empty", Record{}, false},
		{"Whitespace only", Record{Name: "   "}, false},
		{"Login without name", Record{Login: "alice", Kind: KindLogin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasName(); got != tt.want {
				t.Errorf("HasName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_IsEmpty(t *testing.T) {
	var nilRecord *Record
	if !nilRecord.IsEmpty() {
		t.Error("nil record should be empty")
	}

	empty := Record{Kind: KindLogin}
	if !empty.IsEmpty() {
		t.Error("record with only a kind should be empty")
	}

	withComment := Record{Comment: "x"}
	if withComment.IsEmpty() {
		t.Error("record with a comment should not be empty")
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{"Valid login", Record{Name: "Site", Kind: KindLogin, Login: "u", Password: "p"}, nil},
		{"Valid note", Record{Name: "Memo", Kind: KindNote, Text: "a\nb"}, nil},
		{"Empty", Record{}, ErrEmptyRecord},
		{"Missing name", Record{Login: "u"}, ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("Oversized password", func(t *testing.T) {
		r := Record{Name: "Site", Password: strings.Repeat("x", 5000)}
		if err := r.Validate(); err == nil {
			t.Error("expected length error")
		}
	})
}
