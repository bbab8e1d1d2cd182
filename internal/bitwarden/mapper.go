package bitwarden

import (
	"github.com/nvinuesa/kaspwarden/internal/model"
)

// Mapper converts records into Bitwarden items.
type Mapper struct {
	provider Provider
}

// NewMapper creates a Mapper. A nil provider falls back to SystemProvider.
func NewMapper(provider Provider) *Mapper {
	if provider == nil {
		provider = SystemProvider()
	}
	return &Mapper{provider: provider}
}

// Map converts one record. It returns false for records without a name.
// Records of unknown kind become logins.
func (m *Mapper) Map(rec model.Record) (Item, bool) {
	if !rec.HasName() {
		return Item{}, false
	}

	now := FormatTimestamp(m.provider.Now())
	item := Item{
		ID:              m.provider.NewID(),
		Name:            rec.Name,
		Fields:          []Field{},
		PasswordHistory: []PasswordEntry{},
		CreationDate:    now,
		RevisionDate:    now,
	}

	if rec.Kind == model.KindNote {
		text := rec.Text
		item.Type = ItemTypeSecureNote
		item.Notes = &text
		item.SecureNote = &SecureNote{Type: SecureNoteTypeGeneric}
		return item, true
	}

	item.Type = ItemTypeLogin
	if rec.Comment != "" {
		comment := rec.Comment
		item.Notes = &comment
	}
	item.Login = mapLogin(rec)

	return item, true
}

func mapLogin(rec model.Record) *Login {
	login := &Login{
		URIs:     []URI{},
		Username: rec.Login,
		Password: rec.Password,
	}
	if rec.URL != "" {
		login.URIs = append(login.URIs, URI{URI: rec.URL})
	}
	return login
}
