package cxf

import (
	"encoding/base64"
	"encoding/json"

	"github.com/nvinuesa/go-cxf"

	"github.com/nvinuesa/kaspwarden/internal/model"
)

// mapRecordToItem converts a named model.Record to a cxf.Item.
func mapRecordToItem(r *model.Record, provider Provider) (cxf.Item, error) {
	id := provider.NewID()
	if !isBase64URL(id) {
		id = base64.RawURLEncoding.EncodeToString([]byte(id))
	}

	now := uintPtr(uint64(provider.Now().Unix()))

	var scope *cxf.CredentialScope
	if r.URL != "" && r.Kind != model.KindNote {
		scope = &cxf.CredentialScope{
			Urls:        []string{r.URL},
			AndroidApps: []cxf.AndroidAppIdCredential{},
		}
	}

	credentials, err := mapCredentials(r)
	if err != nil {
		return cxf.Item{}, err
	}

	return cxf.Item{
		ID:          id,
		CreationAt:  now,
		ModifiedAt:  now,
		Title:       r.Name,
		Scope:       scope,
		Credentials: credentials,
	}, nil
}

// mapCredentials creates the credentials array for an item. Notes carry
// their text; everything else is basic auth plus the comment as a note.
func mapCredentials(r *model.Record) ([]json.RawMessage, error) {
	if r.Kind == model.KindNote {
		note, err := mapNote(r.Text)
		if err != nil {
			return nil, err
		}
		return []json.RawMessage{note}, nil
	}

	credentials := make([]json.RawMessage, 0, 2)

	basic, err := mapBasicAuth(r)
	if err != nil {
		return nil, err
	}
	credentials = append(credentials, basic)

	if r.Comment != "" {
		note, err := mapNote(r.Comment)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, note)
	}

	return credentials, nil
}

// mapBasicAuth creates a BasicAuthCredential from a record.
func mapBasicAuth(r *model.Record) (json.RawMessage, error) {
	cred := cxf.BasicAuthCredential{
		Type:     cxf.CredentialTypeBasicAuth,
		Username: makeEditableField(cxf.FieldTypeString, r.Login),
		Password: makeEditableField(cxf.FieldTypeConcealedString, r.Password),
	}
	return marshalCredential(cred)
}

// mapNote creates a NoteCredential holding content.
func mapNote(content string) (json.RawMessage, error) {
	cred := cxf.NoteCredential{
		Type:    cxf.CredentialTypeNote,
		Content: makeEditableField(cxf.FieldTypeString, content),
	}
	return marshalCredential(cred)
}

// makeEditableField creates an EditableField, or nil for an empty value.
func makeEditableField(fieldType, value string) *cxf.EditableField {
	if value == "" {
		return nil
	}

	marshalledValue, _ := json.Marshal(value)
	return &cxf.EditableField{
		FieldType: fieldType,
		Value:     marshalledValue,
	}
}

func marshalCredential(cred any) (json.RawMessage, error) {
	return json.Marshal(cred)
}

// isBase64URL checks if a string is valid unpadded base64url.
func isBase64URL(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil
}
