// Package bitwarden maps intermediate records to the Bitwarden JSON import format.
package bitwarden

import "fmt"

// ItemType is the discriminator of a Bitwarden item.
type ItemType int

// Bitwarden item types produced by this package.
const (
	ItemTypeLogin      ItemType = 1
	ItemTypeSecureNote ItemType = 2
)

// String returns the string representation of the ItemType.
func (t ItemType) String() string {
	switch t {
	case ItemTypeLogin:
		return "login"
	case ItemTypeSecureNote:
		return "secure-note"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// SecureNoteTypeGeneric is the only secure note subtype Bitwarden defines.
const SecureNoteTypeGeneric = 0

// Export is the top-level Bitwarden unencrypted JSON import document.
type Export struct {
	Encrypted bool     `json:"encrypted"`
	Folders   []Folder `json:"folders"`
	Items     []Item   `json:"items"`
}

// Folder represents a folder in the Bitwarden export.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is one Bitwarden cipher. Type selects which of Login or SecureNote is set.
// Pointer fields without omitempty serialize as null, which the importer expects.
type Item struct {
	ID              string          `json:"id"`
	OrganizationID  *string         `json:"organizationId"`
	FolderID        *string         `json:"folderId"`
	Type            ItemType        `json:"type"`
	Reprompt        int             `json:"reprompt"`
	Name            string          `json:"name"`
	Notes           *string         `json:"notes"`
	Favorite        bool            `json:"favorite"`
	Login           *Login          `json:"login,omitempty"`
	SecureNote      *SecureNote     `json:"secureNote,omitempty"`
	Fields          []Field         `json:"fields"`
	PasswordHistory []PasswordEntry `json:"passwordHistory"`
	CollectionIDs   []string        `json:"collectionIds"`
	CreationDate    string          `json:"creationDate"`
	RevisionDate    string          `json:"revisionDate"`
	DeletedDate     *string         `json:"deletedDate"`
}

// Login represents login data in a Bitwarden item.
type Login struct {
	URIs     []URI   `json:"uris"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	TOTP     *string `json:"totp"`
}

// URI represents a URI entry in a Bitwarden login. A nil Match uses the
// vault's default match detection.
type URI struct {
	Match *int   `json:"match"`
	URI   string `json:"uri"`
}

// SecureNote marks an item as a secure note.
type SecureNote struct {
	Type int `json:"type"`
}

// Field represents a custom field in a Bitwarden item.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  int    `json:"type"`
}

// PasswordEntry is one entry of an item's password history.
type PasswordEntry struct {
	Password     string `json:"password"`
	LastUsedDate string `json:"lastUsedDate"`
}
