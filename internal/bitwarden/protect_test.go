package bitwarden

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvinuesa/kaspwarden/internal/security"
)

// decryptString opens a "2.<iv>|<ct>|<mac>" cipher string.
func decryptString(t *testing.T, encString string, encKey, macKey *security.SecureBytes) []byte {
	t.Helper()

	typ, body, ok := strings.Cut(encString, ".")
	require.True(t, ok)
	require.Equal(t, "2", typ)

	parts := strings.Split(body, "|")
	require.Len(t, parts, 3)

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	tag, err := base64.StdEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	mac := hmac.New(sha256.New, macKey.Bytes())
	mac.Write(iv)
	mac.Write(ct)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		t.Fatal("cipher string MAC mismatch")
	}

	block, err := aes.NewCipher(encKey.Bytes())
	require.NoError(t, err)
	require.Zero(t, len(ct)%aes.BlockSize)

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	padding := int(plain[len(plain)-1])
	require.True(t, padding >= 1 && padding <= aes.BlockSize)
	return plain[:len(plain)-padding]
}

func newPassword(s string) *security.SecureBytes {
	return security.FromBytes([]byte(s))
}

func TestProtect_RoundTrip(t *testing.T) {
	result, err := Generate(slices.Values(testRecords()), GeneratorOptions{Provider: newFixedProvider()})
	require.NoError(t, err)

	protected, err := Protect(result.Export, newPassword("correct horse"), ProtectOptions{
		Iterations: MinKDFIterations,
		Provider:   newFixedProvider(),
	})
	require.NoError(t, err)

	assert.True(t, protected.Encrypted)
	assert.True(t, protected.PasswordProtected)
	assert.Equal(t, KDFTypePBKDF2SHA256, protected.KDFType)
	assert.Equal(t, MinKDFIterations, protected.KDFIterations)

	rawSalt, err := base64.StdEncoding.DecodeString(protected.Salt)
	require.NoError(t, err)
	assert.Len(t, rawSalt, saltSize)

	encKey, macKey, err := deriveKeys([]byte("correct horse"), protected.Salt, protected.KDFIterations)
	require.NoError(t, err)

	assert.Equal(t, "id-1", string(decryptString(t, protected.EncKeyValidation, encKey, macKey)))

	var decoded Export
	require.NoError(t, json.Unmarshal(decryptString(t, protected.Data, encKey, macKey), &decoded))
	assert.Equal(t, *result.Export, decoded)
}

func TestProtect_WrongPasswordFailsMAC(t *testing.T) {
	result, err := Generate(slices.Values(testRecords()), DefaultOptions())
	require.NoError(t, err)

	protected, err := Protect(result.Export, newPassword("right"), ProtectOptions{Iterations: MinKDFIterations})
	require.NoError(t, err)

	encKey, macKey, err := deriveKeys([]byte("wrong"), protected.Salt, protected.KDFIterations)
	require.NoError(t, err)

	_, body, _ := strings.Cut(protected.Data, ".")
	parts := strings.Split(body, "|")
	iv, _ := base64.StdEncoding.DecodeString(parts[0])
	ct, _ := base64.StdEncoding.DecodeString(parts[1])
	tag, _ := base64.StdEncoding.DecodeString(parts[2])

	mac := hmac.New(sha256.New, macKey.Bytes())
	mac.Write(iv)
	mac.Write(ct)
	assert.False(t, hmac.Equal(tag, mac.Sum(nil)))
	assert.Equal(t, 32, encKey.Len())
}

func TestProtect_FreshSaltPerCall(t *testing.T) {
	export := &Export{Folders: []Folder{}, Items: []Item{}}

	a, err := Protect(export, newPassword("pw"), ProtectOptions{Iterations: MinKDFIterations})
	require.NoError(t, err)
	b, err := Protect(export, newPassword("pw"), ProtectOptions{Iterations: MinKDFIterations})
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Data, b.Data)
}

func TestProtect_Errors(t *testing.T) {
	export := &Export{Folders: []Folder{}, Items: []Item{}}

	tests := []struct {
		name     string
		export   *Export
		password *security.SecureBytes
		opts     ProtectOptions
		wantErr  error
	}{
		{"Nil export", nil, newPassword("pw"), ProtectOptions{}, ErrNilExport},
		{"Already encrypted", &Export{Encrypted: true}, newPassword("pw"), ProtectOptions{}, ErrAlreadyEncrypted},
		{"Empty password", export, newPassword(""), ProtectOptions{}, ErrEmptyPassword},
		{"Nil password", export, nil, ProtectOptions{}, ErrEmptyPassword},
		{"Too few iterations", export, newPassword("pw"), ProtectOptions{Iterations: 10}, ErrWeakIterations},
		{"Broken randomness", export, newPassword("pw"), ProtectOptions{Iterations: MinKDFIterations, Rand: bytes.NewReader(nil)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Protect(tt.export, tt.password, tt.opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestPKCS7Pad(t *testing.T) {
	assert.Len(t, pkcs7Pad(nil, 16), 16)
	assert.Len(t, pkcs7Pad(make([]byte, 15), 16), 16)
	assert.Len(t, pkcs7Pad(make([]byte, 16), 16), 32)

	padded := pkcs7Pad([]byte("abc"), 16)
	for _, b := range padded[3:] {
		assert.Equal(t, byte(13), b)
	}
}
