package bitwarden

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/nvinuesa/kaspwarden/internal/security"
)

// KDF parameters of password-protected exports.
const (
	KDFTypePBKDF2SHA256  = 0
	DefaultKDFIterations = 600000
	MinKDFIterations     = 5000

	saltSize = 16
	keySize  = 32
)

// encStringType is Bitwarden's AesCbc256_HmacSha256_B64 cipher string type.
const encStringType = 2

// Protect errors.
var (
	ErrNilExport        = errors.New("export is nil")
	ErrEmptyPassword    = errors.New("export password is empty")
	ErrWeakIterations   = fmt.Errorf("KDF iterations must be at least %d", MinKDFIterations)
	ErrAlreadyEncrypted = errors.New("export is already encrypted")
)

// ProtectedExport is Bitwarden's password-protected JSON import document.
type ProtectedExport struct {
	Encrypted         bool   `json:"encrypted"`
	PasswordProtected bool   `json:"passwordProtected"`
	Salt              string `json:"salt"`
	KDFType           int    `json:"kdfType"`
	KDFIterations     int    `json:"kdfIterations"`
	KDFMemory         *int   `json:"kdfMemory"`
	KDFParallelism    *int   `json:"kdfParallelism"`
	EncKeyValidation  string `json:"encKeyValidation_DO_NOT_EDIT"`
	Data              string `json:"data"`
}

// ProtectOptions configures Protect.
type ProtectOptions struct {
	// Iterations is the PBKDF2 round count (DefaultKDFIterations if zero).
	Iterations int
	// Provider supplies the key validation payload (SystemProvider if nil).
	Provider Provider
	// Rand is the source of salt and IVs (crypto/rand if nil).
	Rand io.Reader
}

// Protect encrypts an export with a password the way Bitwarden does for
// "password protected" exports. The PBKDF2-SHA256 master key is stretched
// with HKDF into encryption and MAC keys for an AES-256-CBC + HMAC-SHA256
// cipher string.
func Protect(export *Export, password *security.SecureBytes, opts ProtectOptions) (*ProtectedExport, error) {
	if export == nil {
		return nil, ErrNilExport
	}
	if export.Encrypted {
		return nil, ErrAlreadyEncrypted
	}
	if password.Len() == 0 {
		return nil, ErrEmptyPassword
	}

	iterations := opts.Iterations
	if iterations == 0 {
		iterations = DefaultKDFIterations
	}
	if iterations < MinKDFIterations {
		return nil, ErrWeakIterations
	}

	provider := opts.Provider
	if provider == nil {
		provider = SystemProvider()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	rawSalt := make([]byte, saltSize)
	if _, err := io.ReadFull(rnd, rawSalt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(rawSalt)

	encKey, macKey, err := deriveKeys(password.Bytes(), salt, iterations)
	if err != nil {
		return nil, err
	}
	defer encKey.Zero()
	defer macKey.Zero()

	validation, err := encryptString([]byte(provider.NewID()), encKey, macKey, rnd)
	if err != nil {
		return nil, err
	}

	plain, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	defer security.Wipe(&plain)

	data, err := encryptString(plain, encKey, macKey, rnd)
	if err != nil {
		return nil, err
	}

	return &ProtectedExport{
		Encrypted:         true,
		PasswordProtected: true,
		Salt:              salt,
		KDFType:           KDFTypePBKDF2SHA256,
		KDFIterations:     iterations,
		EncKeyValidation:  validation,
		Data:              data,
	}, nil
}

// deriveKeys turns the password into the stretched encryption and MAC keys.
func deriveKeys(password []byte, salt string, iterations int) (*security.SecureBytes, *security.SecureBytes, error) {
	master := pbkdf2.Key(password, []byte(salt), iterations, keySize, sha256.New)
	defer security.Wipe(&master)

	encKey, err := expandKey(master, "enc")
	if err != nil {
		return nil, nil, err
	}
	macKey, err := expandKey(master, "mac")
	if err != nil {
		encKey.Zero()
		return nil, nil, err
	}
	return encKey, macKey, nil
}

func expandKey(master []byte, info string) (*security.SecureBytes, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return security.FromBytes(key), nil
}

// encryptString produces a "2.<iv>|<ciphertext>|<mac>" cipher string.
func encryptString(plaintext []byte, encKey, macKey *security.SecureBytes, rnd io.Reader) (string, error) {
	block, err := aes.NewCipher(encKey.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rnd, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	defer security.Wipe(&padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, macKey.Bytes())
	mac.Write(iv)
	mac.Write(ciphertext)

	return fmt.Sprintf("%d.%s|%s|%s",
		encStringType,
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(mac.Sum(nil)),
	), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}
