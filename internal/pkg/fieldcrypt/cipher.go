// Package fieldcrypt encrypts individual column values (phone numbers, payout
// accounts) with XChaCha20-Poly1305. Ciphertexts are stored as
// "enc:v1:<base64(nonce|sealed)>" so plaintext rows left over from before
// encryption was enabled can be told apart and backfilled.
package fieldcrypt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Prefix marks values produced by Encrypt.
const Prefix = "enc:v1:"

var ErrMalformed = errors.New("fieldcrypt: malformed ciphertext")

type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(value string) (string, error)
}

type aeadCipher struct {
	key []byte
}

// New builds a cipher from a base64 encoded 32 byte key. An empty key yields
// a passthrough cipher, which is only meant for local development.
func New(base64Key string) (Cipher, error) {
	if base64Key == "" {
		return Passthrough{}, nil
	}
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: decode key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("fieldcrypt: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &aeadCipher{key: key}, nil
}

func (c *aeadCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || IsEncrypted(plaintext) {
		return plaintext, nil
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt returns plaintext values unchanged.
func (c *aeadCipher) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", ErrMalformed
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrMalformed
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: open: %w", err)
	}
	return string(plain), nil
}

func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Passthrough stores values as-is.
type Passthrough struct{}

func (Passthrough) Encrypt(plaintext string) (string, error) { return plaintext, nil }
func (Passthrough) Decrypt(value string) (string, error)     { return value, nil }

// EncryptPtr and DecryptPtr handle nullable columns.
func EncryptPtr(c Cipher, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	out, err := c.Encrypt(*v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func DecryptPtr(c Cipher, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	out, err := c.Decrypt(*v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MaskPhone keeps the last four digits, e.g. "***-****-5678".
func MaskPhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return "***-****-" + string(digits[len(digits)-4:])
}
