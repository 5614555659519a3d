package seekpager

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

var _encoder = base64.RawURLEncoding

// Crypter seals token bytes into an opaque transport-safe string and opens it
// back. Decrypt must fail on any tampering, truncation or format mismatch —
// the token layer relies on that to reject forged cursors.
type Crypter interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(token string) ([]byte, error)
}

const (
	// KeySize is the AESCrypter key length (AES-256).
	KeySize = 32

	nonceSize = 12
)

// AESCrypter is the default Crypter: AES-256-GCM with a random nonce prefixed
// to the ciphertext, base64 (raw URL alphabet) on the wire.
type AESCrypter struct {
	aead cipher.AEAD
}

// NewAESCrypter builds an AESCrypter from a KeySize-byte key.
func NewAESCrypter(key []byte) (*AESCrypter, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size: expected %d, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESCrypter{aead: aead}, nil
}

// GenerateKey generates a random KeySize-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	return key, nil
}

// Encrypt - implements Crypter. Returns base64(nonce || ciphertext || tag).
func (c *AESCrypter) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal appends to its destination; starting from the nonce keeps the
	// whole token in one buffer.
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)

	return _encoder.EncodeToString(sealed), nil
}

// Decrypt - implements Crypter. Fails on any authentication or format error.
func (c *AESCrypter) Decrypt(token string) ([]byte, error) {
	sealed, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded token: %w", err)
	}

	if len(sealed) < nonceSize+c.aead.Overhead() {
		return nil, fmt.Errorf("token too short")
	}

	plaintext, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed token: %w", err)
	}

	return plaintext, nil
}

var _ Crypter = (*AESCrypter)(nil)
