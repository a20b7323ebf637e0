// Package crypto encrypts bearer tokens at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Service encrypts a value bound to an associated string, typically the session
// id it is stored under. Decrypting with a different associated string fails.
type Service interface {
	Encrypt(plaintext, associated string) (string, error)
	Decrypt(ciphertext, associated string) (string, error)
}

// NoopService stores tokens as plain text (no TOKEN_ENCRYPTION_KEY configured).
type NoopService struct{}

func (NoopService) Encrypt(plaintext, _ string) (string, error)  { return plaintext, nil }
func (NoopService) Decrypt(ciphertext, _ string) (string, error) { return ciphertext, nil }

type AesGcmCryptoService struct {
	gcm cipher.AEAD
}

func NewAesGcmCryptoService(hexKey string) (*AesGcmCryptoService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AesGcmCryptoService{gcm: gcm}, nil
}

func (c *AesGcmCryptoService) Encrypt(plaintext, associated string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// nonce || ciphertext || tag
	ciphertext := c.gcm.Seal(nonce, nonce, []byte(plaintext), []byte(associated))
	return hex.EncodeToString(ciphertext), nil
}

func (c *AesGcmCryptoService) Decrypt(ciphertext, associated string) (string, error) {
	buffer, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(buffer) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, cipherBytes := buffer[:nonceSize], buffer[nonceSize:]
	plainBytes, err := c.gcm.Open(nil, nonce, cipherBytes, []byte(associated))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plainBytes), nil
}
