// Package securestore persists the cart as an encrypted blob in a
// key-value slot.
package securestore

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// keySalt is fixed so the same secret always derives the same key across restarts.
var keySalt = []byte("sixshop/vCart/v1")

var ErrCiphertext = errors.New("ciphertext malformed or key mismatch")

// Codec seals and opens blobs with XChaCha20-Poly1305 under a key derived
// from the configured secret.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(secret string) (*Codec, error) {
	key, err := scrypt.Key([]byte(secret), keySalt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// Seal returns base64(nonce || ciphertext).
func (c *Codec) Seal(plain []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(c.aead.Seal(nonce, nonce, plain, nil)), nil
}

func (c *Codec) Open(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: short blob", ErrCiphertext)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	return plain, nil
}
