// Package crypt encrypts short secrets for at-rest storage. The security
// answer on user accounts goes through it.
//
// The scheme is AES-256-GCM with the key derived from APP_KEY. A
// ciphertext is one base64url string carrying nonce, payload, and auth
// tag, so it fits in a single document field:
//
//	enc, err := crypt.Encrypt("first pet's name")
//	plain, err := crypt.Decrypt(enc)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/rishavanand/bazario/config"
)

// ErrDecrypt covers every decrypt failure: bad encoding, truncation, or a
// failed auth tag. Callers get no hint which, on purpose.
var ErrDecrypt = errors.New("crypt: decryption failed")

// aead builds the GCM cipher from the configured APP_KEY. SHA-256 turns a
// passphrase of any length into the 32 bytes AES-256 wants.
func aead() (cipher.AEAD, error) {
	secret := config.AppKey()
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext and returns base64url(nonce || ciphertext || tag).
func Encrypt(plaintext string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering surfaces as ErrDecrypt.
func Decrypt(encoded string) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < gcm.NonceSize() {
		return "", ErrDecrypt
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
