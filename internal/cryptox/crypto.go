// Package cryptox seals snapshot blobs with a passphrase.
//
// A sealed blob is magic | salt | nonce | AES-256-GCM ciphertext. The key is
// derived from the passphrase and the per-blob salt with Argon2id.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

const (
	saltSize = 16
	keySize  = 32
)

var magic = []byte("PKSEAL1\x00")

var (
	ErrNotSealed       = errors.New("data is not sealed")
	ErrDecryptFailed   = errors.New("wrong passphrase or damaged data")
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
)

// DeriveKey stretches a passphrase into an AES-256 key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// IsSealed reports whether data starts with the sealed-blob header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext under passphrase with a fresh salt and nonce.
func Seal(passphrase string, plaintext []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	salt := common.GenerateRandByteArray(saltSize)
	aesgcm, err := newGCM(DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	out := make([]byte, 0, len(magic)+saltSize+len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, magic), nil
}

// Open reverses Seal.
func Open(passphrase string, sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	rest := sealed[len(magic):]
	if len(rest) < saltSize {
		return nil, ErrDecryptFailed
	}
	salt, rest := rest[:saltSize], rest[saltSize:]

	aesgcm, err := newGCM(DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, err
	}
	if len(rest) < aesgcm.NonceSize() {
		return nil, ErrDecryptFailed
	}
	nonce, ciphertext := rest[:aesgcm.NonceSize()], rest[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
