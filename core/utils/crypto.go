package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrCipherBlob = errors.New("malformed cipher blob")

// Encryptor seals small secrets (upstream bearer tokens) before they touch
// disk. Blob layout: nonce || ciphertext.
type Encryptor struct {
	key [chacha20poly1305.KeySize]byte
}

// NewEncryptorFromString derives a key from an operator-supplied passphrase.
// An empty passphrase is rejected; tokens must never be stored in the clear.
func NewEncryptorFromString(passphrase string) (*Encryptor, error) {
	passphrase = strings.TrimSpace(passphrase)
	if passphrase == "" {
		return nil, errors.New("empty encryption key")
	}
	e := &Encryptor{key: sha256.Sum256([]byte(passphrase))}
	return e, nil
}

func (e *Encryptor) EncryptToBlob(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(e.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *Encryptor) DecryptBlob(blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(e.key[:])
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize() {
		return nil, ErrCipherBlob
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCipherBlob
	}
	return plaintext, nil
}
