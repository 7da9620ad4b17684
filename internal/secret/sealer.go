// Package secret encrypts passwords before they reach a shared store.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrEmptyPassphrase = errors.New("secret: empty passphrase")
	ErrOpen            = errors.New("secret: message authentication failed")
)

// Sealer encrypts with a key derived once from a passphrase.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives the box key from passphrase with argon2id.
// The salt must stay the same for previously sealed values to open.
func NewSealer(passphrase, salt string) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	derived := argon2.IDKey([]byte(passphrase), []byte(salt), argonTime, argonMemory, argonThreads, keySize)

	s := &Sealer{}
	copy(s.key[:], derived)
	return s, nil
}

// Seal returns base64(nonce || box).
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secret: failed to read nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("secret: invalid encoding: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrOpen
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrOpen
	}
	return string(plain), nil
}
