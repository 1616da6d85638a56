package util

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// Sealed payloads are laid out as magic | version | nonce | ciphertext.
var sealMagic = []byte("PFTB")

const sealVersion byte = 1

var (
	// ErrNotSealed means the data was not produced by Seal.
	ErrNotSealed = errors.New("not a sealed payload")
	// ErrOpenFailed means the key or the associated data does not match.
	ErrOpenFailed = errors.New("sealed payload cannot be opened")
)

// Sealer encrypts with AES-256-GCM under a key derived from a passphrase.
// The associated data passed to Seal is authenticated but not stored; Open
// only succeeds when it is given the same bytes again.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32 byte key from passphrase with sha256.
func NewSealer(passphrase string) *Sealer {
	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// unreachable: the key is always 32 bytes
		panic(fmt.Sprintf("aes: %v", err))
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(fmt.Sprintf("gcm: %v", err))
	}
	return &Sealer{aead: aead}
}

func (s *Sealer) headerLen() int {
	return len(sealMagic) + 1 + s.aead.NonceSize()
}

// Seal encrypts plaintext, binding it to associated.
func (s *Sealer) Seal(plaintext, associated []byte) ([]byte, error) {
	out := make([]byte, s.headerLen(), s.headerLen()+len(plaintext)+s.aead.Overhead())
	copy(out, sealMagic)
	out[len(sealMagic)] = sealVersion
	nonce := out[len(sealMagic)+1:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return s.aead.Seal(out, nonce, plaintext, associated), nil
}

// Open reverses Seal. It returns ErrNotSealed for foreign data and
// ErrOpenFailed when the passphrase or associated data differ.
func (s *Sealer) Open(sealed, associated []byte) ([]byte, error) {
	if len(sealed) < s.headerLen() || !bytes.HasPrefix(sealed, sealMagic) {
		return nil, ErrNotSealed
	}
	if v := sealed[len(sealMagic)]; v != sealVersion {
		return nil, fmt.Errorf("%w: version %d", ErrNotSealed, v)
	}
	nonce := sealed[len(sealMagic)+1 : s.headerLen()]
	plaintext, err := s.aead.Open(nil, nonce, sealed[s.headerLen():], associated)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
