// Package cipher implements the encryption scheme behind secure settings
// values. Values are stored as textual envelopes: short plaintexts are
// encrypted directly with RSA-OAEP, longer ones with a random AES-256-GCM key
// wrapped by RSA-OAEP. The envelope grammar itself lives in sdk/settings so
// that parsing and rewriting never need key material.
package cipher

import (
	"errors"
	"fmt"

	"github.com/fr2019/chamber/sdk/settings"
)

// ErrNoEncryptionKey is returned when an operation needs a public key and
// none was configured.
var ErrNoEncryptionKey = errors.New("no encryption key configured")

// ErrNoDecryptionKey is returned when an operation needs a private key and
// none was configured.
var ErrNoDecryptionKey = errors.New("no decryption key configured")

// DecryptionError wraps any failure to recover a plaintext, key mismatch
// included. Callers treat it as soft: the envelope text is kept.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("unable to decrypt value: %v", e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// Encrypter produces encryption envelopes from plaintext.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

// Decrypter recovers plaintext from an encryption envelope. It satisfies
// settings.Decrypter.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// IsEncrypted reports whether s carries the textual envelope form.
func IsEncrypted(s string) bool {
	return settings.IsEnvelope(s)
}
