// Package signer signs settings files and verifies those signatures. A
// signature is RSA-PSS over the raw file bytes, stored base64-encoded in a
// sidecar file next to the original.
package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Extension is appended to a file's path to name its signature sidecar.
const Extension = ".sig"

// ErrNoSigningKey is returned by Sign when no private key was configured.
var ErrNoSigningKey = errors.New("no signing key configured")

// ErrNoVerificationKey is returned by Verify when no public key was
// configured.
var ErrNoVerificationKey = errors.New("no verification key configured")

// Result is the outcome of verifying one file.
type Result uint8

const (
	// Match means the stored signature covers the file's current bytes.
	Match Result = iota

	// Mismatch means a signature exists but does not cover the current
	// bytes. This is a result, not an error.
	Mismatch

	// MissingSignature means the file has no signature sidecar.
	MissingSignature
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case MissingSignature:
		return "missing signature"
	default:
		return "unknown"
	}
}

// Signer signs files with an RSA private key and verifies them with the
// matching public key. Either half may be nil; operations needing the
// missing half fail with the matching sentinel.
type Signer struct {
	fs      afero.Afero
	public  *rsa.PublicKey
	private *rsa.PrivateKey
}

// New builds a signer from the available key halves. The public half is
// derived from the private key when only that is supplied.
func New(fs afero.Afero, public *rsa.PublicKey, private *rsa.PrivateKey) *Signer {
	if public == nil && private != nil {
		public = &private.PublicKey
	}
	return &Signer{fs: fs, public: public, private: private}
}

// CanSign reports whether private key material is available.
func (s *Signer) CanSign() bool { return s != nil && s.private != nil }

// CanVerify reports whether public key material is available.
func (s *Signer) CanVerify() bool { return s != nil && s.public != nil }

// SidecarPath returns the signature sidecar path for a file.
func SidecarPath(path string) string { return path + Extension }

// Sign writes the signature sidecar for path, replacing any existing one.
func (s *Signer) Sign(path string) error {
	if !s.CanSign() {
		return ErrNoSigningKey
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	digest := sha512.Sum512(data)
	sig, err := rsa.SignPSS(rand.Reader, s.private, crypto.SHA512, digest[:], nil)
	if err != nil {
		return fmt.Errorf("sign %s: %w", path, err)
	}
	encoded := base64.StdEncoding.EncodeToString(sig) + "\n"
	if err := s.fs.WriteFile(SidecarPath(path), []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("write signature for %s: %w", path, err)
	}
	return nil
}

// Verify checks path's current bytes against its signature sidecar. A bad or
// absent signature is a Result, not an error; errors are reserved for I/O
// failures and missing key material.
func (s *Signer) Verify(path string) (Result, error) {
	if !s.CanVerify() {
		return Mismatch, ErrNoVerificationKey
	}
	encoded, err := s.fs.ReadFile(SidecarPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return MissingSignature, nil
		}
		return Mismatch, fmt.Errorf("read signature for %s: %w", path, err)
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return Mismatch, nil
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return Mismatch, fmt.Errorf("read %s: %w", path, err)
	}
	digest := sha512.Sum512(data)
	if rsa.VerifyPSS(s.public, crypto.SHA512, digest[:], sig, nil) != nil {
		return Mismatch, nil
	}
	return Match, nil
}
