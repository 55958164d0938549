package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/shoenig/test/must"
	"github.com/spf13/afero"
)

func testSigner(t *testing.T) (*Signer, afero.Afero) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	must.NoError(t, err)
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	return New(fs, nil, key), fs
}

func TestSignAndVerify(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: example.com\n"), 0o644))

	must.NoError(t, s.Sign("/settings.yml"))

	exists, err := fs.Exists("/settings.yml.sig")
	must.NoError(t, err)
	must.True(t, exists)

	result, err := s.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, Match, result)
}

func TestVerify_Mismatch(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: example.com\n"), 0o644))
	must.NoError(t, s.Sign("/settings.yml"))

	// Tampering after signing turns the result into a mismatch, not an error.
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: evil.example.com\n"), 0o644))

	result, err := s.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, Mismatch, result)
}

func TestVerify_MissingSignature(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: example.com\n"), 0o644))

	result, err := s.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, MissingSignature, result)
}

func TestVerify_GarbageSidecar(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: example.com\n"), 0o644))
	must.NoError(t, fs.WriteFile("/settings.yml.sig", []byte("%%% not base64 %%%"), 0o644))

	result, err := s.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, Mismatch, result)
}

func TestVerify_WrongKey(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("host: example.com\n"), 0o644))
	must.NoError(t, s.Sign("/settings.yml"))

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	must.NoError(t, err)
	verifier := New(fs, &other.PublicKey, nil)

	result, err := verifier.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, Mismatch, result)
}

func TestMissingKeys(t *testing.T) {
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("a: b\n"), 0o644))

	s := New(fs, nil, nil)
	must.False(t, s.CanSign())
	must.False(t, s.CanVerify())
	must.ErrorIs(t, s.Sign("/settings.yml"), ErrNoSigningKey)
	_, err := s.Verify("/settings.yml")
	must.ErrorIs(t, err, ErrNoVerificationKey)
}

func TestSign_ReplacesExisting(t *testing.T) {
	s, fs := testSigner(t)
	must.NoError(t, fs.WriteFile("/settings.yml", []byte("a: 1\n"), 0o644))
	must.NoError(t, s.Sign("/settings.yml"))

	must.NoError(t, fs.WriteFile("/settings.yml", []byte("a: 2\n"), 0o644))
	must.NoError(t, s.Sign("/settings.yml"))

	result, err := s.Verify("/settings.yml")
	must.NoError(t, err)
	must.Eq(t, Match, result)
}

func TestResultString(t *testing.T) {
	must.Eq(t, "match", Match.String())
	must.Eq(t, "mismatch", Mismatch.String())
	must.Eq(t, "missing signature", MissingSignature.String())
}
