package cipher

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"github.com/shoenig/test/must"
	"github.com/spf13/afero"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	must.NoError(t, err)
	return key
}

func TestRSA_RoundTripDirect(t *testing.T) {
	c := NewRSA(nil, testKey(t))

	env, err := c.Encrypt("hunter2")
	must.NoError(t, err)
	must.True(t, IsEncrypted(env))
	must.True(t, strings.HasPrefix(env, "ENC[rsa-oaep,"))

	plain, err := c.Decrypt(env)
	must.NoError(t, err)
	must.Eq(t, "hunter2", plain)
}

func TestRSA_RoundTripHybrid(t *testing.T) {
	c := NewRSA(nil, testKey(t))
	long := strings.Repeat("confidential ", 100)

	env, err := c.Encrypt(long)
	must.NoError(t, err)
	must.True(t, IsEncrypted(env))
	must.True(t, strings.HasPrefix(env, "ENC[rsa-oaep+aes-gcm,"))

	plain, err := c.Decrypt(env)
	must.NoError(t, err)
	must.Eq(t, long, plain)
}

func TestRSA_EncryptIsRandomized(t *testing.T) {
	c := NewRSA(nil, testKey(t))

	a, err := c.Encrypt("same")
	must.NoError(t, err)
	b, err := c.Encrypt("same")
	must.NoError(t, err)
	must.NotEq(t, a, b)
}

func TestRSA_WrongKey(t *testing.T) {
	enc := NewRSA(nil, testKey(t))
	dec := NewRSA(nil, testKey(t))

	env, err := enc.Encrypt("hunter2")
	must.NoError(t, err)

	_, err = dec.Decrypt(env)
	must.Error(t, err)
	decErr := &DecryptionError{}
	must.True(t, errors.As(err, &decErr))
}

func TestRSA_MissingKeys(t *testing.T) {
	key := testKey(t)

	encryptOnly := NewRSA(&key.PublicKey, nil)
	must.True(t, encryptOnly.CanEncrypt())
	must.False(t, encryptOnly.CanDecrypt())
	_, err := encryptOnly.Decrypt("ENC[rsa-oaep,aGVsbG8=]")
	must.ErrorIs(t, err, ErrNoDecryptionKey)

	none := NewRSA(nil, nil)
	_, err = none.Encrypt("x")
	must.ErrorIs(t, err, ErrNoEncryptionKey)
}

func TestRSA_PrivateKeyImpliesPublic(t *testing.T) {
	c := NewRSA(nil, testKey(t))
	must.True(t, c.CanEncrypt())
}

func TestRSA_MalformedEnvelope(t *testing.T) {
	c := NewRSA(nil, testKey(t))

	for _, bad := range []string{
		"not an envelope",
		"ENC[rsa-oaep,!!!not-base64!!!]",
		"ENC[rsa-oaep+aes-gcm,aGVsbG8=]",
	} {
		_, err := c.Decrypt(bad)
		must.Error(t, err)
		decErr := &DecryptionError{}
		must.True(t, errors.As(err, &decErr))
	}
}

func writePEM(t *testing.T, fs afero.Afero, path string, block *pem.Block) {
	t.Helper()
	must.NoError(t, fs.WriteFile(path, pem.EncodeToMemory(block), 0o600))
}

func TestLoadKeys(t *testing.T) {
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	key := testKey(t)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	must.NoError(t, err)
	writePEM(t, fs, "/keys/pub.pem", &pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	writePEM(t, fs, "/keys/priv.pem", &pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pub, err := LoadPublicKey(fs, "/keys/pub.pem")
	must.NoError(t, err)
	must.True(t, pub.Equal(&key.PublicKey))

	priv, err := LoadPrivateKey(fs, "/keys/priv.pem", nil)
	must.NoError(t, err)
	must.True(t, priv.Equal(key))

	// A private key PEM also serves as encryption key material.
	pub, err = LoadPublicKey(fs, "/keys/priv.pem")
	must.NoError(t, err)
	must.True(t, pub.Equal(&key.PublicKey))
}

func TestLoadKeys_PKCS8(t *testing.T) {
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	key := testKey(t)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	must.NoError(t, err)
	writePEM(t, fs, "/keys/priv8.pem", &pem.Block{Type: "PRIVATE KEY", Bytes: der})

	priv, err := LoadPrivateKey(fs, "/keys/priv8.pem", nil)
	must.NoError(t, err)
	must.True(t, priv.Equal(key))
}

func TestLoadPrivateKey_Passphrase(t *testing.T) {
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	key := testKey(t)

	//nolint:staticcheck // writing a legacy encrypted PEM fixture
	block, err := x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY",
		x509.MarshalPKCS1PrivateKey(key), []byte("letmein"), x509.PEMCipherAES256)
	must.NoError(t, err)
	writePEM(t, fs, "/keys/enc.pem", block)

	_, err = LoadPrivateKey(fs, "/keys/enc.pem", nil)
	must.Error(t, err)

	var asked string
	priv, err := LoadPrivateKey(fs, "/keys/enc.pem", func(path string) (string, error) {
		asked = path
		return "letmein", nil
	})
	must.NoError(t, err)
	must.True(t, priv.Equal(key))
	must.Eq(t, "/keys/enc.pem", asked)

	_, err = LoadPrivateKey(fs, "/keys/enc.pem", func(string) (string, error) {
		return "wrong", nil
	})
	must.Error(t, err)
}

func TestLoadKeys_Errors(t *testing.T) {
	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	must.NoError(t, fs.WriteFile("/keys/garbage.pem", []byte("not pem at all"), 0o600))

	_, err := LoadPublicKey(fs, "/keys/garbage.pem")
	must.Error(t, err)
	_, err = LoadPrivateKey(fs, "/keys/garbage.pem", nil)
	must.Error(t, err)
	_, err = LoadPublicKey(fs, "/keys/absent.pem")
	must.Error(t, err)
}
