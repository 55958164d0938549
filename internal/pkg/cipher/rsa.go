package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/fr2019/chamber/sdk/settings"
)

// aesKeySize is the AES-256 key length used on the hybrid path.
const aesKeySize = 32

// RSA encrypts and decrypts envelope values with an RSA key pair. Either half
// may be nil; operations needing the missing half fail with the matching
// sentinel. The public half is derived from the private key when only that is
// supplied.
type RSA struct {
	public  *rsa.PublicKey
	private *rsa.PrivateKey
}

// NewRSA builds a cipher from the available key halves.
func NewRSA(public *rsa.PublicKey, private *rsa.PrivateKey) *RSA {
	if public == nil && private != nil {
		public = &private.PublicKey
	}
	return &RSA{public: public, private: private}
}

// CanEncrypt reports whether public key material is available.
func (r *RSA) CanEncrypt() bool { return r != nil && r.public != nil }

// CanDecrypt reports whether private key material is available.
func (r *RSA) CanDecrypt() bool { return r != nil && r.private != nil }

// maxDirectLen is the largest plaintext RSA-OAEP can seal with this key.
// Anything longer goes through the hybrid path.
func (r *RSA) maxDirectLen() int {
	return r.public.Size() - 2*sha256.Size - 2
}

// Encrypt seals plaintext into an envelope string. Short plaintexts use
// direct RSA-OAEP; longer ones a random AES-256-GCM key wrapped with
// RSA-OAEP. Encryption is randomized, so equal plaintexts produce different
// envelopes.
func (r *RSA) Encrypt(plaintext string) (string, error) {
	if !r.CanEncrypt() {
		return "", ErrNoEncryptionKey
	}
	if len(plaintext) <= r.maxDirectLen() {
		ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, r.public, []byte(plaintext), nil)
		if err != nil {
			return "", fmt.Errorf("rsa encrypt: %w", err)
		}
		return settings.Envelope{
			Scheme: settings.SchemeRSA,
			Parts:  []string{base64.StdEncoding.EncodeToString(ct)},
		}.String(), nil
	}
	return r.encryptHybrid(plaintext)
}

func (r *RSA) encryptHybrid(plaintext string) (string, error) {
	key := make([]byte, aesKeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate data key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, r.public, key, nil)
	if err != nil {
		return "", fmt.Errorf("wrap data key: %w", err)
	}

	return settings.Envelope{
		Scheme: settings.SchemeRSAHybrid,
		Parts: []string{
			base64.StdEncoding.EncodeToString(wrappedKey),
			base64.StdEncoding.EncodeToString(sealed),
		},
	}.String(), nil
}

// Decrypt opens an envelope string back into its plaintext. All failure
// modes besides a missing key come back as a DecryptionError.
func (r *RSA) Decrypt(ciphertext string) (string, error) {
	if !r.CanDecrypt() {
		return "", ErrNoDecryptionKey
	}
	env, err := settings.ParseEnvelope(ciphertext)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	switch env.Scheme {
	case settings.SchemeRSA:
		return r.decryptDirect(env)
	case settings.SchemeRSAHybrid:
		return r.decryptHybrid(env)
	default:
		return "", &DecryptionError{Err: fmt.Errorf("unknown scheme %q", env.Scheme)}
	}
}

func (r *RSA) decryptDirect(env settings.Envelope) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(env.Parts[0])
	if err != nil {
		return "", &DecryptionError{Err: fmt.Errorf("payload is not base64: %w", err)}
	}
	plain, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, r.private, ct, nil)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	return string(plain), nil
}

func (r *RSA) decryptHybrid(env settings.Envelope) (string, error) {
	if len(env.Parts) != 2 {
		return "", &DecryptionError{Err: errors.New("hybrid envelope needs a key part and a data part")}
	}
	wrappedKey, err := base64.StdEncoding.DecodeString(env.Parts[0])
	if err != nil {
		return "", &DecryptionError{Err: fmt.Errorf("key part is not base64: %w", err)}
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Parts[1])
	if err != nil {
		return "", &DecryptionError{Err: fmt.Errorf("data part is not base64: %w", err)}
	}

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, r.private, wrappedKey, nil)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	if len(sealed) < gcm.NonceSize() {
		return "", &DecryptionError{Err: errors.New("data part shorter than nonce")}
	}
	nonce, ct := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", &DecryptionError{Err: err}
	}
	return string(plain), nil
}
