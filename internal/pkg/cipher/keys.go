package cipher

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/spf13/afero"
)

// PassphraseFunc supplies the passphrase for an encrypted private key PEM.
// It receives the key path so interactive prompts can say which key they are
// asking about.
type PassphraseFunc func(path string) (string, error)

// LoadPublicKey reads an RSA public key from a PEM file. PKIX and PKCS#1
// encodings are accepted, as is a private key PEM, from which the public
// half is taken.
func LoadPublicKey(fs afero.Afero, path string) (*rsa.PublicKey, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encryption key %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("encryption key %s: no PEM block found", path)
	}

	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("encryption key %s: not an RSA key", path)
		}
		return rsaPub, nil
	}
	if pub, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return pub, nil
	}
	if priv, err := parsePrivateBytes(block.Bytes); err == nil {
		return &priv.PublicKey, nil
	}
	return nil, fmt.Errorf("encryption key %s: unrecognized key encoding", path)
}

// LoadPrivateKey reads an RSA private key from a PEM file. PKCS#1 and PKCS#8
// encodings are accepted. Passphrase-protected PEMs invoke the callback;
// a nil callback fails them.
func LoadPrivateKey(fs afero.Afero, path string, passphrase PassphraseFunc) (*rsa.PrivateKey, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decryption key %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("decryption key %s: no PEM block found", path)
	}

	der := block.Bytes
	//nolint:staticcheck // legacy encrypted PEM support is part of the format
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase == nil {
			return nil, fmt.Errorf("decryption key %s is passphrase protected and no passphrase was supplied", path)
		}
		pass, err := passphrase(path)
		if err != nil {
			return nil, fmt.Errorf("read passphrase for %s: %w", path, err)
		}
		//nolint:staticcheck
		der, err = x509.DecryptPEMBlock(block, []byte(pass))
		if err != nil {
			return nil, fmt.Errorf("decrypt key %s: %w", path, err)
		}
	}

	priv, err := parsePrivateBytes(der)
	if err != nil {
		return nil, fmt.Errorf("decryption key %s: %w", path, err)
	}
	return priv, nil
}

func parsePrivateBytes(der []byte) (*rsa.PrivateKey, error) {
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return priv, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("unrecognized private key encoding")
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA key")
	}
	return priv, nil
}
