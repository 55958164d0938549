package cli

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/fr2019/chamber/internal/pkg/cipher"
	"github.com/fr2019/chamber/internal/pkg/errors"
	"github.com/fr2019/chamber/internal/pkg/fileset"
	"github.com/fr2019/chamber/internal/pkg/logging"
	"github.com/fr2019/chamber/internal/pkg/signer"
	"github.com/fr2019/chamber/sdk/settings"
	"github.com/fr2019/chamber/terminal"
)

// resolutionErrorContext builds the UI error context shared by every failure
// a resolution request can produce.
func resolutionErrorContext(c *baseCommand) *errors.UIErrorContext {
	errorContext := errors.NewUIErrorContext()
	if c.cfg.BasePath != "" {
		errorContext.Add(errors.UIContextPrefixBasePath, c.cfg.BasePath)
	}
	if len(c.cfg.Namespaces) > 0 {
		errorContext.Add(errors.UIContextPrefixNamespaces, strings.Join(c.cfg.Namespaces, ", "))
	}
	return errorContext
}

// passphrasePrompt asks the user for a key passphrase through the UI, with
// hidden input.
func passphrasePrompt(ui terminal.UI) cipher.PassphraseFunc {
	return func(path string) (string, error) {
		return ui.Input(&terminal.Input{
			Prompt: fmt.Sprintf("Passphrase for %s:", path),
			Style:  terminal.DefaultStyle,
			Secret: true,
		})
	}
}

// loadKeys reads whichever key halves the resolution request names. The
// private key stands in for the public one when only it is given.
func loadKeys(c *baseCommand) (*rsa.PublicKey, *rsa.PrivateKey, error) {
	var (
		public  *rsa.PublicKey
		private *rsa.PrivateKey
		err     error
	)

	if path := c.cfg.DecryptionKeyPath; path != "" {
		private, err = cipher.LoadPrivateKey(c.fs, path, passphrasePrompt(c.ui))
		if err != nil {
			return nil, nil, err
		}
	}
	if path := c.cfg.EncryptionKeyPath; path != "" {
		public, err = cipher.LoadPublicKey(c.fs, path)
		if err != nil {
			return nil, nil, err
		}
	}
	return public, private, nil
}

// buildFileSet turns the parsed resolution request into an ordered FileSet.
// It is shared by every command that walks settings files.
func buildFileSet(c *baseCommand) (*fileset.FileSet, *errors.UIErrorContext, error) {
	errorContext := resolutionErrorContext(c)

	public, private, err := loadKeys(c)
	if err != nil {
		keyContext := errorContext.Copy()
		keyContext.Add(errors.UIContextPrefixKeyFile, c.cfg.DecryptionKeyPath)
		return nil, keyContext, err
	}

	// Cipher halves are only handed over when their key material exists, so
	// a missing decryption key degrades to per-leaf warnings and a missing
	// encryption key fails securing up front.
	rsaCipher := cipher.NewRSA(public, private)
	var decrypter settings.Decrypter
	if rsaCipher.CanDecrypt() {
		decrypter = rsaCipher
	}
	var encrypter cipher.Encrypter
	if rsaCipher.CanEncrypt() {
		encrypter = rsaCipher
	}

	fs, err := fileset.New(fileset.Config{
		Patterns:        c.cfg.FilePatterns,
		BasePath:        c.cfg.BasePath,
		Namespaces:      c.cfg.NamespaceSet(),
		Fs:              c.fs,
		Logger:          logging.Default(),
		Decrypter:       decrypter,
		Encrypter:       encrypter,
		Signer:          signer.New(c.fs, public, private),
		StrictTemplates: c.cfg.Strict,
	})
	if err != nil {
		return nil, errorContext, err
	}
	if fs.Len() == 0 {
		return nil, errorContext, errors.ErrNoSettingsFiles
	}
	return fs, errorContext, nil
}
