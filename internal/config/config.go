// Package config carries the settings-resolution request a CLI invocation
// assembles from its flags and environment.
package config

import (
	"os"

	"github.com/fr2019/chamber/sdk/settings"
)

const (
	// EnvBasePath is the env var that supplies a default base path for
	// relative file patterns.
	EnvBasePath = "CHAMBER_BASE_PATH"

	// EnvEncryptionKey is the env var that supplies a default encryption
	// key file path.
	EnvEncryptionKey = "CHAMBER_ENCRYPTION_KEY_FILE"

	// EnvDecryptionKey is the env var that supplies a default decryption
	// key file path.
	EnvDecryptionKey = "CHAMBER_DECRYPTION_KEY_FILE"
)

// ResolutionConfig names the inputs of one settings resolution: which files
// to consider, how to order them, and the key material to use. Zero values
// mean "not supplied"; Init fills environment defaults.
type ResolutionConfig struct {
	// FilePatterns are the literal paths, directories, and globs naming
	// candidate settings files, in the order given on the command line.
	FilePatterns []string

	// BasePath anchors relative patterns and relativizes reported paths.
	BasePath string

	// Namespaces, in precedence order, lowest first.
	Namespaces []string

	// EncryptionKeyPath and DecryptionKeyPath locate PEM key files. The
	// decryption key, being a private key, can stand in for both.
	EncryptionKeyPath string
	DecryptionKeyPath string

	// Strict makes template references to missing settings fatal.
	Strict bool
}

// Init applies environment defaults for values the flags left empty.
func (c *ResolutionConfig) Init() {
	if c.BasePath == "" {
		c.BasePath = os.Getenv(EnvBasePath)
	}
	if c.EncryptionKeyPath == "" {
		c.EncryptionKeyPath = os.Getenv(EnvEncryptionKey)
	}
	if c.DecryptionKeyPath == "" {
		c.DecryptionKeyPath = os.Getenv(EnvDecryptionKey)
	}
	if len(c.FilePatterns) == 0 {
		c.FilePatterns = []string{"settings"}
	}
}

// NamespaceSet returns the ordered namespace set for this request.
func (c *ResolutionConfig) NamespaceSet() settings.NamespaceSet {
	return settings.NewNamespaceSet(c.Namespaces...)
}
