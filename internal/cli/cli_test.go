package cli

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/fr2019/chamber/internal/pkg/signer"
	"github.com/fr2019/chamber/internal/pkg/testfixture"
	"github.com/fr2019/chamber/terminal"
)

func testBase(t *testing.T) *baseCommand {
	t.Helper()
	ctx := context.Background()
	return &baseCommand{
		Ctx:           ctx,
		globalOptions: []Option{WithUI(terminal.NonInteractiveUI(ctx))},
	}
}

// writeKeyPair writes a PKCS#1 private key PEM and a PKIX public key PEM
// into dir and returns their paths.
func writeKeyPair(t *testing.T, dir string) (pubPath, privPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	must.NoError(t, err)

	privPath = filepath.Join(dir, "key.pem")
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	must.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubPath = filepath.Join(dir, "key.pub.pem")
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	must.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	must.NoError(t, os.WriteFile(pubPath, pubPEM, 0o644))

	return pubPath, privPath
}

func TestShowCommand_noFiles(t *testing.T) {
	dir := t.TempDir()

	cmd := &ShowCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", filepath.Join(dir, "nothing", "*.yml")})
	must.Eq(t, 1, exit)
}

func TestShowCommand_resolves(t *testing.T) {
	dir := t.TempDir()
	must.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"),
		[]byte("server:\n  host: localhost\n  port: 8080\n"), 0o644))
	must.NoError(t, os.WriteFile(filepath.Join(dir, "settings-production.yml"),
		[]byte("server:\n  host: prod.example.com\n"), 0o644))

	cmd := &ShowCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir, "-n", "production"})
	must.Eq(t, 0, exit)
}

func TestShowCommand_conflictingViews(t *testing.T) {
	dir := t.TempDir()
	must.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"),
		[]byte("key: value\n"), 0o644))

	cmd := &ShowCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir, "--only-secure", "--only-insecure"})
	must.Eq(t, 1, exit)
}

func TestShowCommand_decodeFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	must.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"),
		[]byte("key: [unclosed\n"), 0o644))
	must.NoError(t, os.WriteFile(filepath.Join(dir, "good.yml"),
		[]byte("key: value\n"), 0o644))

	cmd := &ShowCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir})
	must.Eq(t, 1, exit)
}

func TestFilesCommand_listsResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	must.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"), []byte("a: 1\n"), 0o644))
	must.NoError(t, os.WriteFile(filepath.Join(dir, "settings-blue.yml"), []byte("a: 2\n"), 0o644))

	cmd := &FilesCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir, "-n", "blue"})
	must.Eq(t, 0, exit)
}

func TestSecureCommand_roundTrip(t *testing.T) {
	dir := t.TempDir()
	pubPath, privPath := writeKeyPair(t, dir)

	path := filepath.Join(dir, "settings.yml")
	content := "# credentials\napi_key: super-secret\nregion: us-east-1\n"
	must.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	secure := &SecureCommand{baseCommand: testBase(t)}
	exit := secure.Run([]string{"-f", path, "--encryption-key", pubPath})
	must.Eq(t, 0, exit)

	secured, err := os.ReadFile(path)
	must.NoError(t, err)
	must.StrContains(t, string(secured), "_secure_api_key: ENC[")
	must.StrContains(t, string(secured), "# credentials")

	// A second run over the already secured file changes nothing.
	again := &SecureCommand{baseCommand: testBase(t)}
	exit = again.Run([]string{"-f", path, "--encryption-key", pubPath})
	must.Eq(t, 0, exit)

	unchanged, err := os.ReadFile(path)
	must.NoError(t, err)
	must.Eq(t, string(secured), string(unchanged))

	// The secured file still resolves with the private key.
	show := &ShowCommand{baseCommand: testBase(t)}
	exit = show.Run([]string{"-f", path, "--decryption-key", privPath, "--flatten"})
	must.Eq(t, 0, exit)
}

func TestSecureCommand_noKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	must.NoError(t, os.WriteFile(path, []byte("api_key: secret\n"), 0o644))

	cmd := &SecureCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", path})
	must.Eq(t, 1, exit)
}

func TestSignAndVerifyCommands(t *testing.T) {
	dir := t.TempDir()
	_, privPath := writeKeyPair(t, dir)

	path := filepath.Join(dir, "settings.yml")
	must.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o644))

	sign := &SignCommand{baseCommand: testBase(t)}
	exit := sign.Run([]string{"-f", path, "--decryption-key", privPath})
	must.Eq(t, 0, exit)

	_, err := os.Stat(signer.SidecarPath(path))
	must.NoError(t, err)

	verify := &VerifyCommand{baseCommand: testBase(t)}
	exit = verify.Run([]string{"-f", path, "--decryption-key", privPath})
	must.Eq(t, 0, exit)

	// Tampering flips verification to a non-zero exit.
	must.NoError(t, os.WriteFile(path, []byte("key: tampered\n"), 0o644))
	verify = &VerifyCommand{baseCommand: testBase(t)}
	exit = verify.Run([]string{"-f", path, "--decryption-key", privPath})
	must.Eq(t, 1, exit)
}

func TestShowCommand_fixture(t *testing.T) {
	dir := testfixture.Clone(t, "simple_settings")

	cmd := &ShowCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir, "-n", "production"})
	must.Eq(t, 0, exit)
}

func TestSecureCommand_fixture(t *testing.T) {
	dir := testfixture.Clone(t, "simple_settings")
	pubPath, _ := writeKeyPair(t, t.TempDir())

	cmd := &SecureCommand{baseCommand: testBase(t)}
	exit := cmd.Run([]string{"-f", dir, "--encryption-key", pubPath})
	must.Eq(t, 0, exit)

	secured, err := os.ReadFile(filepath.Join(dir, "settings.yml"))
	must.NoError(t, err)
	must.StrContains(t, string(secured), "_secure_api_key: ENC[")
	must.StrContains(t, string(secured), "# Base settings shared by every environment.")
}

func TestVersionCommand(t *testing.T) {
	cmd := &VersionCommand{baseCommand: testBase(t)}
	must.Eq(t, 0, cmd.Run(nil))
}

func TestCommands_allRegistered(t *testing.T) {
	_, commands := Commands(context.Background())
	for _, name := range []string{"show", "files", "secure", "sign", "verify", "version"} {
		factory, ok := commands[name]
		must.True(t, ok)

		cmd, err := factory()
		must.NoError(t, err)
		must.True(t, cmd.Synopsis() != "")
	}
}

func TestCommandHelp_namesUsage(t *testing.T) {
	base := testBase(t)
	cmds := []interface{ Help() string }{
		&ShowCommand{baseCommand: base},
		&FilesCommand{baseCommand: base},
		&SecureCommand{baseCommand: base},
		&SignCommand{baseCommand: base},
		&VerifyCommand{baseCommand: base},
	}
	for _, cmd := range cmds {
		help := cmd.Help()
		must.True(t, strings.Contains(help, "chamber"))
	}
}
