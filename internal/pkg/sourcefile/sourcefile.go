// Package sourcefile models a single settings file: lazy parsing through the
// template renderer and YAML decoder into a settings tree, in-place securing
// of plaintext values, and signature management.
package sourcefile

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fr2019/chamber/internal/pkg/cipher"
	"github.com/fr2019/chamber/internal/pkg/helper/filesystem"
	"github.com/fr2019/chamber/internal/pkg/logging"
	"github.com/fr2019/chamber/internal/pkg/renderer"
	"github.com/fr2019/chamber/internal/pkg/signer"
	"github.com/fr2019/chamber/sdk/settings"
)

// DecodeError is a template or YAML failure in one file. It is fatal for
// that file only; resolution of the remaining files continues.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SecureWarning records a plaintext leaf Secure could not rewrite.
type SecureWarning struct {
	Key string
	Err error
}

func (w SecureWarning) String() string {
	return fmt.Sprintf("%s: %v", w.Key, w.Err)
}

// SecureReport summarizes one Secure run over a file.
type SecureReport struct {
	// Secured lists the dotted key-paths whose values were encrypted.
	Secured []string

	// Warnings lists the leaves that were skipped.
	Warnings []SecureWarning

	// Changed is true when the file bytes were rewritten.
	Changed bool
}

// Config is the dependency set for a SourceFile.
type Config struct {
	Path         string
	Fs           afero.Afero
	Logger       logging.Logger
	SecureMarker string

	// Decrypter recovers secure values at parse time. Optional.
	Decrypter settings.Decrypter

	// Encrypter seals plaintext values during Secure. Optional; Secure
	// fails without it.
	Encrypter cipher.Encrypter

	// Signer backs Sign and Verify. Optional; both fail without it.
	Signer *signer.Signer

	// StrictTemplates makes references to missing template data fatal
	// instead of rendering empty.
	StrictTemplates bool
}

// SourceFile is one candidate settings file. A missing file behaves as an
// empty one. Parse results are cached; Secure invalidates the cache.
type SourceFile struct {
	cfg Config

	parsed   *settings.Tree
	warnings []settings.Warning
	hasParse bool
}

// New builds a SourceFile for the path in cfg.
func New(cfg Config) *SourceFile {
	if cfg.SecureMarker == "" {
		cfg.SecureMarker = settings.DefaultSecureMarker
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &SourceFile{cfg: cfg}
}

// Path returns the file's path.
func (s *SourceFile) Path() string { return s.cfg.Path }

// Parse reads, template-expands and decodes the file into a settings tree.
// tmplCtx is the data visible to the file's templates, normally the settings
// merged from earlier files. The result is cached; later calls return it
// regardless of tmplCtx.
func (s *SourceFile) Parse(tmplCtx map[string]any) (*settings.Tree, []settings.Warning, error) {
	if s.hasParse {
		return s.parsed, s.warnings, nil
	}

	raw, err := filesystem.ReadFileOrEmpty(s.cfg.Fs, s.cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		s.cfg.Logger.Debug(fmt.Sprintf("settings file %s does not exist, treating as empty", s.cfg.Path))
	}

	r := &renderer.Renderer{Strict: s.cfg.StrictTemplates, Fs: s.cfg.Fs}
	rendered, err := r.Render(s.cfg.Path, string(raw), renderer.TemplateData(tmplCtx))
	if err != nil {
		return nil, nil, &DecodeError{Path: s.cfg.Path, Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(rendered), &doc); err != nil {
		return nil, nil, &DecodeError{Path: s.cfg.Path, Err: err}
	}

	tree, warnings := settings.Parse(&doc, settings.ParseOptions{
		SecureMarker: s.cfg.SecureMarker,
		Decrypter:    s.cfg.Decrypter,
	})
	for _, w := range warnings {
		s.cfg.Logger.Warning(fmt.Sprintf("%s: value %s left encrypted", s.cfg.Path, w.String()))
	}

	s.parsed, s.warnings, s.hasParse = tree, warnings, true
	return tree, warnings, nil
}

// Secure rewrites the file so every plaintext scalar value is stored as an
// encryption envelope under a marker-prefixed key. Only the matched entries
// change; all surrounding bytes, other keys, comments and blank lines
// included, are preserved. Running it again over the result is a byte-level
// no-op. Leaves whose textual location cannot be found, or is ambiguous,
// are skipped and reported in the returned warnings.
func (s *SourceFile) Secure() (*SecureReport, error) {
	if s.cfg.Encrypter == nil {
		return nil, cipher.ErrNoEncryptionKey
	}

	tree, _, err := s.Parse(nil)
	if err != nil {
		return nil, err
	}

	raw, err := filesystem.ReadFileOrEmpty(s.cfg.Fs, s.cfg.Path)
	if err != nil {
		return nil, err
	}

	report := &SecureReport{}
	content := string(raw)
	for _, leaf := range tree.Flatten() {
		value, ok := securableValue(leaf)
		if !ok {
			continue
		}

		envelope, err := s.cfg.Encrypter.Encrypt(value)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", leaf.Name(), err)
		}

		key := leaf.Path[len(leaf.Path)-1]
		next, err := locateAndReplace(content, key, s.cfg.SecureMarker, value, envelope)
		if err != nil {
			report.Warnings = append(report.Warnings, SecureWarning{Key: leaf.Name(), Err: err})
			s.cfg.Logger.Warning(fmt.Sprintf("%s: cannot secure %s: %v", s.cfg.Path, leaf.Name(), err))
			continue
		}
		content = next
		report.Secured = append(report.Secured, leaf.Name())
	}

	if content != string(raw) {
		if err := filesystem.OverwriteFileAtomic(s.cfg.Fs, s.cfg.Path, []byte(content), s.cfg.Logger); err != nil {
			return nil, err
		}
		report.Changed = true
		s.invalidate()
	}
	return report, nil
}

// securableValue decides whether a leaf is a securing candidate and returns
// the exact string the rewriter must find in the file. Candidates are scalar
// leaves whose at-rest value is not already an envelope; sequences are whole
// values the rewriter does not address.
func securableValue(leaf settings.Leaf) (string, bool) {
	if leaf.Encrypted {
		return "", false
	}
	switch leaf.Value.(type) {
	case string, int, int64, uint64, float64, bool:
	default:
		return "", false
	}
	value := fmt.Sprint(leaf.Value)
	if value == "" || settings.IsEnvelope(value) {
		return "", false
	}
	return value, true
}

// Sign writes the signature sidecar for the file's current bytes.
func (s *SourceFile) Sign() error {
	if s.cfg.Signer == nil {
		return signer.ErrNoSigningKey
	}
	return s.cfg.Signer.Sign(s.cfg.Path)
}

// Verify checks the file's current bytes against its signature sidecar.
func (s *SourceFile) Verify() (signer.Result, error) {
	if s.cfg.Signer == nil {
		return signer.Mismatch, signer.ErrNoVerificationKey
	}
	return s.cfg.Signer.Verify(s.cfg.Path)
}

func (s *SourceFile) invalidate() {
	s.parsed, s.warnings, s.hasParse = nil, nil, false
}

// IsNamespaced reports whether name carries a namespace token, that is a
// `-<token>` suffix on its base name before the extension.
func IsNamespaced(name string) bool {
	_, token := SplitNamespace(name)
	return token != ""
}

// HasNamespace reports whether name carries namespace as its token, that is
// whether its stem ends with `-<namespace>`. The namespace may itself
// contain dashes, so matching is by suffix rather than by tokenizing the
// name.
func HasNamespace(name, namespace string) bool {
	if namespace == "" {
		return false
	}
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return len(base) > len(namespace)+1 && strings.HasSuffix(base, "-"+namespace)
}

// SplitNamespace returns the stem and namespace token of a file name, taking
// the token after the stem's last dash. A name without a `-<token>` suffix
// has an empty token. Namespaces containing dashes split wrong here; match
// those with HasNamespace.
func SplitNamespace(name string) (stem, token string) {
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	i := strings.LastIndexByte(base, '-')
	if i < 0 || i == len(base)-1 {
		return base, ""
	}
	return base[:i], base[i+1:]
}
