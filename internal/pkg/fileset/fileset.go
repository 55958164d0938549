// Package fileset discovers the settings files behind a resolution request
// and folds them into one merged settings tree. File order is what gives
// namespaces their precedence, so discovery and ordering are deterministic
// and resolved once at construction.
package fileset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/fr2019/chamber/internal/pkg/cipher"
	"github.com/fr2019/chamber/internal/pkg/errors"
	"github.com/fr2019/chamber/internal/pkg/logging"
	"github.com/fr2019/chamber/internal/pkg/signer"
	"github.com/fr2019/chamber/internal/pkg/sourcefile"
	"github.com/fr2019/chamber/sdk/settings"
)

// defaultExtensions are the file extensions a directory pattern expands to,
// in the order their matches are considered.
var defaultExtensions = []string{".yml", ".yml.tpl"}

// Config is the dependency set for a FileSet.
type Config struct {
	// Patterns name candidate files: literal paths, directories, or globs.
	// Relative patterns are resolved against BasePath.
	Patterns []string

	// BasePath anchors relative patterns and relativizes report keys.
	BasePath string

	// Namespaces select and order the namespaced files.
	Namespaces settings.NamespaceSet

	Fs           afero.Afero
	Logger       logging.Logger
	SecureMarker string

	Decrypter settings.Decrypter
	Encrypter cipher.Encrypter
	Signer    *signer.Signer

	// StrictTemplates makes references to missing template data fatal.
	StrictTemplates bool
}

// MergeCallback observes the fold: it is invoked after each file's settings
// are merged, with the file's path and the merged tree so far.
type MergeCallback func(path string, merged *settings.Tree)

// Report carries the per-file outcomes of a ToTree run.
type Report struct {
	// Files is the resolution order, keyed the way the other maps are.
	Files []string

	// Warnings holds formatted per-leaf parse warnings, path-prefixed.
	Warnings []string

	// err accumulates isolated per-file decode failures.
	err *multierror.Error
}

// Err returns the accumulated per-file failures, nil when every file
// decoded.
func (r *Report) Err() error {
	return r.err.ErrorOrNil()
}

// FileSet is an ordered set of settings files. The order is fixed at
// construction; all operations walk it front to back.
type FileSet struct {
	cfg   Config
	paths []string
}

// New discovers and orders the files matching cfg. Non-namespaced files come
// first in discovery order; then, namespace by namespace in the set's order,
// the files carrying that exact namespace token. Namespaced files whose
// token is not in the set are dropped. Directory patterns expand to the
// default extensions; literal and glob patterns are taken as-is, which is
// how non-default extensions get in. Duplicates keep their first position.
func New(cfg Config) (*FileSet, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Fs.Fs == nil {
		cfg.Fs = afero.Afero{Fs: afero.NewOsFs()}
	}

	candidates, err := expandPatterns(cfg)
	if err != nil {
		return nil, err
	}
	return &FileSet{cfg: cfg, paths: orderCandidates(candidates, cfg.Namespaces)}, nil
}

func expandPatterns(cfg Config) ([]string, error) {
	var candidates []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			candidates = append(candidates, path)
		}
	}

	for _, pattern := range cfg.Patterns {
		if !filepath.IsAbs(pattern) && cfg.BasePath != "" {
			pattern = filepath.Join(cfg.BasePath, pattern)
		}

		if isDir, _ := cfg.Fs.IsDir(pattern); isDir {
			for _, ext := range defaultExtensions {
				matches, err := afero.Glob(cfg.Fs.Fs, filepath.Join(pattern, "*"+ext))
				if err != nil {
					return nil, fmt.Errorf("expand pattern %s: %w", pattern, err)
				}
				for _, m := range matches {
					add(m)
				}
			}
			continue
		}

		if strings.ContainsAny(pattern, "*?[") {
			matches, err := afero.Glob(cfg.Fs.Fs, pattern)
			if err != nil {
				return nil, fmt.Errorf("expand pattern %s: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		// A literal path is a candidate even when the file does not exist
		// yet; it parses as empty.
		add(pattern)
	}
	return candidates, nil
}

func orderCandidates(candidates []string, namespaces settings.NamespaceSet) []string {
	var ordered []string
	taken := map[string]bool{}
	take := func(path string) {
		if !taken[path] {
			taken[path] = true
			ordered = append(ordered, path)
		}
	}

	for _, path := range candidates {
		if !sourcefile.IsNamespaced(filepath.Base(path)) {
			take(path)
		}
	}
	// A file whose token matches more than one namespace keeps its first
	// position.
	namespaces.Each(func(name string) {
		for _, path := range candidates {
			if sourcefile.HasNamespace(filepath.Base(path), name) {
				take(path)
			}
		}
	})
	return ordered
}

// Paths returns the files in resolution order.
func (f *FileSet) Paths() []string {
	out := make([]string, len(f.paths))
	copy(out, f.paths)
	return out
}

// Len returns the number of files in the set.
func (f *FileSet) Len() int { return len(f.paths) }

// relPath relativizes path against the basepath for report keys.
func (f *FileSet) relPath(path string) string {
	if f.cfg.BasePath == "" {
		return path
	}
	rel, err := filepath.Rel(f.cfg.BasePath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (f *FileSet) source(path string) *sourcefile.SourceFile {
	return sourcefile.New(sourcefile.Config{
		Path:            path,
		Fs:              f.cfg.Fs,
		Logger:          f.cfg.Logger,
		SecureMarker:    f.cfg.SecureMarker,
		Decrypter:       f.cfg.Decrypter,
		Encrypter:       f.cfg.Encrypter,
		Signer:          f.cfg.Signer,
		StrictTemplates: f.cfg.StrictTemplates,
	})
}

// ToTree parses every file in resolution order and folds the trees together
// left to right, later files winning. Each file's templates see the settings
// merged so far, so a later file can reference values from an earlier one.
// onMerge, when non-nil, observes each fold step. A file that fails to
// decode is skipped and recorded in the report; I/O failures abort.
func (f *FileSet) ToTree(onMerge MergeCallback) (*settings.Tree, *Report, error) {
	merged := settings.NewTree()
	report := &Report{}

	for _, path := range f.paths {
		rel := f.relPath(path)
		report.Files = append(report.Files, rel)

		tree, warnings, err := f.source(path).Parse(merged.AsMap())
		if err != nil {
			decodeErr := &sourcefile.DecodeError{}
			if errors.As(err, &decodeErr) {
				f.cfg.Logger.Error(fmt.Sprintf("skipping %s: %v", rel, err))
				report.err = multierror.Append(report.err, err)
				continue
			}
			return nil, nil, err
		}
		for _, w := range warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", rel, w.String()))
		}

		merged = merged.Merge(tree)
		if onMerge != nil {
			onMerge(rel, merged)
		}
	}
	return merged, report, nil
}

// SecureAll rewrites every file in resolution order, encrypting plaintext
// values in place. Results are keyed by basepath-relative path. Files that
// fail to decode or write are recorded in the returned error; the rest are
// still secured.
func (f *FileSet) SecureAll() (map[string]*sourcefile.SecureReport, error) {
	reports := make(map[string]*sourcefile.SecureReport)
	var merr *multierror.Error

	for _, path := range f.paths {
		rel := f.relPath(path)
		report, err := f.source(path).Secure()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", rel, err))
			continue
		}
		reports[rel] = report
	}
	return reports, merr.ErrorOrNil()
}

// SignAll writes signature sidecars for every file in resolution order.
func (f *FileSet) SignAll() error {
	var merr *multierror.Error
	for _, path := range f.paths {
		if err := f.source(path).Sign(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.relPath(path), err))
		}
	}
	return merr.ErrorOrNil()
}

// VerifyAll checks every file's signature in resolution order. Results are
// keyed by basepath-relative path; mismatches are results, not errors.
func (f *FileSet) VerifyAll() (map[string]signer.Result, error) {
	results := make(map[string]signer.Result)
	var merr *multierror.Error

	for _, path := range f.paths {
		rel := f.relPath(path)
		result, err := f.source(path).Verify()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", rel, err))
			continue
		}
		results[rel] = result
	}
	return results, merr.ErrorOrNil()
}
