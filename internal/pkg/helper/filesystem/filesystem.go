// Package filesystem is the byte-level boundary between the settings engine
// and disk. Everything goes through an injected afero filesystem so tests can
// run against an in-memory one.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/fr2019/chamber/internal/pkg/logging"
)

// defaultFileMode is used for files written where no previous mode exists.
const defaultFileMode fs.FileMode = 0o644

// ReadFileOrEmpty reads the file at path, treating a missing file as empty
// content rather than an error. Any other read failure is returned verbatim.
func ReadFileOrEmpty(afs afero.Afero, path string) ([]byte, error) {
	data, err := afs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// OverwriteFileAtomic replaces the file at path with content by writing a
// temporary file in the same directory and renaming it into place. A missing
// destination directory is created first. An existing file keeps its
// permission bits; a new one gets the default mode. The original is
// untouched when anything before the rename fails.
func OverwriteFileAtomic(afs afero.Afero, path string, content []byte, logger logging.Logger) (err error) {
	mode := defaultFileMode
	if info, statErr := afs.Stat(path); statErr == nil {
		mode = info.Mode()
	}

	dir := filepath.Dir(path)
	if err = MaybeCreateDestinationDir(afs, dir); err != nil {
		logger.Debug(fmt.Sprintf("error creating destination directory: %s", err))
		return err
	}
	tmp, err := afs.TempFile(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		logger.Debug(fmt.Sprintf("error creating temporary file: %s", err))
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			if removeErr := afs.Remove(tmpName); removeErr != nil {
				logger.Debug(fmt.Sprintf("error removing temporary file: %s", removeErr))
			}
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		logger.Debug(fmt.Sprintf("error writing temporary file: %s", err))
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		logger.Debug(fmt.Sprintf("error closing temporary file: %s", err))
		return err
	}
	if err = afs.Chmod(tmpName, mode); err != nil {
		logger.Debug(fmt.Sprintf("error setting file permissions: %s", err))
		return err
	}
	if err = afs.Rename(tmpName, path); err != nil {
		logger.Debug(fmt.Sprintf("error renaming temporary file into place: %s", err))
		return err
	}
	return nil
}

// MaybeCreateDestinationDir creates path and any missing parents unless it
// already exists.
func MaybeCreateDestinationDir(afs afero.Afero, path string, opts ...CreateOption) error {
	co := &createOpts{
		perms: 0o755,
	}

	for _, opt := range opts {
		opt(co)
	}

	_, err := afs.Stat(path)

	if err == nil && co.errOnExists {
		return &fs.PathError{
			Op:   "MaybeCreateDestinationDir",
			Path: path,
			Err:  fs.ErrExist,
		}
	}
	// If the directory doesn't exist, create it.
	if errors.Is(err, fs.ErrNotExist) {
		err := afs.MkdirAll(path, co.perms)
		if err != nil {
			return err
		}
	}

	return nil
}

func WithFileMode(m fs.FileMode) CreateOption {
	return func(c *createOpts) {
		c.perms = m
	}
}

func ErrOnExists() CreateOption {
	return func(c *createOpts) {
		c.errOnExists = true
	}
}

type CreateOption func(c *createOpts)

type createOpts struct {
	errOnExists bool
	perms       fs.FileMode
}
