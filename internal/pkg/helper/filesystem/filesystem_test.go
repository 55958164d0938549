package filesystem

import (
	"testing"

	"github.com/shoenig/test/must"
	"github.com/spf13/afero"

	"github.com/fr2019/chamber/internal/pkg/logging"
)

func testFs() afero.Afero {
	return afero.Afero{Fs: afero.NewMemMapFs()}
}

func TestReadFileOrEmpty(t *testing.T) {
	afs := testFs()
	must.NoError(t, afs.WriteFile("/data/settings.yml", []byte("a: 1\n"), 0o644))

	data, err := ReadFileOrEmpty(afs, "/data/settings.yml")
	must.NoError(t, err)
	must.Eq(t, "a: 1\n", string(data))

	data, err = ReadFileOrEmpty(afs, "/data/missing.yml")
	must.NoError(t, err)
	must.Nil(t, data)
}

func TestOverwriteFileAtomic(t *testing.T) {
	afs := testFs()
	logger := logging.NewTestLogger(t.Log)
	must.NoError(t, afs.WriteFile("/data/settings.yml", []byte("old"), 0o600))

	must.NoError(t, OverwriteFileAtomic(afs, "/data/settings.yml", []byte("new"), logger))

	data, err := afs.ReadFile("/data/settings.yml")
	must.NoError(t, err)
	must.Eq(t, "new", string(data))

	// No temporary files left behind.
	entries, err := afs.ReadDir("/data")
	must.NoError(t, err)
	must.Len(t, 1, entries)
}

func TestOverwriteFileAtomic_CreatesNewFile(t *testing.T) {
	afs := testFs()
	logger := logging.NewTestLogger(t.Log)
	must.NoError(t, afs.MkdirAll("/data", 0o755))

	must.NoError(t, OverwriteFileAtomic(afs, "/data/fresh.yml", []byte("content"), logger))

	data, err := afs.ReadFile("/data/fresh.yml")
	must.NoError(t, err)
	must.Eq(t, "content", string(data))
}

func TestOverwriteFileAtomic_CreatesMissingDir(t *testing.T) {
	afs := testFs()
	logger := logging.NewTestLogger(t.Log)

	must.NoError(t, OverwriteFileAtomic(afs, "/data/nested/settings.yml", []byte("content"), logger))

	data, err := afs.ReadFile("/data/nested/settings.yml")
	must.NoError(t, err)
	must.Eq(t, "content", string(data))
}

func TestMaybeCreateDestinationDir(t *testing.T) {
	afs := testFs()

	must.NoError(t, MaybeCreateDestinationDir(afs, "/a/b/c"))
	ok, err := afs.DirExists("/a/b/c")
	must.NoError(t, err)
	must.True(t, ok)

	// Existing dir is fine unless ErrOnExists is set.
	must.NoError(t, MaybeCreateDestinationDir(afs, "/a/b/c"))
	must.Error(t, MaybeCreateDestinationDir(afs, "/a/b/c", ErrOnExists()))
}
