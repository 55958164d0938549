// Package testfixture locates and clones the on-disk settings fixtures used
// by tests across the repository.
package testfixture

import (
	"os/exec"
	"path"
	"runtime"
	"strings"
	"testing"

	"github.com/shoenig/test/must"
)

var RelFixtureDir = "fixtures"

// AbsPath returns the absolute path to a fixture inside the fixture dir.
func AbsPath(t *testing.T, fixtureName string) string {
	t.Helper()
	return path.Join(repoRoot(t), RelFixtureDir, fixtureName)
}

// Clone creates a test TempDir, copies the given fixture into it, and returns
// the absolute path to the copy. Tests that rewrite settings files clone
// first so the shared fixtures stay pristine.
func Clone(t *testing.T, fPath string) (dest string) {
	t.Helper()
	parts := strings.Split(fPath, "/")

	td := t.TempDir()
	p := AbsPath(t, fPath)
	cmd := exec.Command("cp", "-R", p, td)
	out, err := cmd.CombinedOutput()
	must.NoError(t, err, must.Sprintf("output: %s\n err: %v", out, err))
	return path.Join(td, parts[len(parts)-1])
}

// repoRoot locates the repository root relative to this source file, so
// fixtures resolve no matter which package's tests are running.
func repoRoot(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	must.True(t, ok)
	// internal/pkg/testfixture/testfixture.go -> repo root
	return path.Join(path.Dir(file), "..", "..", "..")
}
