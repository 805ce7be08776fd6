package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// CLI provides a clean interface for running commands in tests.
// It manages a temp working directory and an isolated environment so
// a developer's real global config never leaks in.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{"HOME": filepath.Join(dir, "home")},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr,
// and exit code. Args should not include "protmass" or "--cwd" - those
// are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	r.t.Helper()

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"protmass", "--cwd", r.Dir}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}
