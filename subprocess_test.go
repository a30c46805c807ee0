package cspc

import (
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingExitError runs a real child process that exits non-zero, so
// we get a genuine *exec.ExitError rather than a hand-built one.
func failingExitError(t *testing.T, code int) error {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("exit-code test relies on a POSIX shell")
	}
	cmd := exec.Command("sh", "-c", "exit "+strconv.Itoa(code))
	err := cmd.Run()
	require.Error(t, err)
	return err
}

func TestWrapSubprocessCarriesExitCode(t *testing.T) {
	exitErr := failingExitError(t, 7)

	wrapped := WrapSubprocess(exitErr, "cc exited")

	var subErr *SubprocessError
	require.True(t, errors.As(wrapped, &subErr))
	assert.Equal(t, 7, subErr.ExitCode)
}

func TestWrapSubprocessDefaultsToOneForNonExitErrors(t *testing.T) {
	wrapped := WrapSubprocess(errors.New("no such file"), "cc failed")

	var subErr *SubprocessError
	require.True(t, errors.As(wrapped, &subErr))
	assert.Equal(t, 1, subErr.ExitCode)
}

func TestToolchainRunPropagatesCompilerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exit-code test relies on a POSIX shell")
	}
	tc := &Toolchain{CC: "sh"}
	err := tc.run("sh", "-c", "exit 3")

	var subErr *SubprocessError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, 3, subErr.ExitCode)
}
