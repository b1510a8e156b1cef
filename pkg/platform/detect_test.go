package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, candidate := range available {
			if candidate == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestOSGroupsEverythingElseAsLinux(t *testing.T) {
	d := NewDetector()
	got := d.OS()

	switch runtime.GOOS {
	case "windows", "darwin":
		assert.Equal(t, runtime.GOOS, got)
	default:
		assert.Equal(t, Linux, got)
	}
}

func TestAvailableCompilersOnUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-only expectations")
	}

	d := &Detector{LookPath: fakeLookPath()}
	assert.Equal(t, []string{"auto"}, d.AvailableCompilers())

	d = &Detector{LookPath: fakeLookPath("clang", "zig")}
	assert.Equal(t, []string{"auto", "clang", "zig"}, d.AvailableCompilers())

	assert.Equal(t, "auto", d.DefaultCompiler())
}

func TestToolVersionProbe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script probe")
	}

	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-python")
	script := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo 'Nuitka 2.4.8'; exit 0; fi\nexit 1\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	d := NewDetector()
	version, err := d.ToolVersion([]string{tool})
	require.NoError(t, err)
	assert.Equal(t, "Nuitka 2.4.8", version)
	assert.True(t, d.ToolAvailable([]string{tool}))
}

func TestToolVersionMissingTool(t *testing.T) {
	d := NewDetector()

	_, err := d.ToolVersion([]string{"/no/such/interpreter"})
	assert.Error(t, err)
	assert.False(t, d.ToolAvailable([]string{"/no/such/interpreter"}))

	_, err = d.ToolVersion(nil)
	assert.Error(t, err)
}

func TestToolVersionWithSubcommandArgs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script probe")
	}

	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-python")
	script := "#!/bin/sh\nif [ \"$1\" = \"-m\" ] && [ \"$2\" = \"nuitka\" ] && [ \"$3\" = \"--version\" ]; then echo '2.4.8'; exit 0; fi\nexit 1\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	d := NewDetector()
	version, err := d.ToolVersion([]string{tool, "-m", "nuitka"})
	require.NoError(t, err)
	assert.Equal(t, "2.4.8", version)
}
