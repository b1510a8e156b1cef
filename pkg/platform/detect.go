// Package platform answers environment questions for the build engine:
// which OS we are on, which C compilers are usable, and whether the
// target compiler tool is installed at all.
package platform

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// probeTimeout bounds the version probe of the target tool.
const probeTimeout = 5 * time.Second

// OS names as the schema's platform namespaces spell them.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Detector inspects the host environment. LookPath is injectable so
// tests do not depend on the machine's PATH.
type Detector struct {
	LookPath func(string) (string, error)
}

// NewDetector creates a detector backed by the real PATH.
func NewDetector() *Detector {
	return &Detector{LookPath: exec.LookPath}
}

// OS returns the host platform name: windows, darwin, or linux. Every
// other GOOS reports as linux, which is how the schema's platform
// constraints group them.
func (d *Detector) OS() string {
	switch runtime.GOOS {
	case Windows:
		return Windows
	case Darwin:
		return Darwin
	default:
		return Linux
	}
}

// AvailableCompilers lists the C compilers usable on this host, always
// starting with "auto".
func (d *Detector) AvailableCompilers() []string {
	compilers := []string{"auto"}

	if d.OS() == Windows {
		if _, err := d.LookPath("cl"); err == nil {
			compilers = append(compilers, "msvc")
		}
		// MinGW64 and clang ship with Nuitka's download support on
		// Windows, so they are always offered.
		compilers = append(compilers, "mingw64", "clang")
	} else if _, err := d.LookPath("clang"); err == nil {
		compilers = append(compilers, "clang")
	}

	if _, err := d.LookPath("zig"); err == nil {
		compilers = append(compilers, "zig")
	}

	return compilers
}

// DefaultCompiler returns the recommended compiler choice for this host.
func (d *Detector) DefaultCompiler() string {
	if d.OS() == Windows {
		if _, err := d.LookPath("cl"); err == nil {
			return "msvc"
		}
		return "mingw64"
	}
	return "auto"
}

// ToolAvailable reports whether the target tool responds to a version
// probe. The probe is bounded; a hung interpreter reads as unavailable.
func (d *Detector) ToolAvailable(toolCommand []string) bool {
	_, err := d.toolVersion(toolCommand)
	return err == nil
}

// ToolVersion returns the target tool's version string, or "" with an
// error when the tool is missing or unresponsive.
func (d *Detector) ToolVersion(toolCommand []string) (string, error) {
	return d.toolVersion(toolCommand)
}

func (d *Detector) toolVersion(toolCommand []string) (string, error) {
	if len(toolCommand) == 0 {
		return "", exec.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	args := append(append([]string{}, toolCommand[1:]...), "--version")
	cmd := exec.CommandContext(ctx, toolCommand[0], args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
