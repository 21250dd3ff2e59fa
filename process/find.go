package process

import (
	"os/exec"
	"strings"

	"github.com/nanovms/hvctl/vmerr"
)

// Find returns the path of the first of names found on PATH. Names are
// tried in order, so "powershell", "powershell.exe" covers both native
// Windows and WSL.
func Find(names ...string) (string, error) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", vmerr.Newf(vmerr.LaunchFailure, "none of %s found on PATH", strings.Join(names, ", "))
}
