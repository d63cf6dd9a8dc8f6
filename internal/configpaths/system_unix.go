//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// SystemConfigDir returns the directory searched after the working directory.
// On Unix, root services use /etc/campanel.
func SystemConfigDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "etc", appName), nil
	}
	return DefaultConfigDir()
}
