//go:build windows

package configpaths

// SystemConfigDir returns the directory searched after the working directory.
func SystemConfigDir() (string, error) {
	return DefaultConfigDir()
}
