// Package configpaths locates campanel configuration files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "campanel"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ConfigCandidatePaths returns the JSON, YAML and TOML files to load, in
// priority order. An explicit userCfg is the only candidate for its format;
// otherwise the working directory is searched before the system directory.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".yaml", ".yml":
			return nil, []string{userCfg}, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		default:
			return []string{userCfg}, nil, nil
		}
	}

	dirs := []string{"."}
	if dir, err := SystemConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		base := filepath.Join(dir, appName)
		if dir != "." {
			base = filepath.Join(dir, "config")
		}
		jsonPaths = append(jsonPaths, base+".json")
		yamlPaths = append(yamlPaths, base+".yaml", base+".yml")
		tomlPaths = append(tomlPaths, base+".toml")
	}
	return jsonPaths, yamlPaths, tomlPaths
}
