// Package config loads ofxsheet settings and resolves user-supplied paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// appDir is the directory under the user's config home holding config.yaml.
const appDir = "ofxsheet"

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDir returns $HOME/.config/ofxsheet.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}
