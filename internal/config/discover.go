package config

import (
	"os"
	"path/filepath"
)

// FileName is the config file looked up by FindConfigFile.
const FileName = "bsplit.yaml"

// getwd is swapped in tests.
var getwd = os.Getwd

// FindConfigFile walks up from the working directory until it finds a
// bsplit.yaml. It returns "" when none exists.
func FindConfigFile() string {
	cwd, err := getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(cwd, FileName)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break // reached filesystem root
		}
		cwd = parent
	}
	return "" // not found
}
