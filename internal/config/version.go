// internal/config/version.go
//
// Best-effort version discovery from the project manifest.
//
// Context
// -------
// Waypost stamps its release version in `project.yaml` at the repo root
// (key `project.version`).  The resolver climbs parent directories from its
// starting point until the manifest appears, so the binary works from any
// sub-directory during development.  Every failure class (missing file,
// parse error, missing key, blank value) maps to the "0.0.0" fallback:
// version display is cosmetic, and discovery must never abort startup.
// Each fallback logs at debug, so a permissions problem stays
// distinguishable from plain absence without becoming fatal.

package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	manifestName    = "project.yaml"
	fallbackVersion = "0.0.0"
)

// projectVersion reads `project.version` from the nearest manifest at or
// above root.  It always returns a usable version string, never an error.
func projectVersion(root string) string {
	path, ok := findManifest(root)
	if !ok {
		zap.S().Debugw("version manifest not found", "start", root, "fallback", fallbackVersion)
		return fallbackVersion
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Debugw("version manifest unreadable", "file", path, "err", err)
		return fallbackVersion
	}
	if v := k.String("project.version"); v != "" {
		return v
	}
	zap.S().Debugw("version manifest lacks project.version", "file", path)
	return fallbackVersion
}

// findManifest climbs from dir to the filesystem root looking for the
// manifest, then falls back to the executable heuristic for production
// layouts where the binary lives under <root>/bin.
func findManifest(dir string) (string, bool) {
	for {
		p := filepath.Join(dir, manifestName)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		p := filepath.Join(filepath.Dir(filepath.Dir(exe)), manifestName)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}
