package assets

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed category/*.yaml
var assetsFS embed.FS

// Load reads an asset from disk. A relative path under assets/ that is missing
// on disk falls back to the embedded copy. Any other missing path reports the
// disk error.
func Load(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if err == nil {
		return data, nil
	}
	name, ok := embeddedName(p)
	if !ok {
		return nil, err
	}
	if data, embErr := assetsFS.ReadFile(name); embErr == nil {
		return data, nil
	}
	return nil, err
}

// LoadEmbedded reads an asset from the embedded copy only. The assets/ prefix
// is optional.
func LoadEmbedded(p string) ([]byte, error) {
	name := path.Clean(filepath.ToSlash(p))
	name = strings.TrimPrefix(name, "assets/")
	return assetsFS.ReadFile(name)
}

// embeddedName maps a relative assets/... path to its name in the embedded
// tree.
func embeddedName(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) {
		return "", false
	}
	clean := path.Clean(filepath.ToSlash(p))
	return strings.CutPrefix(clean, "assets/")
}
