package pkgjson

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wpnuxt/wpnuxi/internal/jsontree"
)

// FileName is the npm package manifest.
const FileName = "package.json"

// Manifest is a parsed package.json whose untouched keys round-trip in order.
type Manifest struct {
	root *jsontree.Object
}

// Parse decodes manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	root, err := jsontree.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	return &Manifest{root: root}, nil
}

// Load reads the manifest at path. A missing file is an error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadDir reads package.json from dir.
func LoadDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, FileName))
}

// Bytes renders the manifest with two-space indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	return jsontree.Encode(m.root)
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MergeDependency adds name to dependencies unless it is already listed.
// An existing pin is never overwritten. It reports whether the manifest changed.
func (m *Manifest) MergeDependency(name, versionRange string) (bool, error) {
	deps, err := m.root.EnsureObject("dependencies")
	if err != nil {
		return false, err
	}
	if deps.Has(name) {
		return false, nil
	}
	deps.Set(name, versionRange)
	return true, nil
}

// Version returns the range declared for name in dependencies, falling back
// to devDependencies. Empty when the package is not declared.
func (m *Manifest) Version(name string) string {
	for _, section := range []string{"dependencies", "devDependencies"} {
		deps, ok := m.root.Object(section)
		if !ok {
			continue
		}
		if v, ok := deps.String(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// HasDependency reports whether name is declared in either section.
func (m *Manifest) HasDependency(name string) bool {
	return m.Version(name) != ""
}
