package cli

import (
	"path/filepath"
)

// resolveDir anchors dir at cwd unless it is already absolute.
func resolveDir(cwd, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(cwd, dir)
}

// projectDir resolves a --cwd flag against the process working directory.
func (d *deps) projectDir(flag string) (string, error) {
	cwd, err := d.getwd()
	if err != nil {
		return "", err
	}
	if flag == "" {
		flag = "."
	}
	return resolveDir(cwd, flag), nil
}
