// Package blueprint edits WordPress Playground blueprint.json files.
package blueprint

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wpnuxt/wpnuxi/internal/jsontree"
)

// FileName is the Playground blueprint shipped with the starters.
const FileName = "blueprint.json"

// Blueprint is a parsed blueprint document.
type Blueprint struct {
	root *jsontree.Object
}

// Load reads the blueprint at path.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	root, err := jsontree.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &Blueprint{root: root}, nil
}

// Save writes the blueprint to path.
func (b *Blueprint) Save(path string) error {
	data, err := jsontree.Encode(b.root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Prepend inserts steps before the existing ones.
func (b *Blueprint) Prepend(steps ...*jsontree.Object) error {
	arr, err := b.root.EnsureArray("steps")
	if err != nil {
		return err
	}
	arr.Prepend(toItems(steps)...)
	return nil
}

// Append adds steps after the existing ones.
func (b *Blueprint) Append(steps ...*jsontree.Object) error {
	arr, err := b.root.EnsureArray("steps")
	if err != nil {
		return err
	}
	arr.Append(toItems(steps)...)
	return nil
}

// Steps returns the number of steps.
func (b *Blueprint) Steps() int {
	v, ok := b.root.Get("steps")
	if !ok {
		return 0
	}
	arr, ok := v.(*jsontree.Array)
	if !ok {
		return 0
	}
	return arr.Len()
}

func toItems(steps []*jsontree.Object) []interface{} {
	items := make([]interface{}, len(steps))
	for i, s := range steps {
		items[i] = s
	}
	return items
}

// InstallPluginStep installs a plugin zip from url.
func InstallPluginStep(url string) *jsontree.Object {
	return jsontree.NewObject().
		Set("step", "installPlugin").
		Set("pluginData", jsontree.NewObject().
			Set("resource", "url").
			Set("url", url))
}

// WriteFileStep writes data to path inside the Playground filesystem.
func WriteFileStep(path, data string) *jsontree.Object {
	return jsontree.NewObject().
		Set("step", "writeFile").
		Set("path", path).
		Set("data", data)
}

// RunPHPStep executes code inside the Playground.
func RunPHPStep(code string) *jsontree.Object {
	return jsontree.NewObject().
		Set("step", "runPHP").
		Set("code", code)
}
