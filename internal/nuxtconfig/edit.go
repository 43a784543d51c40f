package nuxtconfig

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var errEmptyPath = errors.New("empty property path")

// Has reports whether a property exists at path.
func (d *Document) Has(path ...string) (bool, error) {
	if len(path) == 0 {
		return false, errEmptyPath
	}
	tree, obj, err := d.parse()
	if err != nil {
		return false, err
	}
	defer tree.Close()

	parent, err := resolve(obj, d.src, path[:len(path)-1])
	if err != nil || parent == nil {
		return false, err
	}
	return property(parent, d.src, path[len(path)-1]) != nil, nil
}

// EnsureObject makes sure every segment of path is an object literal,
// creating empty ones where missing.
func (d *Document) EnsureObject(path ...string) error {
	for i := range path {
		if err := d.ensure(path[:i+1], "object", Fields{}); err != nil {
			return err
		}
	}
	return nil
}

// EnsureArray makes sure an array literal exists at path.
func (d *Document) EnsureArray(path ...string) error {
	if len(path) == 0 {
		return errEmptyPath
	}
	if err := d.EnsureObject(path[:len(path)-1]...); err != nil {
		return err
	}
	return d.ensure(path, "array", []interface{}{})
}

func (d *Document) ensure(path []string, kind string, placeholder interface{}) error {
	tree, obj, err := d.parse()
	if err != nil {
		return err
	}
	defer tree.Close()

	parent, err := resolve(obj, d.src, path[:len(path)-1])
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("%s does not exist", joinPath(path[:len(path)-1]))
	}

	key := path[len(path)-1]
	if pair := property(parent, d.src, key); pair != nil {
		value := unwrap(pair.ChildByFieldName("value"))
		if value == nil || value.Type() != kind {
			return fmt.Errorf("%s is not an %s: %w", joinPath(path), kind, ErrType)
		}
		return nil
	}
	return d.insertProperty(parent, key, placeholder)
}

// Set assigns value at path, replacing an existing value or adding the
// property. Parent objects are created as needed; sibling properties are
// left untouched.
func (d *Document) Set(path []string, value interface{}) error {
	if len(path) == 0 {
		return errEmptyPath
	}
	parentPath, key := path[:len(path)-1], path[len(path)-1]
	if err := d.EnsureObject(parentPath...); err != nil {
		return err
	}

	tree, obj, err := d.parse()
	if err != nil {
		return err
	}
	defer tree.Close()

	parent, err := resolve(obj, d.src, parentPath)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("%s does not exist", joinPath(parentPath))
	}

	pair := property(parent, d.src, key)
	if pair == nil {
		return d.insertProperty(parent, key, value)
	}
	valueNode := pair.ChildByFieldName("value")
	if valueNode == nil {
		return fmt.Errorf("%s is a shorthand property: %w", joinPath(path), ErrType)
	}
	rendered, err := d.style.render(value, lineIndent(d.src, pair.StartByte()))
	if err != nil {
		return err
	}
	d.splice(valueNode.StartByte(), valueNode.EndByte(), rendered)
	return nil
}

// Strings returns the string elements of the array at path, or nil when the
// property is absent.
func (d *Document) Strings(path ...string) ([]string, error) {
	tree, obj, err := d.parse()
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	arr, err := d.arrayAt(obj, path)
	if err != nil || arr == nil {
		return nil, err
	}
	var out []string
	for _, m := range members(arr) {
		if s, ok := stringValue(m, d.src); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// ArrayContainsString reports whether the array at path holds value.
func (d *Document) ArrayContainsString(path []string, value string) (bool, error) {
	items, err := d.Strings(path...)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item == value {
			return true, nil
		}
	}
	return false, nil
}

// AppendString adds value to the end of the array at path.
func (d *Document) AppendString(path []string, value string) error {
	tree, obj, err := d.parse()
	if err != nil {
		return err
	}
	defer tree.Close()

	arr, err := d.arrayAt(obj, path)
	if err != nil {
		return err
	}
	if arr == nil {
		return fmt.Errorf("%s does not exist", joinPath(path))
	}
	d.appendItem(arr, d.style.quoteString(value))
	return nil
}

// AddModule lists name in the modules array, creating the array when the
// config has none. It reports whether the source changed.
func (d *Document) AddModule(name string) (bool, error) {
	before := len(d.src)
	if err := d.EnsureArray("modules"); err != nil {
		return false, err
	}
	created := len(d.src) != before

	present, err := d.ArrayContainsString([]string{"modules"}, name)
	if err != nil {
		return false, err
	}
	if present {
		return created, nil
	}
	if err := d.AppendString([]string{"modules"}, name); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Document) arrayAt(obj *sitter.Node, path []string) (*sitter.Node, error) {
	if len(path) == 0 {
		return nil, errEmptyPath
	}
	parent, err := resolve(obj, d.src, path[:len(path)-1])
	if err != nil || parent == nil {
		return nil, err
	}
	pair := property(parent, d.src, path[len(path)-1])
	if pair == nil {
		return nil, nil
	}
	value := unwrap(pair.ChildByFieldName("value"))
	if value == nil || value.Type() != "array" {
		return nil, fmt.Errorf("%s is not an array: %w", joinPath(path), ErrType)
	}
	return value, nil
}

func (d *Document) insertProperty(obj *sitter.Node, key string, value interface{}) error {
	multiline := obj.StartPoint().Row != obj.EndPoint().Row
	ms := members(obj)
	nl := d.style.newline
	trailing := ""
	if d.style.trailingComma {
		trailing = ","
	}

	if len(ms) == 0 {
		base := lineIndent(d.src, obj.StartByte())
		childIndent := base + d.style.unit
		prop, err := d.renderProperty(key, value, childIndent)
		if err != nil {
			return err
		}
		start, end := obj.StartByte()+1, obj.EndByte()-1
		switch {
		case multiline:
			d.splice(start, start, nl+childIndent+prop+trailing)
		case strings.TrimSpace(string(d.src[start:end])) == "":
			d.splice(start, end, nl+childIndent+prop+trailing+nl+base)
		default:
			d.splice(start, start, nl+childIndent+prop+trailing+nl+base)
		}
		return nil
	}

	last := ms[len(ms)-1]
	commaEnd, hasComma := commaAfter(obj, last)
	if multiline {
		childIndent := lineIndent(d.src, last.StartByte())
		prop, err := d.renderProperty(key, value, childIndent)
		if err != nil {
			return err
		}
		if hasComma {
			d.splice(commaEnd, commaEnd, nl+childIndent+prop+",")
		} else {
			d.splice(last.EndByte(), last.EndByte(), ","+nl+childIndent+prop)
		}
		return nil
	}

	prop, err := d.renderProperty(key, value, lineIndent(d.src, obj.StartByte()))
	if err != nil {
		return err
	}
	if hasComma {
		d.splice(commaEnd, commaEnd, " "+prop+",")
	} else {
		d.splice(last.EndByte(), last.EndByte(), ", "+prop)
	}
	return nil
}

func (d *Document) renderProperty(key string, value interface{}, indent string) (string, error) {
	rendered, err := d.style.render(value, indent)
	if err != nil {
		return "", err
	}
	return d.style.renderKey(key) + ": " + rendered, nil
}

func (d *Document) appendItem(arr *sitter.Node, item string) {
	multiline := arr.StartPoint().Row != arr.EndPoint().Row
	ms := members(arr)
	nl := d.style.newline

	if len(ms) == 0 {
		start, end := arr.StartByte()+1, arr.EndByte()-1
		switch {
		case multiline:
			childIndent := lineIndent(d.src, arr.StartByte()) + d.style.unit
			trailing := ""
			if d.style.trailingComma {
				trailing = ","
			}
			d.splice(start, start, nl+childIndent+item+trailing)
		case strings.TrimSpace(string(d.src[start:end])) == "":
			d.splice(start, end, item)
		default:
			d.splice(start, start, item+" ")
		}
		return
	}

	last := ms[len(ms)-1]
	commaEnd, hasComma := commaAfter(arr, last)
	switch {
	case multiline && hasComma:
		d.splice(commaEnd, commaEnd, nl+lineIndent(d.src, last.StartByte())+item+",")
	case multiline:
		d.splice(last.EndByte(), last.EndByte(), ","+nl+lineIndent(d.src, last.StartByte())+item)
	case hasComma:
		d.splice(commaEnd, commaEnd, " "+item+",")
	default:
		d.splice(last.EndByte(), last.EndByte(), ", "+item)
	}
}
