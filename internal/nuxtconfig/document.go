// Package nuxtconfig edits the default-exported configuration object of a
// nuxt.config.ts file in place.
//
// The source is parsed with tree-sitter; every accessor translates into a
// byte-range splice of the original text, so comments, quoting and layout of
// untouched properties are kept exactly as written.
package nuxtconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// FileName is the Nuxt configuration file patched by feature modules.
const FileName = "nuxt.config.ts"

var (
	// ErrNoDefaultExport is returned when the file has no `export default`.
	ErrNoDefaultExport = errors.New("no default export found")
	// ErrUnsupportedExport is returned when the default export is not an
	// object literal or a call whose first argument is one.
	ErrUnsupportedExport = errors.New("default export is not a configuration object")
	// ErrSyntax is returned when the source does not parse cleanly.
	ErrSyntax = errors.New("syntax error in configuration source")
	// ErrType is returned when a path crosses a value of the wrong kind.
	ErrType = errors.New("unexpected value type")
)

// Document is a configuration source being edited.
type Document struct {
	src   []byte
	style style
}

// Load parses src and locates its configuration object.
func Load(src []byte) (*Document, error) {
	d := &Document{src: append([]byte(nil), src...)}
	tree, obj, err := d.parse()
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	d.style = detectStyle(d.src, obj)
	return d, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Bytes returns the current source.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.src...)
}

// Save writes the current source to path.
func (d *Document) Save(path string) error {
	return os.WriteFile(path, d.src, 0o644)
}

// parse returns the tree and the configuration object node. The caller
// closes the tree; nodes are invalid afterwards.
func (d *Document) parse() (*sitter.Tree, *sitter.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, d.src)
	if err != nil {
		return nil, nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, nil, ErrSyntax
	}

	obj, err := configObject(root)
	if err != nil {
		tree.Close()
		return nil, nil, err
	}
	return tree, obj, nil
}

func configObject(root *sitter.Node) (*sitter.Node, error) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "export_statement" || !hasChildOfType(stmt, "default") {
			continue
		}
		value := stmt.ChildByFieldName("value")
		if value == nil {
			return nil, ErrUnsupportedExport
		}
		value = unwrap(value)
		if value.Type() == "call_expression" {
			args := value.ChildByFieldName("arguments")
			members := members(args)
			if len(members) == 0 {
				return nil, ErrUnsupportedExport
			}
			value = unwrap(members[0])
		}
		if value.Type() != "object" {
			return nil, ErrUnsupportedExport
		}
		return value, nil
	}
	return nil, ErrNoDefaultExport
}

// unwrap strips parentheses and type assertions around an expression.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "satisfies_expression", "as_expression", "non_null_expression":
			if n.NamedChildCount() == 0 {
				return n
			}
			n = n.NamedChild(0)
		default:
			return n
		}
	}
	return n
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

// members returns the named children of an object, array or argument list,
// comments excluded.
func members(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// property finds the pair named key in obj. A shorthand property such as
// `{ modules }` is returned too; it has no "value" field, so callers treat
// it as a value they cannot edit.
func property(obj *sitter.Node, src []byte, key string) *sitter.Node {
	for _, m := range members(obj) {
		switch m.Type() {
		case "pair":
			if name, ok := propertyName(m.ChildByFieldName("key"), src); ok && name == key {
				return m
			}
		case "shorthand_property_identifier":
			if m.Content(src) == key {
				return m
			}
		}
	}
	return nil
}

func propertyName(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "number":
		return n.Content(src), true
	case "string":
		return stringValue(n, src)
	default:
		return "", false
	}
}

// stringValue returns the content of a plain string or template literal.
func stringValue(n *sitter.Node, src []byte) (string, bool) {
	switch n.Type() {
	case "string":
	case "template_string":
		if hasNamedChildOfType(n, "template_substitution") {
			return "", false
		}
	default:
		return "", false
	}
	text := n.Content(src)
	if len(text) < 2 {
		return "", false
	}
	return text[1 : len(text)-1], true
}

func hasNamedChildOfType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

// resolve walks path from the configuration object through nested object
// literals. It returns nil without error when a segment is absent.
func resolve(obj *sitter.Node, src []byte, path []string) (*sitter.Node, error) {
	cur := obj
	for i, key := range path {
		pair := property(cur, src, key)
		if pair == nil {
			return nil, nil
		}
		value := unwrap(pair.ChildByFieldName("value"))
		if value == nil || value.Type() != "object" {
			return nil, fmt.Errorf("%s is not an object: %w", joinPath(path[:i+1]), ErrType)
		}
		cur = value
	}
	return cur, nil
}

func (d *Document) splice(start, end uint32, text string) {
	out := make([]byte, 0, len(d.src)-int(end-start)+len(text))
	out = append(out, d.src[:start]...)
	out = append(out, text...)
	out = append(out, d.src[end:]...)
	d.src = out
}
