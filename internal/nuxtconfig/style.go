package nuxtconfig

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Field is one property of an object literal written by Set.
type Field struct {
	Key   string
	Value interface{}
}

// Fields renders as an object literal with keys in the given order.
type Fields []Field

// style captures the formatting conventions of the file being edited.
type style struct {
	unit          string
	quote         byte
	trailingComma bool
	newline       string
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func detectStyle(src []byte, obj *sitter.Node) style {
	s := style{unit: "  ", quote: '\'', newline: "\n"}
	if bytes.Contains(src, []byte("\r\n")) {
		s.newline = "\r\n"
	}

	ms := members(obj)
	if len(ms) > 0 && ms[0].StartPoint().Row != obj.StartPoint().Row {
		base := lineIndent(src, obj.StartByte())
		inner := lineIndent(src, ms[0].StartByte())
		if strings.HasPrefix(inner, base) && len(inner) > len(base) {
			s.unit = inner[len(base):]
		}
		_, s.trailingComma = commaAfter(obj, ms[len(ms)-1])
	}

	if q, ok := firstQuote(obj, src); ok {
		s.quote = q
	}
	return s
}

func firstQuote(n *sitter.Node, src []byte) (byte, bool) {
	if n.Type() == "string" {
		text := n.Content(src)
		if len(text) > 0 {
			return text[0], true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if q, ok := firstQuote(n.NamedChild(i), src); ok {
			return q, true
		}
	}
	return 0, false
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(src []byte, offset uint32) string {
	start := int(offset)
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// commaAfter reports whether a "," token follows member inside container,
// returning the end offset of that comma.
func commaAfter(container, member *sitter.Node) (uint32, bool) {
	seen := false
	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(i)
		if !seen {
			seen = child.StartByte() == member.StartByte() && child.EndByte() == member.EndByte()
			continue
		}
		switch child.Type() {
		case ",":
			return child.EndByte(), true
		case "comment":
			continue
		default:
			return 0, false
		}
	}
	return 0, false
}

func (s style) quoteString(v string) string {
	q := string(s.quote)
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, q, `\`+q)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return q + escaped + q
}

func (s style) renderKey(key string) string {
	if identifierRe.MatchString(key) {
		return key
	}
	return s.quoteString(key)
}

// render formats v as a TypeScript literal. indent is the indentation of the
// line the literal starts on.
func (s style) render(v interface{}, indent string) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return s.quoteString(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case []string:
		items := make([]interface{}, len(t))
		for i, item := range t {
			items[i] = item
		}
		return s.render(items, indent)
	case []interface{}:
		parts := make([]string, len(t))
		for i, item := range t {
			rendered, err := s.render(item, indent)
			if err != nil {
				return "", err
			}
			parts[i] = rendered
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case Fields:
		if len(t) == 0 {
			return "{}", nil
		}
		inner := indent + s.unit
		var b strings.Builder
		b.WriteString("{" + s.newline)
		for i, f := range t {
			rendered, err := s.render(f.Value, inner)
			if err != nil {
				return "", err
			}
			b.WriteString(inner + s.renderKey(f.Key) + ": " + rendered)
			if i < len(t)-1 || s.trailingComma {
				b.WriteByte(',')
			}
			b.WriteString(s.newline)
		}
		b.WriteString(indent + "}")
		return b.String(), nil
	default:
		return "", fmt.Errorf("cannot render %T: %w", v, ErrType)
	}
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
