package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Encode renders v with two-space indentation and a trailing newline, the
// layout npm and most editors write.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v interface{}, depth int) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		buf.WriteString(t.String())
	case int:
		buf.WriteString(strconv.Itoa(t))
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		return encodeString(buf, t)
	case *Object:
		return encodeObject(buf, t, depth)
	case *Array:
		return encodeArray(buf, t, depth)
	default:
		return fmt.Errorf("cannot encode %T: %w", v, ErrType)
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, o *Object, depth int) error {
	if o.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteString("{\n")
	for i, key := range o.keys {
		indent(buf, depth+1)
		if err := encodeString(buf, key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := encodeValue(buf, o.values[key], depth+1); err != nil {
			return err
		}
		if i < len(o.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	indent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, a *Array, depth int) error {
	if a.Len() == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteString("[\n")
	for i, item := range a.Items {
		indent(buf, depth+1)
		if err := encodeValue(buf, item, depth+1); err != nil {
			return err
		}
		if i < len(a.Items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	indent(buf, depth)
	buf.WriteByte(']')
	return nil
}

// encodeString writes s as a JSON string without HTML escaping, so PHP
// snippets such as "<?php" stay readable.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.WriteString(strings.TrimSuffix(tmp.String(), "\n"))
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
