// Package jsontree holds JSON documents as insertion-ordered value trees so
// that edited manifests keep their original key order when written back.
//
// Values are *Object, *Array, string, json.Number, bool or nil.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrType reports a value of an unexpected JSON type at a key.
var ErrType = errors.New("unexpected JSON type")

// Object is a JSON object that remembers key order.
type Object struct {
	keys   []string
	values map[string]interface{}
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: map[string]interface{}{}}
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Get returns the value stored at key.
func (o *Object) Get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

// String returns the value at key when it is a string.
func (o *Object) String(key string) (string, bool) {
	s, ok := o.values[key].(string)
	return s, ok
}

// Object returns the nested object at key, if any.
func (o *Object) Object(key string) (*Object, bool) {
	child, ok := o.values[key].(*Object)
	return child, ok
}

// Set stores v at key. New keys go last; existing keys keep their position.
func (o *Object) Set(key string, v interface{}) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// EnsureObject returns the object at key, creating it when the key is
// absent or null.
func (o *Object) EnsureObject(key string) (*Object, error) {
	switch v := o.values[key].(type) {
	case *Object:
		return v, nil
	case nil:
		child := NewObject()
		o.Set(key, child)
		return child, nil
	default:
		return nil, fmt.Errorf("%q is %T, not an object: %w", key, v, ErrType)
	}
}

// EnsureObjectPath applies EnsureObject along path.
func (o *Object) EnsureObjectPath(path ...string) (*Object, error) {
	cur := o
	for _, key := range path {
		next, err := cur.EnsureObject(key)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// EnsureArray returns the array at key, creating it when the key is absent
// or null.
func (o *Object) EnsureArray(key string) (*Array, error) {
	switch v := o.values[key].(type) {
	case *Array:
		return v, nil
	case nil:
		child := &Array{}
		o.Set(key, child)
		return child, nil
	default:
		return nil, fmt.Errorf("%q is %T, not an array: %w", key, v, ErrType)
	}
}

// Array is a JSON array.
type Array struct {
	Items []interface{}
}

// NewArray returns an array holding items.
func NewArray(items ...interface{}) *Array {
	return &Array{Items: items}
}

// Len returns the number of items.
func (a *Array) Len() int { return len(a.Items) }

// Append adds items at the end.
func (a *Array) Append(items ...interface{}) {
	a.Items = append(a.Items, items...)
}

// Prepend adds items at the front, keeping their relative order.
func (a *Array) Prepend(items ...interface{}) {
	a.Items = append(append([]interface{}{}, items...), a.Items...)
}

// ContainsString reports whether s is one of the items.
func (a *Array) ContainsString(s string) bool {
	for _, item := range a.Items {
		if v, ok := item.(string); ok && v == s {
			return true
		}
	}
	return false
}

// Decode parses any JSON value.
func Decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

// DecodeObject parses a document whose top-level value must be an object.
func DecodeObject(data []byte) (*Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, not an object: %w", v, ErrType)
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := &Array{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
