// Package tree loads hierarchical JSON translation files into an ordered
// tree and flattens it into composite-key entries.
//
// The expected file format is a nested JSON object whose leaves are strings,
// numbers or booleans:
//
//	{
//	    "greeting": "Hello {name}!",
//	    "nav": {
//	        "home": "Home",
//	        "count": 3
//	    }
//	}
//
// Key order is preserved exactly as written in the file, so flattening the
// same document always yields the same sequence of entries.
package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors returned while decoding or flattening a tree.
var (
	ErrNotObject        = errors.New("root value is not a JSON object")
	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrDuplicateKey     = errors.New("duplicate key")
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Node is either an ordered object (Keys/Children set) or a leaf (Value set).
type Node struct {
	// Keys preserves the order of object members.
	Keys []string
	// Children maps member key to child node. Nil for leaves.
	Children map[string]*Node
	// Value is the textual form of a leaf.
	Value string
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{Children: make(map[string]*Node)}
}

// Leaf returns a leaf node holding s.
func Leaf(s string) *Node {
	return &Node{Value: s}
}

// IsObject reports whether n is an object node.
func (n *Node) IsObject() bool { return n.Children != nil }

// Set appends a child under key. Setting an existing key replaces the child
// in place and keeps its original position.
func (n *Node) Set(key string, child *Node) {
	if _, exists := n.Children[key]; !exists {
		n.Keys = append(n.Keys, key)
	}
	n.Children[key] = child
}

// Get returns the child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	c, ok := n.Children[key]
	return c, ok
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse parses JSON data into an ordered tree. The root must be an object.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	t, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing JSON: %w (got %s)", ErrNotObject, describeToken(t))
	}

	root, err := parseObject(dec, "")
	if err != nil {
		return nil, err
	}

	// Anything after the closing brace is malformed input.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parsing JSON: unexpected data after top-level object")
		}
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return root, nil
}

// parseObject reads object members until the closing brace. The opening
// brace has already been consumed.
func parseObject(dec *json.Decoder, prefix string) (*Node, error) {
	obj := NewObject()

	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("parsing JSON: expected string key, got %T", kt)
		}
		path := joinPath(prefix, key, ".")
		if _, dup := obj.Children[key]; dup {
			return nil, fmt.Errorf("key %q: %w", path, ErrDuplicateKey)
		}

		child, err := parseValue(dec, path)
		if err != nil {
			return nil, err
		}
		obj.Set(key, child)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return obj, nil
}

func parseValue(dec *json.Decoder, path string) (*Node, error) {
	vt, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	switch v := vt.(type) {
	case json.Delim:
		if v == '{' {
			return parseObject(dec, path)
		}
		return nil, fmt.Errorf("key %q: %w: array", path, ErrUnsupportedValue)
	case string:
		return Leaf(v), nil
	case json.Number:
		return Leaf(v.String()), nil
	case bool:
		if v {
			return Leaf("true"), nil
		}
		return Leaf("false"), nil
	case nil:
		return nil, fmt.Errorf("key %q: %w: null", path, ErrUnsupportedValue)
	}
	return nil, fmt.Errorf("key %q: %w: %T", path, ErrUnsupportedValue, vt)
}

func describeToken(t json.Token) string {
	switch v := t.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return string(v)
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", t)
}

// ---------------------------------------------------------------------------
// Flattening
// ---------------------------------------------------------------------------

// Entry is one leaf of a flattened tree.
type Entry struct {
	// Key is the composite key: ancestor keys joined with the separator.
	Key string
	// Value is the leaf text.
	Value string
}

// Flatten walks root depth-first in key order and returns one entry per
// leaf. Keys at depth 0 are used as-is; deeper keys are joined with sep.
func Flatten(root *Node, sep string) ([]Entry, error) {
	if root == nil || !root.IsObject() {
		return nil, ErrNotObject
	}
	var entries []Entry
	if err := flatten(root, "", sep, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func flatten(n *Node, prefix, sep string, out *[]Entry) error {
	for _, key := range n.Keys {
		child := n.Children[key]
		full := joinPath(prefix, key, sep)
		if child == nil {
			return fmt.Errorf("key %q: %w: null", full, ErrUnsupportedValue)
		}
		if child.IsObject() {
			if err := flatten(child, full, sep, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, Entry{Key: full, Value: child.Value})
	}
	return nil
}

func joinPath(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	var b strings.Builder
	b.Grow(len(prefix) + len(sep) + len(key))
	b.WriteString(prefix)
	b.WriteString(sep)
	b.WriteString(key)
	return b.String()
}
