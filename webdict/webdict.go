// Package webdict implements the flat JSON dictionary consumed by web
// frontends:
//
//	{
//	  "home.title": "Welcome, {{user}}!",
//	  "nav.about": "About"
//	}
//
// Keys are dot-joined paths, values use double-brace interpolation. Files
// are written with 2-space indentation and non-ASCII text kept literal.
package webdict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/minios-linux/l10nconv/placeholder"
	"github.com/minios-linux/l10nconv/tree"
)

// KeySeparator joins nested keys into dictionary keys.
const KeySeparator = "."

// Dict is an ordered flat string dictionary.
type Dict struct {
	keys   []string
	values map[string]string
}

// New returns an empty dictionary.
func New() *Dict {
	return &Dict{values: make(map[string]string)}
}

// FromTree flattens root with KeySeparator, rewrites placeholders and
// returns a dictionary sorted by key.
func FromTree(root *tree.Node) (*Dict, error) {
	entries, err := tree.Flatten(root, KeySeparator)
	if err != nil {
		return nil, err
	}
	d := New()
	for _, e := range entries {
		d.Set(e.Key, placeholder.Web(e.Value))
	}
	d.Sort()
	return d, nil
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (d *Dict) Set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Keys returns keys in dictionary order.
func (d *Dict) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *Dict) Len() int { return len(d.keys) }

// Sort orders keys lexicographically by byte value.
func (d *Dict) Sort() {
	sort.Strings(d.keys)
}

// Marshal produces the JSON document in dictionary key order.
func (d *Dict) Marshal() ([]byte, error) {
	if len(d.keys) == 0 {
		return []byte("{}\n"), nil
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range d.keys {
		ks, err := jsonString(k)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		vs, err := jsonString(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		b.WriteString("  ")
		b.WriteString(ks)
		b.WriteString(": ")
		b.WriteString(vs)
		if i < len(d.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// jsonString returns s as a JSON string literal without HTML escaping.
// encoding/json always escapes U+2028 and U+2029; they are written
// literally here like any other non-ASCII text, so s is encoded in segments
// split at those runes.
func jsonString(s string) (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	start := 0
	for i, r := range s {
		if r != '\u2028' && r != '\u2029' {
			continue
		}
		if err := writeEscaped(&b, s[start:i]); err != nil {
			return "", err
		}
		b.WriteRune(r)
		start = i + utf8.RuneLen(r)
	}
	if err := writeEscaped(&b, s[start:]); err != nil {
		return "", err
	}
	b.WriteByte('"')
	return b.String(), nil
}

// writeEscaped appends the JSON-escaped body of s, without quotes.
func writeEscaped(b *strings.Builder, s string) error {
	if s == "" {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	b.WriteString(out[1 : len(out)-1])
	return nil
}

// Parse decodes a flat dictionary, keeping the key order of the document.
// Scalar values are kept in their textual form.
func Parse(data []byte) (*Dict, error) {
	root, err := tree.Parse(data)
	if err != nil {
		return nil, err
	}
	d := New()
	for _, k := range root.Keys {
		child := root.Children[k]
		if child.IsObject() {
			return nil, fmt.Errorf("key %q: nested object in flat dictionary", k)
		}
		d.Set(k, child.Value)
	}
	return d, nil
}
