// Package android implements writing (and reading back) of Android
// strings.xml resource files generated from flattened translation trees.
//
// Only plain <string> resources are produced. Values are escaped for AAPT
// and their {name} placeholders are rewritten to positional %N$s format
// specifiers before they are written.
package android

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/minios-linux/l10nconv/placeholder"
	"github.com/minios-linux/l10nconv/tree"
)

// KeySeparator joins nested keys into Android resource names.
const KeySeparator = "_"

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// String is a single <string name="…"> resource.
type String struct {
	// Name is the resource name (attribute name="…").
	Name string
	// Value is the element text exactly as it appears in the file: already
	// escaped, with placeholders in %N$s form.
	Value string
}

// File represents an Android strings.xml file.
type File struct {
	// Strings in document order.
	Strings []String
	// byName maps resource name to index in Strings.
	byName map[string]int
}

// New builds a File from flattened entries, encoding every value.
func New(entries []tree.Entry) *File {
	f := &File{byName: make(map[string]int, len(entries))}
	for _, e := range entries {
		f.add(String{Name: e.Key, Value: EncodeValue(e.Value)})
	}
	return f
}

// FromTree flattens root with KeySeparator and builds a File from it.
func FromTree(root *tree.Node) (*File, error) {
	entries, err := tree.Flatten(root, KeySeparator)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

func (f *File) add(s String) {
	f.byName[s.Name] = len(f.Strings)
	f.Strings = append(f.Strings, s)
}

// Get returns the encoded value of the named resource.
func (f *File) Get(name string) (string, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return "", false
	}
	return f.Strings[idx].Value, true
}

// Keys returns resource names in document order.
func (f *File) Keys() []string {
	keys := make([]string, len(f.Strings))
	for i, s := range f.Strings {
		keys[i] = s.Name
	}
	return keys
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Marshal produces the strings.xml document.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<resources>\n")
	for _, s := range f.Strings {
		b.WriteString(fmt.Sprintf("    <string name=\"%s\">%s</string>\n", s.Name, s.Value))
	}
	b.WriteString("</resources>\n")
	return []byte(b.String())
}

// EncodeValue escapes s and then rewrites its placeholders. Escaping runs
// first; none of its replacements can produce a {name} sequence.
func EncodeValue(s string) string {
	return placeholder.Android(Escape(s))
}

// Escape applies the Android string escapes in a fixed order:
// ' -> \', & -> &amp;, < -> &lt;, > -> &gt;, " -> &quot;.
func Escape(s string) string {
	return androidEscaper.Replace(s)
}

// androidEscaper matches the sequential replacements: '&' is the only
// pattern that appears in a later replacement and it is replaced first.
var androidEscaper = strings.NewReplacer(
	`'`, `\'`,
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`"`, `&quot;`,
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse reads a strings.xml document produced by Marshal. Values are
// returned in their encoded form (entities re-applied, placeholders kept as
// %N$s) so that Parse(f.Marshal()) reproduces f.
func Parse(data []byte) (*File, error) {
	f := &File{byName: make(map[string]int)}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	inResources := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing strings.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "resources" {
				inResources = true
				continue
			}
			if !inResources || t.Name.Local != "string" {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parsing strings.xml: %w", err)
				}
				continue
			}
			var name string
			for _, attr := range t.Attr {
				if attr.Name.Local == "name" {
					name = attr.Value
				}
			}
			var text string
			if err := dec.DecodeElement(&text, &t); err != nil {
				return nil, fmt.Errorf("reading <string name=%q>: %w", name, err)
			}
			f.add(String{Name: name, Value: reescape(text)})

		case xml.EndElement:
			if t.Name.Local == "resources" {
				inResources = false
			}
		}
	}
	return f, nil
}

// reescape turns decoded element text back into the encoded form. The
// apostrophe is still escaped in decoded text since \' is not an XML escape.
func reescape(s string) string {
	return strings.NewReplacer(
		`&`, `&amp;`,
		`<`, `&lt;`,
		`>`, `&gt;`,
		`"`, `&quot;`,
	).Replace(s)
}
