// Package resx implements writing of Windows .resx resource files generated
// from flattened translation trees.
//
// Each entry becomes a <data name="…" xml:space="preserve"> block whose
// <value> holds the text with {name} placeholders rewritten to .NET
// composite-format items ({0}, {1}, …).
//
// By default values are embedded verbatim, matching the files produced by
// earlier tooling. Set Options.EscapeXML to escape &, < and > in values.
package resx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/minios-linux/l10nconv/placeholder"
	"github.com/minios-linux/l10nconv/tree"
)

// KeySeparator joins nested keys into resource names.
const KeySeparator = "_"

// Options control value encoding.
type Options struct {
	// EscapeXML escapes &, < and > in values before placeholder rewriting.
	EscapeXML bool
}

// Data is a single <data> resource.
type Data struct {
	Name  string
	Value string
}

// File represents a .resx document.
type File struct {
	Data []Data
}

// New builds a File from flattened entries.
func New(entries []tree.Entry, opts Options) *File {
	f := &File{Data: make([]Data, 0, len(entries))}
	for _, e := range entries {
		f.Data = append(f.Data, Data{Name: e.Key, Value: EncodeValue(e.Value, opts)})
	}
	return f
}

// FromTree flattens root with KeySeparator and builds a File from it.
func FromTree(root *tree.Node, opts Options) (*File, error) {
	entries, err := tree.Flatten(root, KeySeparator)
	if err != nil {
		return nil, err
	}
	return New(entries, opts), nil
}

// Names returns resource names in document order.
func (f *File) Names() []string {
	names := make([]string, len(f.Data))
	for i, d := range f.Data {
		names[i] = d.Name
	}
	return names
}

// Get returns the value of the last resource with the given name.
func (f *File) Get(name string) (string, bool) {
	for i := len(f.Data) - 1; i >= 0; i-- {
		if f.Data[i].Name == name {
			return f.Data[i].Value, true
		}
	}
	return "", false
}

// EncodeValue rewrites placeholders in s, escaping it first when requested.
func EncodeValue(s string, opts Options) string {
	if opts.EscapeXML {
		s = textEscaper.Replace(s)
	}
	return placeholder.Windows(s)
}

var textEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
)

// Marshal produces the .resx document.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<root>\n")
	for _, d := range f.Data {
		b.WriteString(fmt.Sprintf("    <data name=\"%s\" xml:space=\"preserve\">\n", d.Name))
		b.WriteString(fmt.Sprintf("        <value>%s</value>\n", d.Value))
		b.WriteString("    </data>\n")
	}
	b.WriteString("</root>\n")
	return []byte(b.String())
}

// Parse reads <data> name/value pairs from a .resx document. Values are
// returned decoded. Only documents whose values are well-formed XML can be
// parsed; files written without EscapeXML may not be.
func Parse(data []byte) (*File, error) {
	var doc struct {
		XMLName xml.Name `xml:"root"`
		Data    []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:"value"`
		} `xml:"data"`
	}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing resx: %w", err)
	}

	f := &File{}
	for _, d := range doc.Data {
		f.Data = append(f.Data, Data{Name: d.Name, Value: d.Value})
	}
	return f, nil
}
