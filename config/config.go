// Package config describes which languages l10nconv converts and where it
// reads and writes files.
//
// The defaults reproduce the historical layout:
//
//	locales/{lang}.json                  source translations
//	locales/android/strings_{lang}.xml   Android string resources
//	locales/windows/resx_{lang}.resx     Windows resources
//	locales/web/{lang}_web.json          flat web dictionary
//
// A .l10nconv.yaml (or .l10nconv.toml) file in the project root overrides
// any of these values. See Load.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/l10nconv/langmeta"
)

// LangToken is substituted with the language code in path templates.
const LangToken = "{lang}"

// Format identifies an output format.
type Format string

// Output formats, in the order they are generated.
const (
	FormatAndroid Format = "android"
	FormatResx    Format = "resx"
	FormatWeb     Format = "web"
)

// AllFormats lists every supported format in generation order.
var AllFormats = []Format{FormatAndroid, FormatResx, FormatWeb}

// Errors returned by Validate and ParseFormats.
var (
	ErrUnknownFormat     = errors.New("unknown format")
	ErrInvalidLanguage   = errors.New("invalid language code")
	ErrMissingLangToken  = errors.New("path template has no " + LangToken + " token")
	ErrNoLanguages       = errors.New("no languages configured")
	ErrNoFormats         = errors.New("no formats selected")
	ErrDuplicateLanguage = errors.New("duplicate language")
)

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the full conversion configuration.
type Config struct {
	// Languages are processed in order.
	Languages []string `yaml:"languages,omitempty" toml:"languages,omitempty"`
	// Input is the source JSON path template.
	Input string `yaml:"input,omitempty" toml:"input,omitempty"`
	// Outputs holds one path template per format.
	Outputs Outputs `yaml:"outputs,omitempty" toml:"outputs,omitempty"`
	// Formats restricts which outputs are generated (default: all).
	Formats []Format `yaml:"formats,omitempty" toml:"formats,omitempty"`
	// Resx holds .resx encoding options.
	Resx ResxOptions `yaml:"resx,omitempty" toml:"resx,omitempty"`
	// CSV holds settings for the csv export/import commands.
	CSV CSVOptions `yaml:"csv,omitempty" toml:"csv,omitempty"`
}

// Outputs holds output path templates.
type Outputs struct {
	Android string `yaml:"android,omitempty" toml:"android,omitempty"`
	Resx    string `yaml:"resx,omitempty" toml:"resx,omitempty"`
	Web     string `yaml:"web,omitempty" toml:"web,omitempty"`
}

// ResxOptions control .resx value encoding.
type ResxOptions struct {
	// EscapeXML escapes &, < and > in values. Off by default for
	// compatibility with existing resource files.
	EscapeXML bool `yaml:"escape_xml,omitempty" toml:"escape_xml,omitempty"`
}

// CSVOptions configure the translator spreadsheet bridge.
type CSVOptions struct {
	// Path is the CSV path template.
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// SourceLang is the reference language shown next to each target.
	SourceLang string `yaml:"source_lang,omitempty" toml:"source_lang,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Languages: []string{"en", "zh"},
		Input:     "locales/" + LangToken + ".json",
		Outputs: Outputs{
			Android: "locales/android/strings_" + LangToken + ".xml",
			Resx:    "locales/windows/resx_" + LangToken + ".resx",
			Web:     "locales/web/" + LangToken + "_web.json",
		},
		Formats: append([]Format(nil), AllFormats...),
		CSV: CSVOptions{
			Path:       "translations/" + LangToken + "_web.csv",
			SourceLang: "en",
		},
	}
}

// ---------------------------------------------------------------------------
// Path resolution
// ---------------------------------------------------------------------------

// Expand substitutes lang into a path template.
func Expand(template, lang string) string {
	return strings.ReplaceAll(template, LangToken, lang)
}

// InputPath returns the source JSON path for lang.
func (c *Config) InputPath(lang string) string {
	return Expand(c.Input, lang)
}

// OutputPath returns the output path of format for lang.
func (c *Config) OutputPath(format Format, lang string) string {
	return Expand(c.outputTemplate(format), lang)
}

// CSVPath returns the CSV path for lang.
func (c *Config) CSVPath(lang string) string {
	return Expand(c.CSV.Path, lang)
}

func (c *Config) outputTemplate(format Format) string {
	switch format {
	case FormatAndroid:
		return c.Outputs.Android
	case FormatResx:
		return c.Outputs.Resx
	case FormatWeb:
		return c.Outputs.Web
	}
	return ""
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate checks languages, formats, path templates and CSV options.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return ErrNoLanguages
	}
	seen := make(map[string]bool)
	for _, lang := range c.Languages {
		if err := ValidateLanguage(lang); err != nil {
			return err
		}
		if seen[lang] {
			return fmt.Errorf("%w: %q", ErrDuplicateLanguage, lang)
		}
		seen[lang] = true
	}

	if err := checkTemplate("input", c.Input); err != nil {
		return err
	}
	if err := checkTemplate("csv.path", c.CSV.Path); err != nil {
		return err
	}
	if err := ValidateLanguage(c.CSV.SourceLang); err != nil {
		return fmt.Errorf("csv.source_lang: %w", err)
	}
	if len(c.Formats) == 0 {
		return ErrNoFormats
	}
	for _, f := range c.Formats {
		if !f.Valid() {
			return fmt.Errorf("%w %q (valid: %s)", ErrUnknownFormat, f, formatList())
		}
		if err := checkTemplate("outputs."+string(f), c.outputTemplate(f)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLanguage checks that lang is a well-formed BCP 47 tag.
func ValidateLanguage(lang string) error {
	if strings.TrimSpace(lang) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLanguage)
	}
	if _, err := langmeta.Parse(lang); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidLanguage, lang, err)
	}
	return nil
}

func checkTemplate(field, tmpl string) error {
	if !strings.Contains(tmpl, LangToken) {
		return fmt.Errorf("%s %q: %w", field, tmpl, ErrMissingLangToken)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Formats
// ---------------------------------------------------------------------------

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormats parses a comma-separated format list ("android,web").
// Formats are returned in generation order regardless of input order.
// A list with no formats at all is an error.
func ParseFormats(s string) ([]Format, error) {
	want := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f := Format(part)
		if !f.Valid() {
			return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownFormat, part, formatList())
		}
		want[f] = true
	}

	var formats []Format
	for _, f := range AllFormats {
		if want[f] {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w (valid: %s)", ErrNoFormats, formatList())
	}
	return formats, nil
}

// ParseLanguages splits a comma-separated language list, dropping blanks.
func ParseLanguages(s string) []string {
	var langs []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}

func formatList() string {
	names := make([]string, len(AllFormats))
	for i, f := range AllFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
