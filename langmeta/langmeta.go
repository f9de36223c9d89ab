// Package langmeta resolves display metadata (native name, English name and
// emoji flag) for language codes, used in CSV headers and CLI listings.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Code is the canonical BCP 47 form of the code.
	Code string
	// Name is the language name in the language itself ("中文").
	Name string
	// English is the English name ("Chinese").
	English string
	// Flag is the emoji flag of the (possibly inferred) region.
	Flag string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Parse returns the language tag for a code, accepting variants like pt_BR.
func Parse(lang string) (language.Tag, error) {
	return language.Parse(canonicalize(lang))
}

// Resolve returns best-effort language metadata. Codes that do not parse
// are passed through as their own name.
func Resolve(lang string) Meta {
	tag, err := Parse(lang)
	if err != nil {
		return Meta{Code: lang, Name: lang, English: lang}
	}

	m := Meta{
		Code:    tag.String(),
		Name:    display.Self.Name(tag),
		English: display.English.Tags().Name(tag),
	}
	if m.Name == "" {
		m.Name = lang
	}
	if m.English == "" {
		m.English = lang
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = flagFromRegion(region.String())
	}
	return m
}

// flagFromRegion converts a two-letter region code to its emoji flag.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}
