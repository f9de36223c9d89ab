// Package i18n translates l10nconv's own console messages.
//
// Catalogs are gettext PO files embedded in the binary under
// locales/<lang>/LC_MESSAGES/l10nconv.po and read with gotext. Messages
// without a translation are printed as written in the source.
//
//	i18n.Init("")
//	logSuccess(i18n.T("Generated %s: %s"), kind, path)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain of the embedded catalogs.
const domain = "l10nconv"

var po *gotext.Locale

// Init loads the catalog for lang. An empty lang is detected from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG).
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid, returning it unchanged when no translation exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a message with singular and plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext precedence. LANGUAGE may hold a
// colon-separated list; only its first entry is used. Encoding suffixes
// are dropped and the C/POSIX locales mean "untranslated".
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
