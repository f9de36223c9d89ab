// Package csvbridge moves web dictionaries in and out of the three-column
// spreadsheets used by translators:
//
//	Key,English Value,Chinese Value
//	app.title,Notes,笔记
//	app.greeting,Hello {{name}},
//
// Export lists every key of the source dictionary next to the existing
// target translation. Import rebuilds the target dictionary, falling back
// to the source text where the target column is empty.
package csvbridge

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/minios-linux/l10nconv/config"
	"github.com/minios-linux/l10nconv/convert"
	"github.com/minios-linux/l10nconv/langmeta"
	"github.com/minios-linux/l10nconv/placeholder"
	"github.com/minios-linux/l10nconv/webdict"
)

// ErrBadHeader is returned when a CSV file does not start with a
// Key/source/target header row.
var ErrBadHeader = errors.New("CSV header must have at least 3 columns starting with \"Key\"")

// Header returns the header row for a source/target language pair.
func Header(sourceLang, targetLang string) []string {
	return []string{
		"Key",
		langmeta.Resolve(sourceLang).English + " Value",
		langmeta.Resolve(targetLang).English + " Value",
	}
}

// Marshal writes source and target side by side, in source key order.
// Keys present only in target are not exported.
func Marshal(source, target *webdict.Dict, sourceLang, targetLang string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header(sourceLang, targetLang)); err != nil {
		return nil, err
	}
	for _, k := range source.Keys() {
		src, _ := source.Get(k)
		tgt, _ := target.Get(k)
		if err := w.Write([]string{k, src, tgt}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Result is the outcome of Unmarshal.
type Result struct {
	Dict *webdict.Dict
	// Duplicates lists keys that appeared more than once; the first
	// occurrence was kept.
	Duplicates []string
	// Fallbacks counts rows whose target column was empty.
	Fallbacks int
	// Mismatched lists keys whose translation uses a different set of
	// placeholder names than the source text.
	Mismatched []string
}

// Unmarshal reads a translator CSV. Values are trimmed; the target column
// is used when non-empty, otherwise the source column. Keys keep CSV order.
// Translations whose placeholder names differ from the source are kept and
// listed in Mismatched.
func Unmarshal(data []byte) (*Result, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[0], "\ufeff")), "Key") {
		return nil, ErrBadHeader
	}

	res := &Result{Dict: webdict.New()}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}

		key := strings.TrimSpace(field(rec, 0))
		if key == "" {
			continue
		}
		if res.Dict.Has(key) {
			res.Duplicates = append(res.Duplicates, key)
			continue
		}

		source := strings.TrimSpace(field(rec, 1))
		value := strings.TrimSpace(field(rec, 2))
		if value == "" {
			value = source
			res.Fallbacks++
		} else if !samePlaceholders(source, value) {
			res.Mismatched = append(res.Mismatched, key)
		}
		res.Dict.Set(key, value)
	}
	return res, nil
}

// samePlaceholders reports whether a and b use the same placeholder names,
// ignoring order and repetition.
func samePlaceholders(a, b string) bool {
	na, nb := placeholder.Names(a), placeholder.Names(b)
	if len(na) != len(nb) {
		return false
	}
	sort.Strings(na)
	sort.Strings(nb)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// ---------------------------------------------------------------------------
// File operations
// ---------------------------------------------------------------------------

// Export reads the generated web dictionaries of sourceLang and targetLang
// and writes the CSV for targetLang. A missing target dictionary exports an
// empty translation column. It returns the CSV path and the number of rows.
func Export(fsys convert.FS, cfg *config.Config, sourceLang, targetLang string) (string, int, error) {
	source, err := readDict(fsys, cfg.OutputPath(config.FormatWeb, sourceLang))
	if err != nil {
		return "", 0, err
	}

	target, err := readDict(fsys, cfg.OutputPath(config.FormatWeb, targetLang))
	if errors.Is(err, fs.ErrNotExist) {
		target = webdict.New()
	} else if err != nil {
		return "", 0, err
	}

	data, err := Marshal(source, target, sourceLang, targetLang)
	if err != nil {
		return "", 0, fmt.Errorf("encoding CSV: %w", err)
	}
	out := cfg.CSVPath(targetLang)
	if err := fsys.WriteFile(out, data); err != nil {
		return "", 0, err
	}
	return out, source.Len(), nil
}

// Import reads the CSV of targetLang and writes its web dictionary.
// It returns the dictionary path and the parse result.
func Import(fsys convert.FS, cfg *config.Config, targetLang string) (string, *Result, error) {
	in := cfg.CSVPath(targetLang)
	data, err := fsys.ReadFile(in)
	if err != nil {
		return "", nil, err
	}
	res, err := Unmarshal(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", in, err)
	}

	out, err := res.Dict.Marshal()
	if err != nil {
		return "", nil, err
	}
	path := cfg.OutputPath(config.FormatWeb, targetLang)
	if err := fsys.WriteFile(path, out); err != nil {
		return "", nil, err
	}
	return path, res, nil
}

func readDict(fsys convert.FS, path string) (*webdict.Dict, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := webdict.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
