package convert

import (
	"errors"
	"fmt"

	"github.com/minios-linux/l10nconv/android"
	"github.com/minios-linux/l10nconv/config"
	"github.com/minios-linux/l10nconv/resx"
	"github.com/minios-linux/l10nconv/tree"
	"github.com/minios-linux/l10nconv/webdict"
)

// ErrVerify is returned when a written file does not read back to the
// entries it was rendered from.
var ErrVerify = errors.New("output does not read back as written")

// verify reads the file written for format back through the format's parser
// and compares it, entry by entry, with a fresh rendering of root.
//
// RESX files are only checked when EscapeXML is set: raw values may contain
// markup, so an unescaped file is not guaranteed to be well-formed XML.
func (c *Converter) verify(root *tree.Node, format config.Format, path string) error {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return err
	}

	switch format {
	case config.FormatAndroid:
		want, err := android.FromTree(root)
		if err != nil {
			return err
		}
		got, err := android.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", path, ErrVerify, err)
		}
		return compareEntries(path, want.Keys(), got.Keys(), want.Get, got.Get)

	case config.FormatResx:
		if !c.cfg.Resx.EscapeXML {
			return nil
		}
		// Parse decodes entities, so compare against the unescaped rendering.
		want, err := resx.FromTree(root, resx.Options{})
		if err != nil {
			return err
		}
		got, err := resx.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", path, ErrVerify, err)
		}
		return compareEntries(path, want.Names(), got.Names(), want.Get, got.Get)

	case config.FormatWeb:
		want, err := webdict.FromTree(root)
		if err != nil {
			return err
		}
		got, err := webdict.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", path, ErrVerify, err)
		}
		return compareEntries(path, want.Keys(), got.Keys(), want.Get, got.Get)
	}
	return fmt.Errorf("%w %q", config.ErrUnknownFormat, format)
}

func compareEntries(path string, wantKeys, gotKeys []string, want, got func(string) (string, bool)) error {
	if len(gotKeys) != len(wantKeys) {
		return fmt.Errorf("%s: %w: %d entries, want %d", path, ErrVerify, len(gotKeys), len(wantKeys))
	}
	for i, k := range wantKeys {
		if gotKeys[i] != k {
			return fmt.Errorf("%s: %w: entry %d is %q, want %q", path, ErrVerify, i+1, gotKeys[i], k)
		}
		wv, _ := want(k)
		gv, _ := got(k)
		if gv != wv {
			return fmt.Errorf("%s: %w: %q is %q, want %q", path, ErrVerify, k, gv, wv)
		}
	}
	return nil
}
