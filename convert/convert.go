// Package convert runs the JSON → Android / RESX / Web conversion for every
// configured (language, format) pair.
//
// Each pair is an independent step: the source file is read and parsed,
// flattened for the target format, rendered and written. Steps run
// sequentially in configuration order (languages outer, formats inner).
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

// StepError is the failure of a single (language, format) step.
type StepError struct {
	Lang   string
	Format config.Format
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Lang, e.Format, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Reporter is notified after each output file is written.
type Reporter interface {
	Generated(lang string, format config.Format, path string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(lang string, format config.Format, path string)

// Generated implements Reporter.
func (f ReporterFunc) Generated(lang string, format config.Format, path string) {
	f(lang, format, path)
}

// Converter converts translation files according to a Config.
type Converter struct {
	cfg    *config.Config
	fs     FS
	report Reporter

	// KeepGoing makes Run attempt every step and return all failures joined,
	// instead of stopping at the first one.
	KeepGoing bool
	// Verify makes each step read its output back and check it against
	// the rendered entries.
	Verify bool
}

// New returns a Converter. report may be nil.
func New(cfg *config.Config, fsys FS, report Reporter) *Converter {
	if report == nil {
		report = ReporterFunc(func(string, config.Format, string) {})
	}
	return &Converter{cfg: cfg, fs: fsys, report: report}
}

// Run converts every configured language to every configured format.
func (c *Converter) Run() error {
	var errs []error
	for _, lang := range c.cfg.Languages {
		for _, format := range c.cfg.Formats {
			path, err := c.Convert(lang, format)
			if err != nil {
				se := &StepError{Lang: lang, Format: format, Err: err}
				if !c.KeepGoing {
					return se
				}
				errs = append(errs, se)
				continue
			}
			c.report.Generated(lang, format, path)
		}
	}
	return errors.Join(errs...)
}

// Convert performs one step and returns the path it wrote.
func (c *Converter) Convert(lang string, format config.Format) (string, error) {
	root, err := c.Load(lang)
	if err != nil {
		return "", err
	}

	data, err := Render(root, format, c.cfg)
	if err != nil {
		return "", err
	}

	out := c.cfg.OutputPath(format, lang)
	if err := c.fs.WriteFile(out, data); err != nil {
		return "", err
	}
	if c.Verify {
		if err := c.verify(root, format, out); err != nil {
			return "", err
		}
	}
	return out, nil
}

// Load reads and parses the source translation file for lang.
func (c *Converter) Load(lang string) (*tree.Node, error) {
	in := c.cfg.InputPath(lang)
	data, err := c.fs.ReadFile(in)
	if err != nil {
		return nil, err
	}
	root, err := tree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	return root, nil
}

// Render serializes root in the given format.
func Render(root *tree.Node, format config.Format, cfg *config.Config) ([]byte, error) {
	switch format {
	case config.FormatAndroid:
		f, err := android.FromTree(root)
		if err != nil {
			return nil, err
		}
		return f.Marshal(), nil

	case config.FormatResx:
		f, err := resx.FromTree(root, resx.Options{EscapeXML: cfg.Resx.EscapeXML})
		if err != nil {
			return nil, err
		}
		return f.Marshal(), nil

	case config.FormatWeb:
		d, err := webdict.FromTree(root)
		if err != nil {
			return nil, err
		}
		return d.Marshal()
	}
	return nil, fmt.Errorf("%w %q", config.ErrUnknownFormat, format)
}
