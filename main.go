// Command l10nconv converts hierarchical JSON translations into Android, Windows
// RESX and web dictionary files.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/minios-linux/l10nconv/config"
	"github.com/minios-linux/l10nconv/convert"
	"github.com/minios-linux/l10nconv/csvbridge"
	"github.com/minios-linux/l10nconv/i18n"
	"github.com/minios-linux/l10nconv/langmeta"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "l10nconv",
		Short: "Convert JSON translations to Android, Windows and web formats",
		Long: `l10nconv converts hierarchical JSON translation files into
platform localization formats.

For every configured language, locales/<lang>.json is converted to:
  android   locales/android/strings_<lang>.xml   (%1$s placeholders)
  resx      locales/windows/resx_<lang>.resx     ({0} placeholders)
  web       locales/web/<lang>_web.json          ({{name}} placeholders)

Languages and paths can be changed in .l10nconv.yaml or .l10nconv.toml.

Commands:
  convert     Generate all output files
  csv         Exchange web dictionaries with translators as CSV
  languages   List configured languages`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .l10nconv.yaml/.yml/.toml in root)")

	root.AddCommand(
		newConvertCmd(),
		newCSVCmd(),
		newLanguagesCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadConfig loads the project configuration and applies --lang overrides.
func loadConfig(langs string) (*config.Config, error) {
	cfg, path, err := config.Load(rootDir, configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logInfo(i18n.T("Using config %s"), path)
	}
	if langs != "" {
		cfg.Languages = config.ParseLanguages(langs)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("l10nconv version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

// formatLabels names each format in confirmation messages.
var formatLabels = map[config.Format]string{
	config.FormatAndroid: "Android XML",
	config.FormatResx:    "Windows RESX",
	config.FormatWeb:     "Web JSON",
}

// formatsValue is a --format flag holding a parsed format list.
type formatsValue []config.Format

var _ pflag.Value = (*formatsValue)(nil)

func (v *formatsValue) String() string {
	names := make([]string, len(*v))
	for i, f := range *v {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

func (v *formatsValue) Set(s string) error {
	formats, err := config.ParseFormats(s)
	if err != nil {
		return err
	}
	*v = formats
	return nil
}

func (v *formatsValue) Type() string { return "formats" }

func newConvertCmd() *cobra.Command {
	var (
		langs     string
		formats   formatsValue
		keepGoing bool
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Generate Android, RESX and web files for every language",
		Long: `Convert locales/<lang>.json for every configured language into every
configured output format. Existing output files are overwritten.

By default the first failure stops the run. With --keep-going every
(language, format) pair is attempted and all failures are reported.

With --verify every written file is parsed back and compared with the
entries it was rendered from. RESX files are only checked when
resx.escape_xml is enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(langs)
			if err != nil {
				return err
			}
			if len(formats) > 0 {
				cfg.Formats = formats
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return runConvert(cfg, convert.DirFS(rootDir), keepGoing, verify)
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "", "Languages to convert (comma-separated, default: from config)")
	cmd.Flags().Var(&formats, "format", "Formats to generate: android, resx, web (comma-separated, default: all)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue after a failed conversion and report all failures")
	cmd.Flags().BoolVar(&verify, "verify", false, "Read every written file back and check it")

	return cmd
}

func runConvert(cfg *config.Config, fsys convert.FS, keepGoing, verify bool) error {
	c := convert.New(cfg, fsys, convert.ReporterFunc(func(lang string, format config.Format, path string) {
		logSuccess(i18n.T("Generated %s: %s"), formatLabels[format], path)
	}))
	c.KeepGoing = keepGoing
	c.Verify = verify

	err := c.Run()
	if err == nil {
		logInfo(i18n.T("Conversion finished"))
		return nil
	}

	failures := stepErrors(err)
	if len(failures) <= 1 {
		return err
	}
	for _, se := range failures {
		logError("%v", se)
	}
	total := len(cfg.Languages) * len(cfg.Formats)
	return fmt.Errorf(i18n.T("%d of %d conversions failed"), len(failures), total)
}

// stepErrors unpacks the per-step failures of a joined error.
func stepErrors(err error) []*convert.StepError {
	var out []*convert.StepError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, stepErrors(e)...)
		}
		return out
	}
	var se *convert.StepError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}

// ---------------------------------------------------------------------------
// csv
// ---------------------------------------------------------------------------

func newCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Exchange web dictionaries with translators as CSV",
		Long: `Export web dictionaries to translator spreadsheets and import them back.

The CSV has three columns: Key, source text and target text. Run
"l10nconv convert" first so the web dictionaries are up to date.`,
	}

	cmd.AddCommand(newCSVExportCmd(), newCSVImportCmd())
	return cmd
}

func newCSVExportCmd() *cobra.Command {
	var (
		langs  string
		source string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write translations/<lang>_web.csv from the web dictionaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			if source == "" {
				source = cfg.CSV.SourceLang
			}
			if err := config.ValidateLanguage(source); err != nil {
				return err
			}
			targets, err := csvTargets(cfg, langs, source)
			if err != nil {
				return err
			}

			fsys := convert.DirFS(rootDir)
			for _, lang := range targets {
				path, rows, err := csvbridge.Export(fsys, cfg, source, lang)
				if err != nil {
					return err
				}
				logSuccess(i18n.T("Exported %d keys to %s"), rows, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "", "Target languages (comma-separated, default: all except source)")
	cmd.Flags().StringVar(&source, "source", "", "Source language column (default: csv.source_lang from config)")

	return cmd
}

func newCSVImportCmd() *cobra.Command {
	var langs string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Rebuild web dictionaries from translations/<lang>_web.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			targets, err := csvTargets(cfg, langs, cfg.CSV.SourceLang)
			if err != nil {
				return err
			}

			fsys := convert.DirFS(rootDir)
			for _, lang := range targets {
				path, res, err := csvbridge.Import(fsys, cfg, lang)
				if err != nil {
					return err
				}
				for _, key := range res.Duplicates {
					logWarning(i18n.T("Duplicate key %q ignored"), key)
				}
				for _, key := range res.Mismatched {
					logWarning(i18n.T("Placeholders of %q differ from the source text"), key)
				}
				if res.Fallbacks > 0 {
					logWarning(i18n.N("%d key has no translation, source text used",
						"%d keys have no translation, source text used", res.Fallbacks), res.Fallbacks)
				}
				logSuccess(i18n.T("Imported %d keys into %s"), res.Dict.Len(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "", "Target languages (comma-separated, default: all except source)")

	return cmd
}

// csvTargets resolves the --lang flag for csv commands: the given languages,
// or every configured language except the source.
func csvTargets(cfg *config.Config, langs, source string) ([]string, error) {
	if langs != "" {
		targets := config.ParseLanguages(langs)
		for _, lang := range targets {
			if err := config.ValidateLanguage(lang); err != nil {
				return nil, err
			}
		}
		return targets, nil
	}
	targets := filterOutLang(cfg.Languages, source)
	if len(targets) == 0 {
		return nil, fmt.Errorf(i18n.T("no target languages besides %s configured"), source)
	}
	return targets, nil
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List configured languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			width := langColumnWidth(cfg.Languages)
			for _, lang := range cfg.Languages {
				m := langmeta.Resolve(lang)
				fmt.Printf("%s  %s (%s)\n", langCell(lang, m.Flag, width), m.Name, m.English)
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func langColumnWidth(langs []string) int {
	width := 0
	for _, lang := range langs {
		if len(lang) > width {
			width = len(lang)
		}
	}
	return width
}

func langCell(lang, flag string, width int) string {
	if flag == "" {
		flag = "  "
	}
	return flag + " " + lang + strings.Repeat(" ", width-len(lang))
}

func filterOutLang(langs []string, exclude string) []string {
	var result []string
	for _, lang := range langs {
		if lang != exclude {
			result = append(result, lang)
		}
	}
	return result
}
