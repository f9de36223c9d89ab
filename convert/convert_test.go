package convert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/l10nconv/config"
	"github.com/minios-linux/l10nconv/tree"
)

const enJSON = `{
  "app": {"title": "Notes", "greeting": "Hello {name}, you have {count} notes"},
  "legal": "Terms & <Conditions>",
  "count": 3
}`

const zhJSON = `{
  "app": {"title": "笔记", "greeting": "{name}，你有 {count} 条笔记"},
  "legal": "条款",
  "count": 3
}`

type generated struct {
	lang   string
	format config.Format
	path   string
}

func newTestConverter(t *testing.T, files map[string]string) (*Converter, *MemFS, *[]generated) {
	t.Helper()
	mem := NewMemFS()
	for name, data := range files {
		if err := mem.WriteFile(name, []byte(data)); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	var got []generated
	c := New(config.Default(), mem, ReporterFunc(func(lang string, format config.Format, path string) {
		got = append(got, generated{lang, format, path})
	}))
	return c, mem, &got
}

func readString(t *testing.T, fsys FS, name string) string {
	t.Helper()
	data, err := fsys.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", name, err)
	}
	return string(data)
}

func TestRun_AllLanguagesAndFormats(t *testing.T) {
	c, mem, got := newTestConverter(t, map[string]string{
		"locales/en.json": enJSON,
		"locales/zh.json": zhJSON,
	})

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []generated{
		{"en", config.FormatAndroid, "locales/android/strings_en.xml"},
		{"en", config.FormatResx, "locales/windows/resx_en.resx"},
		{"en", config.FormatWeb, "locales/web/en_web.json"},
		{"zh", config.FormatAndroid, "locales/android/strings_zh.xml"},
		{"zh", config.FormatResx, "locales/windows/resx_zh.resx"},
		{"zh", config.FormatWeb, "locales/web/zh_web.json"},
	}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("reported %v\nwant %v", *got, want)
	}

	androidXML := readString(t, mem, "locales/android/strings_en.xml")
	wantAndroid := `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="app_title">Notes</string>
    <string name="app_greeting">Hello %1$s, you have %2$s notes</string>
    <string name="legal">Terms &amp; &lt;Conditions&gt;</string>
    <string name="count">3</string>
</resources>
`
	if androidXML != wantAndroid {
		t.Errorf("android output:\n%s\nwant:\n%s", androidXML, wantAndroid)
	}

	resxXML := readString(t, mem, "locales/windows/resx_zh.resx")
	if !strings.Contains(resxXML, "<value>{0}，你有 {1} 条笔记</value>") {
		t.Errorf("resx output missing rewritten greeting:\n%s", resxXML)
	}

	web := readString(t, mem, "locales/web/en_web.json")
	wantWeb := `{
  "app.greeting": "Hello {{name}}, you have {{count}} notes",
  "app.title": "Notes",
  "count": "3",
  "legal": "Terms & <Conditions>"
}
`
	if web != wantWeb {
		t.Errorf("web output:\n%s\nwant:\n%s", web, wantWeb)
	}
}

func TestRun_Idempotent(t *testing.T) {
	c, mem, _ := newTestConverter(t, map[string]string{
		"locales/en.json": enJSON,
		"locales/zh.json": zhJSON,
	})
	if err := c.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := make(map[string]string)
	for _, n := range mem.Names() {
		first[n] = readString(t, mem, n)
	}

	if err := c.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	for _, n := range mem.Names() {
		if got := readString(t, mem, n); got != first[n] {
			t.Errorf("%s changed between runs", n)
		}
	}
}

func TestRun_FailFast(t *testing.T) {
	c, mem, got := newTestConverter(t, map[string]string{
		"locales/en.json": `{"a": ["list"]}`,
		"locales/zh.json": zhJSON,
	})

	err := c.Run()
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("Run error = %v, want *StepError", err)
	}
	if se.Lang != "en" || se.Format != config.FormatAndroid {
		t.Errorf("StepError = %+v, want en/android", se)
	}
	if !errors.Is(err, tree.ErrUnsupportedValue) {
		t.Errorf("error does not wrap ErrUnsupportedValue: %v", err)
	}
	if len(*got) != 0 {
		t.Errorf("reported %v, want nothing", *got)
	}
	// The source files are the only files present.
	if names := mem.Names(); len(names) != 2 {
		t.Errorf("files = %v, want only inputs", names)
	}
}

func TestRun_KeepGoingReportsAllFailures(t *testing.T) {
	c, _, got := newTestConverter(t, map[string]string{
		"locales/zh.json": zhJSON,
	})
	c.KeepGoing = true

	err := c.Run()
	if err == nil {
		t.Fatal("expected error for missing en.json")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
	// One failure per format for "en".
	if n := strings.Count(err.Error(), "en ["); n != 3 {
		t.Errorf("error mentions %d en steps, want 3: %v", n, err)
	}
	if len(*got) != 3 {
		t.Fatalf("reported %d outputs, want 3 (zh only): %v", len(*got), *got)
	}
	for _, g := range *got {
		if g.lang != "zh" {
			t.Errorf("unexpected report %+v", g)
		}
	}
}

func TestRun_MalformedJSON(t *testing.T) {
	c, _, _ := newTestConverter(t, map[string]string{
		"locales/en.json": `{"a": `,
	})
	err := c.Run()
	if err == nil || !strings.Contains(err.Error(), "locales/en.json") {
		t.Fatalf("Run error = %v, want error naming the input file", err)
	}
}

func TestRun_FormatSubsetAndResxEscape(t *testing.T) {
	c, mem, got := newTestConverter(t, map[string]string{
		"locales/en.json": `{"x": "a & b"}`,
	})
	c.cfg.Languages = []string{"en"}
	c.cfg.Formats = []config.Format{config.FormatResx}
	c.cfg.Resx.EscapeXML = true

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("reported %v, want one resx file", *got)
	}
	if out := readString(t, mem, "locales/windows/resx_en.resx"); !strings.Contains(out, "<value>a &amp; b</value>") {
		t.Errorf("resx output not escaped:\n%s", out)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	root, _ := tree.Parse([]byte(`{"a": "b"}`))
	if _, err := Render(root, "ios", config.Default()); !errors.Is(err, config.ErrUnknownFormat) {
		t.Fatalf("Render error = %v, want ErrUnknownFormat", err)
	}
}

func TestDirFS(t *testing.T) {
	dir := t.TempDir()
	d := DirFS(dir)

	if err := d.WriteFile("a/b/c.txt", []byte("hi")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a", "b", "c.txt")); err != nil {
		t.Fatalf("file not created on disk: %v", err)
	}
	if got := readString(t, d, "a/b/c.txt"); got != "hi" {
		t.Errorf("ReadFile = %q", got)
	}
	if _, err := d.ReadFile("missing.json"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestRun_OnDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "locales"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for lang, data := range map[string]string{"en": enJSON, "zh": zhJSON} {
		if err := os.WriteFile(filepath.Join(dir, "locales", lang+".json"), []byte(data), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	if err := New(config.Default(), DirFS(dir), nil).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, p := range []string{
		"locales/android/strings_zh.xml",
		"locales/windows/resx_zh.resx",
		"locales/web/zh_web.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p))); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

// rewritingFS alters every written file, standing in for a writer that
// loses or mangles data.
type rewritingFS struct {
	*MemFS
	old, new string
}

func (r rewritingFS) WriteFile(name string, data []byte) error {
	return r.MemFS.WriteFile(name, []byte(strings.ReplaceAll(string(data), r.old, r.new)))
}

func TestRun_VerifyAcceptsOwnOutput(t *testing.T) {
	c, _, got := newTestConverter(t, map[string]string{
		"locales/en.json": enJSON,
		"locales/zh.json": `{"q": "It's \"x\" & {y}", "a": {"b": " "}}`,
	})
	c.Verify = true
	c.cfg.Resx.EscapeXML = true

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(*got) != 6 {
		t.Fatalf("reported %d files, want 6", len(*got))
	}
}

func TestRun_VerifyDetectsMismatch(t *testing.T) {
	tests := []struct {
		name      string
		format    config.Format
		escapeXML bool
		old, new  string
		wantErr   bool
	}{
		{name: "android value", format: config.FormatAndroid, old: ">Notes<", new: ">Nope<", wantErr: true},
		{name: "android dropped entry", format: config.FormatAndroid, old: `    <string name="count">3</string>` + "\n", new: "", wantErr: true},
		{name: "android malformed", format: config.FormatAndroid, old: "</resources>", new: "", wantErr: true},
		{name: "web key", format: config.FormatWeb, old: `"count"`, new: `"total"`, wantErr: true},
		{name: "escaped resx value", format: config.FormatResx, escapeXML: true, old: "{1}", new: "{2}", wantErr: true},
		{name: "raw resx is not read back", format: config.FormatResx, old: "{1}", new: "{2}"},
		{name: "untouched output", format: config.FormatWeb, old: "no such text", new: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mem := NewMemFS()
			if err := mem.WriteFile("locales/en.json", []byte(enJSON)); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			cfg := config.Default()
			cfg.Languages = []string{"en"}
			cfg.Formats = []config.Format{tc.format}
			cfg.Resx.EscapeXML = tc.escapeXML

			c := New(cfg, rewritingFS{MemFS: mem, old: tc.old, new: tc.new}, nil)
			c.Verify = true
			err := c.Run()

			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Run: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrVerify) {
				t.Fatalf("Run error = %v, want ErrVerify", err)
			}
			var se *StepError
			if !errors.As(err, &se) || se.Format != tc.format {
				t.Fatalf("Run error = %v, want StepError for %s", err, tc.format)
			}
		})
	}
}

func TestRun_WithoutVerifyTrustsWriter(t *testing.T) {
	mem := NewMemFS()
	if err := mem.WriteFile("locales/en.json", []byte(enJSON)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := config.Default()
	cfg.Languages = []string{"en"}
	c := New(cfg, rewritingFS{MemFS: mem, old: "Notes", new: "Nope"}, nil)
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
