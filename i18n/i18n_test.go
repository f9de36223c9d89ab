package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguage(t *testing.T) {
	t.Run("LANGUAGE list takes first entry", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "zh_CN.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "zh_CN" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "zh_CN")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LC_ALL", "C")
		t.Setenv("LC_MESSAGES", "POSIX")
		t.Setenv("LANG", "ru_RU.UTF-8")

		if got := detectLanguage(); got != "ru_RU" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ru_RU")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Generated %s: %s"); got != "Generated %s: %s" {
		t.Fatalf("T fallback = %q", got)
	}
	if got := N("%d file", "%d files", 1); got != "%d file" {
		t.Fatalf("N singular fallback = %q", got)
	}
	if got := N("%d file", "%d files", 3); got != "%d files" {
		t.Fatalf("N plural fallback = %q", got)
	}
}

func TestInitTranslates(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("zh")
	if got := T("Conversion finished"); got != "转换完成" {
		t.Fatalf("T(zh) = %q, want %q", got, "转换完成")
	}
	if got := N("%d key has no translation, source text used",
		"%d keys have no translation, source text used", 5); got != "%d 个键没有翻译，已使用源文本" {
		t.Fatalf("N(zh) = %q", got)
	}
	if got := T("message without translation"); got != "message without translation" {
		t.Fatalf("T passthrough = %q", got)
	}
}
