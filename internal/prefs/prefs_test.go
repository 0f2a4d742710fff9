package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/logbuf/internal/entry"
	"github.com/five82/logbuf/internal/view"
)

func writePrefs(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %+v, want %+v", p, Default())
	}
	if !p.Follow {
		t.Fatal("Follow = false, want true by default")
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writePrefs(t, filepath.Join(home, ".config", "logbuf", "prefs.toml"), `
theme = "Slate"
order = "desc"
minimum_severity = "warn"
follow = false
`)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.MinimumSeverity != entry.Warning || p.Follow {
		t.Fatalf("Load = %+v", p)
	}
	if p.Order == nil || *p.Order != view.Descending {
		t.Fatalf("Order = %v, want desc", p.Order)
	}
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writePrefs(t, path, "order = \"desc\"\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Order == nil || *p.Order != view.Descending {
		t.Fatalf("Order = %v, want desc", p.Order)
	}
	if p.Theme != defaultTheme || !p.Follow || p.MinimumSeverity != entry.Verbose {
		t.Fatalf("Load = %+v, want defaults apart from order", p)
	}
}

func TestSave_RoundTripCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Prefs{Theme: "Slate", MinimumSeverity: entry.Error, Follow: false}.WithOrder(view.Descending)
	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != p.Theme || loaded.MinimumSeverity != p.MinimumSeverity || loaded.Follow != p.Follow {
		t.Fatalf("Load = %+v, want %+v", loaded, p)
	}
	if loaded.Order == nil || *loaded.Order != view.Descending {
		t.Fatalf("Order = %v, want desc", loaded.Order)
	}
}

func TestSave_OmitsUnsetOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "order") {
		t.Fatalf("saved prefs mention order:\n%s", data)
	}
	if !strings.Contains(string(data), `minimum_severity = 'verbose'`) && !strings.Contains(string(data), `minimum_severity = "verbose"`) {
		t.Fatalf("saved prefs missing minimum_severity:\n%s", data)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writePrefs(t, path, "theme = \"\"\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidContentFallsBackToDefault(t *testing.T) {
	for name, body := range map[string]string{
		"bad toml":     "not valid toml {{{\n",
		"bad severity": "minimum_severity = \"loud\"\n",
		"bad order":    "order = \"sideways\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			writePrefs(t, path, body)

			p, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p != Default() {
				t.Fatalf("Load = %+v, want defaults", p)
			}
		})
	}
}
