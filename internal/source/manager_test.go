package source

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeCSVFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManagerOpenGetRemove(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFile(t, dir, "sales.csv", salesCSV)

	m := NewManager()
	if err := m.Open(Config{Name: "sales", Driver: "csv", Path: path}); err != nil {
		t.Fatal(err)
	}

	src, err := m.Get("sales")
	if err != nil {
		t.Fatal(err)
	}
	if src.Driver() != "csv" {
		t.Errorf("driver = %q", src.Driver())
	}

	if _, err := m.Get("missing"); err == nil || !strings.Contains(err.Error(), "available: [sales]") {
		t.Errorf("missing source error = %v", err)
	}

	if err := m.Remove("sales"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("sales"); err == nil {
		t.Error("removed source should not resolve")
	}
}

func TestManagerOpenRequiresName(t *testing.T) {
	if err := NewManager().Open(Config{Driver: "csv"}); err == nil {
		t.Error("expected error for unnamed source")
	}
}

func TestManagerOpenUnknownDriver(t *testing.T) {
	err := NewManager().Open(Config{Name: "x", Driver: "mongodb"})
	if err == nil || !strings.Contains(err.Error(), "unsupported driver") {
		t.Errorf("err = %v", err)
	}
}

func TestManagerReplaceExisting(t *testing.T) {
	dir := t.TempDir()
	first := writeCSVFile(t, dir, "first.csv", "a\n1\n")
	second := writeCSVFile(t, dir, "second.csv", "b\n2\n")

	m := NewManager()
	if err := m.Open(Config{Name: "data", Driver: "csv", Path: first}); err != nil {
		t.Fatal(err)
	}
	if err := m.Open(Config{Name: "data", Driver: "csv", Path: second}); err != nil {
		t.Fatal(err)
	}
	src, _ := m.Get("data")
	if src.(*CSVSource).Table() != "second" {
		t.Errorf("table = %q, want the replacing source", src.(*CSVSource).Table())
	}
	if got := m.List(); !reflect.DeepEqual(got, []string{"data"}) {
		t.Errorf("list = %v", got)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeCSVFile(t, dir, "sales.csv", salesCSV)
	manifestPath := filepath.Join(dir, "sources.yaml")

	m := NewManager()
	if err := m.Open(Config{Name: "sales", Driver: "csv", Path: filepath.Join(dir, "sales.csv")}); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveManifest(manifestPath); err != nil {
		t.Fatal(err)
	}

	restored := NewManager()
	if err := restored.LoadManifest(manifestPath); err != nil {
		t.Fatal(err)
	}
	if got := restored.List(); !reflect.DeepEqual(got, []string{"sales"}) {
		t.Errorf("restored sources = %v", got)
	}
}

func TestManifestExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	writeCSVFile(t, dir, "sales.csv", salesCSV)
	t.Setenv("PLOTFORGE_TEST_DATA_DIR", dir)

	manifestPath := filepath.Join(dir, "sources.yaml")
	content := "sources:\n  - name: sales\n    driver: csv\n    path: ${PLOTFORGE_TEST_DATA_DIR}/sales.csv\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.LoadManifest(manifestPath); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("sales"); err != nil {
		t.Error(err)
	}
}
