package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

const sampleConfig = `
tessplay.config = {
    bundle = "marty.yaml",
    title = "${TESSPLAY_TEST_TITLE:-tessplay}",
}
`

func TestParserParseFileResolvesBundle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tessplay.lua")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TESSPLAY_TEST_TITLE", "from env")

	cfg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if want := filepath.Join(dir, "marty.yaml"); cfg.Bundle.Path != want {
		t.Errorf("Bundle.Path = %q, want %q", cfg.Bundle.Path, want)
	}
	if cfg.Window.Title != "from env" {
		t.Errorf("Window.Title = %q", cfg.Window.Title)
	}
}

func TestParserParseFileAbsoluteBundle(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.yaml")
	path := filepath.Join(dir, "tessplay.lua")
	content := "tessplay.config = { bundle = '" + filepath.ToSlash(abs) + "' }"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if cfg.Bundle.Path != filepath.ToSlash(abs) {
		t.Errorf("Bundle.Path = %q, want %q", cfg.Bundle.Path, abs)
	}
}

func TestParserParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParserParseKeepsRelativeBundle(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Bundle.Path != "marty.yaml" {
		t.Errorf("Bundle.Path = %q", cfg.Bundle.Path)
	}
}

func TestParserParseFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"configs/tessplay.lua": {Data: []byte(sampleConfig)},
	}
	p, err := NewParser()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	cfg, err := p.ParseFromFS(fsys, "configs/tessplay.lua")
	if err != nil {
		t.Fatalf("ParseFromFS failed: %v", err)
	}
	if cfg.Bundle.Path != "configs/marty.yaml" {
		t.Errorf("Bundle.Path = %q", cfg.Bundle.Path)
	}
	if _, err := p.ParseFromFS(fsys, "missing.lua"); err == nil {
		t.Error("expected an error for a missing FS entry")
	}
}
