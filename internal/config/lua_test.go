package config

import (
	"image/color"
	"strings"
	"testing"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

func newTestParser(t *testing.T) *LuaConfigParser {
	t.Helper()
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestLuaConfigParserParseFull(t *testing.T) {
	p := newTestParser(t)

	content := `
local size = 300
tessplay.config = {
    bundle = "anims/marty.yaml",
    artboard = 2,
    state_machine = "State Machine 1",
    width = size * 2, height = size,
    title = "marty",
    background = "#102030",
    fit = "cover", alignment = "top_left",
    flip_y = true,
    watch = true,
    hud = "yes",
    tps = 30.0,
    anti_alias = false,
    resizable = false,
}
`
	cfg, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Config{
		Bundle: BundleConfig{Path: "anims/marty.yaml", Artboard: 2, StateMachine: "State Machine 1", Watch: true},
		Window: WindowConfig{Width: 600, Height: 300, Title: "marty"},
		Display: DisplayConfig{
			Background: color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff},
			Fit:        vg.FitCover,
			Alignment:  vg.AlignTopLeft,
			FlipY:      true,
			ShowHUD:    true,
			TPS:        30,
		},
	}
	if *cfg != want {
		t.Errorf("Parse() =\n%+v\nwant\n%+v", *cfg, want)
	}
}

func TestLuaConfigParserDefaults(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"empty table", "tessplay.config = {}"},
		{"config removed", "tessplay.config = nil"},
		{"tessplay removed", "tessplay = nil"},
		{"wrong value types", `tessplay.config = { width = "wide", flip_y = 3 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := p.Parse([]byte(tt.content))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if *cfg != DefaultConfig() {
				t.Errorf("Parse() = %+v, want defaults", *cfg)
			}
		})
	}
}

func TestLuaConfigParserReuse(t *testing.T) {
	p := newTestParser(t)

	if _, err := p.Parse([]byte(`tessplay.config = { width = 10 }`)); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
	cfg, err := p.Parse([]byte(`tessplay.config.height = 20`))
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	if cfg.Window.Width != DefaultWidth || cfg.Window.Height != 20 {
		t.Errorf("size = %dx%d, previous config leaked", cfg.Window.Width, cfg.Window.Height)
	}
}

func TestLuaConfigParserErrors(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"syntax error", "tessplay.config = {", "config"},
		{"runtime error", `error("nope")`, "nope"},
		{"tessplay not a table", "tessplay = 1", "tessplay is not a table"},
		{"config not a table", "tessplay.config = 'x'", "tessplay.config is not a table"},
		{"bad fit", `tessplay.config = { fit = "sideways" }`, "invalid fit"},
		{"bad alignment", `tessplay.config = { alignment = "middle" }`, "invalid alignment"},
		{"bad background", `tessplay.config = { background = "#12" }`, "invalid background"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}
