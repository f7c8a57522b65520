package config

import (
	"fmt"
	"strings"
	"sync"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-tessplay/internal/lua"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// LuaConfigParser parses Lua configuration files. It runs the file in a
// sandboxed runtime and reads the tessplay.config table it leaves behind.
type LuaConfigParser struct {
	runtime *lua.Runtime
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
// Lua print output is captured, not echoed.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	cfg := lua.DefaultConfig()
	cfg.Stdout = nil
	runtime, err := lua.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create Lua runtime: %w", err)
	}
	return &LuaConfigParser{runtime: runtime}, nil
}

// Parse runs content and extracts the configuration from tessplay.config.
// Missing keys keep their DefaultConfig values.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initGlobal()
	if _, err := p.runtime.ExecuteString("config", string(content)); err != nil {
		return nil, fmt.Errorf("run Lua configuration: %w", err)
	}
	return p.extractConfig()
}

// initGlobal installs an empty tessplay.config table.
func (p *LuaConfigParser) initGlobal() {
	tessplay := rt.NewTable()
	tessplay.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.SetGlobal("tessplay", rt.TableValue(tessplay))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	tessplayVal := p.runtime.GetGlobal("tessplay")
	if tessplayVal == rt.NilValue {
		return &cfg, nil
	}
	tessplay, ok := tessplayVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("tessplay is not a table")
	}

	configVal := tessplay.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return &cfg, nil
	}
	table, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("tessplay.config is not a table")
	}
	if err := extractConfigTable(&cfg, table); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func extractConfigTable(cfg *Config, table *rt.Table) error {
	// Bundle
	if val := getTableString(table, "bundle"); val != nil {
		cfg.Bundle.Path = *val
	}
	if val := getTableInt(table, "artboard"); val != nil {
		cfg.Bundle.Artboard = *val
	}
	if val := getTableString(table, "state_machine"); val != nil {
		cfg.Bundle.StateMachine = *val
	}
	if val := getTableBool(table, "watch"); val != nil {
		cfg.Bundle.Watch = *val
	}

	// Window
	if val := getTableInt(table, "width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableBool(table, "resizable"); val != nil {
		cfg.Window.Resizable = *val
	}

	// Display
	if val := getTableBool(table, "flip_y"); val != nil {
		cfg.Display.FlipY = *val
	}
	if val := getTableBool(table, "hud"); val != nil {
		cfg.Display.ShowHUD = *val
	}
	if val := getTableBool(table, "anti_alias"); val != nil {
		cfg.Display.AntiAlias = *val
	}
	if val := getTableInt(table, "tps"); val != nil {
		cfg.Display.TPS = *val
	}
	if val := getTableString(table, "background"); val != nil {
		c, err := vg.ParseColor(*val)
		if err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
		cfg.Display.Background = c.RGBA()
	}
	if val := getTableString(table, "fit"); val != nil {
		fit, err := vg.ParseFit(*val)
		if err != nil {
			return fmt.Errorf("invalid fit: %w", err)
		}
		cfg.Display.Fit = fit
	}
	if val := getTableString(table, "alignment"); val != nil {
		a, err := vg.ParseAlignment(*val)
		if err != nil {
			return fmt.Errorf("invalid alignment: %w", err)
		}
		cfg.Display.Alignment = a
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.runtime.Close()
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	// "yes"/"no" strings for hand-edited files.
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}

// getTableString retrieves a string value from a Lua table.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table. Floats are
// truncated.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}
