package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Parser reads configuration files and post-processes the result:
// environment references are expanded and a relative bundle path is
// resolved against the configuration file's directory.
type Parser struct {
	luaParser *LuaConfigParser
}

// NewParser creates a new Parser.
func NewParser() (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	return &Parser{luaParser: luaParser}, nil
}

// ParseFile reads and parses a configuration file.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Bundle.Path = resolvePath(filepath.Dir(path), cfg.Bundle.Path)
	return cfg, nil
}

// Parse parses configuration content. Relative bundle paths are left
// as written.
func (p *Parser) Parse(content []byte) (*Config, error) {
	cfg, err := p.luaParser.Parse(content)
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(cfg)
	return cfg, nil
}

// ParseFromFS reads and parses a configuration file from fsys. The bundle
// path is resolved against the file's directory within fsys.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	cfg, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Bundle.Path != "" && !filepath.IsAbs(cfg.Bundle.Path) {
		cfg.Bundle.Path = filepath.ToSlash(filepath.Join(filepath.Dir(path), cfg.Bundle.Path))
	}
	return cfg, nil
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Parse parses configuration content with a temporary Parser.
func Parse(content []byte) (*Config, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(content)
}

// ParseFile parses the configuration file at path with a temporary Parser.
func ParseFile(path string) (*Config, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseFile(path)
}
