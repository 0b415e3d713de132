package config

import (
	"fmt"
	"os"
	"strconv"
)

// Source names where a resolved value came from.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds the values of command-line flags. A flag left at its zero
// value is treated as unset, except Debug which tracks DebugSet.
type CliFlags struct {
	ConfigPath  string
	ProjectRoot string
	SourceRoot  string
	Theme       string
	Format      string
	Debug       bool
	DebugSet    bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	ProjectRoot string
	SourceRoot  string
	Theme       string
	Format      string
	Debug       bool
	NoColor     bool

	// Resolution metadata (for debug logging)
	ConfigPath   string // empty when no file was read
	ThemeSource  string
	FormatSource string
}

// ResolveConfig resolves configuration from all sources with explicit
// priority order: CLI > env > file > defaults.
func ResolveConfig(flags CliFlags) (*ResolvedConfig, error) {
	resolved := &ResolvedConfig{
		ProjectRoot:  DefaultProjectRoot,
		SourceRoot:   DefaultSourceRoot,
		Theme:        DefaultTheme,
		Format:       DefaultFormat,
		ThemeSource:  SourceDefault,
		FormatSource: SourceDefault,
	}

	configPath := flags.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("SCALAFO_CONFIG")
	}
	if configPath != "" {
		file, err := LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		resolved.applyFile(file)
		resolved.ConfigPath = configPath
	}

	if err := resolved.applyEnv(); err != nil {
		return nil, err
	}
	resolved.applyFlags(flags)

	if resolved.NoColor && resolved.ThemeSource != SourceCLI {
		resolved.Theme = "mono"
	}

	if !oneOf(resolved.Theme, Themes) {
		return nil, fmt.Errorf("theme %q (from %s): must be one of %v", resolved.Theme, resolved.ThemeSource, Themes)
	}
	if !oneOf(resolved.Format, Formats) {
		return nil, fmt.Errorf("format %q (from %s): must be one of %v", resolved.Format, resolved.FormatSource, Formats)
	}
	return resolved, nil
}

func (r *ResolvedConfig) applyFile(f *FileConfig) {
	if f.ProjectRoot != "" {
		r.ProjectRoot = f.ProjectRoot
	}
	if f.SourceRoot != "" {
		r.SourceRoot = f.SourceRoot
	}
	if f.Theme != "" {
		r.Theme, r.ThemeSource = f.Theme, SourceFile
	}
	if f.Format != "" {
		r.Format, r.FormatSource = f.Format, SourceFile
	}
	if f.Debug != nil {
		r.Debug = *f.Debug
	}
	if f.NoColor != nil {
		r.NoColor = *f.NoColor
	}
}

func (r *ResolvedConfig) applyEnv() error {
	if v := os.Getenv("SCALAFO_ROOT"); v != "" {
		r.ProjectRoot = v
	}
	if v := os.Getenv("SCALAFO_SOURCE_ROOT"); v != "" {
		r.SourceRoot = v
	}
	if v := os.Getenv("SCALAFO_THEME"); v != "" {
		r.Theme, r.ThemeSource = v, SourceEnv
	}
	if v := os.Getenv("SCALAFO_FORMAT"); v != "" {
		r.Format, r.FormatSource = v, SourceEnv
	}
	if v := os.Getenv("SCALAFO_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SCALAFO_DEBUG=%q: %w", v, err)
		}
		r.Debug = b
	}
	// https://no-color.org: presence with any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		r.NoColor = true
	}
	return nil
}

func (r *ResolvedConfig) applyFlags(f CliFlags) {
	if f.ProjectRoot != "" {
		r.ProjectRoot = f.ProjectRoot
	}
	if f.SourceRoot != "" {
		r.SourceRoot = f.SourceRoot
	}
	if f.Theme != "" {
		r.Theme, r.ThemeSource = f.Theme, SourceCLI
	}
	if f.Format != "" {
		r.Format, r.FormatSource = f.Format, SourceCLI
	}
	if f.DebugSet {
		r.Debug = f.Debug
	}
}
