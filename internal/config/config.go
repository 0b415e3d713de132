package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultProjectRoot = "."
	DefaultSourceRoot  = "src/main/scala/"
	DefaultTheme       = "default"
	DefaultFormat      = "auto"
)

// Valid values for Theme and Format.
var (
	Themes  = []string{"default", "orca", "mono"}
	Formats = []string{"auto", "terminal", "llm", "json"}
)

// ErrUnsupportedConfigFormat is returned for config files that are neither
// YAML nor TOML.
var ErrUnsupportedConfigFormat = errors.New("unsupported config file extension")

// FileConfig is the on-disk configuration. Pointer fields distinguish
// "unset" from the zero value so a file can turn a flag off.
type FileConfig struct {
	ProjectRoot string `yaml:"project_root" toml:"project_root"`
	SourceRoot  string `yaml:"source_root" toml:"source_root"`
	Theme       string `yaml:"theme" toml:"theme"`
	Format      string `yaml:"format" toml:"format"`
	Debug       *bool  `yaml:"debug" toml:"debug"`
	NoColor     *bool  `yaml:"no_color" toml:"no_color"`
}

// LoadFile reads and decodes a config file, choosing the decoder by extension.
func LoadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- the path is named explicitly by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%s: %w (want .yaml, .yml or .toml)", path, ErrUnsupportedConfigFormat)
	}
	return &cfg, nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
