package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when loaded settings cannot be used.
var ErrInvalid = errors.New("invalid config")

// Load builds the config with priority: defaults < file < flags. The file is
// the --config path when given, otherwise the first one found in the
// working directory or ConfigDir.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	configPath := ""
	if flags != nil {
		configPath = flags.Config
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the scene cannot work with.
func (c *Config) Validate() error {
	switch c.Scene.ColorMode {
	case ColorFaces, ColorGreyscale, ColorUniform:
	default:
		return fmt.Errorf("%w: color_mode %q", ErrInvalid, c.Scene.ColorMode)
	}
	if c.Smoothing.Passes < 0 || c.Smoothing.Passes > 8 {
		return fmt.Errorf("%w: smoothing passes %d not in [0, 8]", ErrInvalid, c.Smoothing.Passes)
	}
	if c.Scene.ShapeScale <= 0 {
		return fmt.Errorf("%w: shape_scale must be positive", ErrInvalid)
	}
	if c.Scene.Light[1] <= c.Scene.FloorY {
		return fmt.Errorf("%w: light must be above the floor", ErrInvalid)
	}
	return nil
}

// findConfigFile looks for a config in standard locations.
func findConfigFile() string {
	var candidates []string
	for _, dir := range []string{".", ConfigDir()} {
		candidates = append(candidates,
			filepath.Join(dir, "shapelab.yaml"),
			filepath.Join(dir, "shapelab.toml"),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "shapelab")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shapelab")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "shapelab")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shapelab")
	}
}

// loadFromFile merges a YAML or TOML file (chosen by extension) into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}
