// Package config handles shapelab settings: scene layout, smoothing,
// asset locations, viewer window and logging.
package config

// Config holds all settings.
type Config struct {
	Scene     SceneConfig     `yaml:"scene" toml:"scene"`
	Smoothing SmoothingConfig `yaml:"smoothing" toml:"smoothing"`
	Assets    AssetsConfig    `yaml:"assets" toml:"assets"`
	Graphics  GraphicsConfig  `yaml:"graphics" toml:"graphics"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// SceneConfig describes the light, the floor the shadow falls on, and how
// the displayed shape is prepared.
type SceneConfig struct {
	Light      [3]float32 `yaml:"light" toml:"light"`             // point light position
	LightStep  [3]float32 `yaml:"light_step" toml:"light_step"`   // per-keypress light movement
	FloorY     float32    `yaml:"floor_y" toml:"floor_y"`         // floor elevation
	FloorHalfX float32    `yaml:"floor_half_x" toml:"floor_half_x"`
	FloorHalfZ float32    `yaml:"floor_half_z" toml:"floor_half_z"`
	ShapeScale float32    `yaml:"shape_scale" toml:"shape_scale"`
	ColorMode  string     `yaml:"color_mode" toml:"color_mode"` // faces, greyscale or uniform
}

// SmoothingConfig controls subdivision.
type SmoothingConfig struct {
	Passes  int  `yaml:"passes" toml:"passes"`
	Regular bool `yaml:"regular" toml:"regular"`
}

// AssetsConfig controls where OBJ files come from.
type AssetsConfig struct {
	BaseDir    string `yaml:"base_dir" toml:"base_dir"`
	TimeoutSec int    `yaml:"timeout_sec" toml:"timeout_sec"` // HTTP fetch timeout
	FixIndex   bool   `yaml:"fix_index" toml:"fix_index"`     // OBJ faces are 1-indexed
}

// GraphicsConfig holds viewer window settings.
type GraphicsConfig struct {
	Width  int  `yaml:"width" toml:"width"`
	Height int  `yaml:"height" toml:"height"`
	VSync  bool `yaml:"vsync" toml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Color modes.
const (
	ColorFaces     = "faces"
	ColorGreyscale = "greyscale"
	ColorUniform   = "uniform"
)

// Default returns the settings the viewer starts with.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Light:      [3]float32{-0.5, 50, -50},
			LightStep:  [3]float32{5, 5, 10},
			FloorY:     -0.6,
			FloorHalfX: 8,
			FloorHalfZ: 16,
			ShapeScale: 0.6,
			ColorMode:  ColorFaces,
		},
		Smoothing: SmoothingConfig{
			Passes:  0,
			Regular: true,
		},
		Assets: AssetsConfig{
			BaseDir:    "models",
			TimeoutSec: 10,
			FixIndex:   true,
		},
		Graphics: GraphicsConfig{
			Width:  1024,
			Height: 768,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
