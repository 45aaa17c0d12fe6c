package config

import "flag"

// Flags are command-line overrides. Zero values leave the config alone,
// except for booleans that default to true, which only count when given.
type Flags struct {
	Config  string
	Debug   bool
	BaseDir string
	Passes  int
	Regular bool
	Width   int
	Height  int

	fs *flag.FlagSet
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.BaseDir, "dir", "", "Directory OBJ names are resolved against")
	fs.IntVar(&f.Passes, "passes", -1, "Smoothing passes (-1 = from config)")
	fs.BoolVar(&f.Regular, "regular", false, "Keep subdivided vertices on a sphere (-regular=false to turn off)")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	return f
}

// apply applies flag overrides to cfg.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.BaseDir != "" {
		cfg.Assets.BaseDir = f.BaseDir
	}
	if f.Passes >= 0 {
		cfg.Smoothing.Passes = f.Passes
	}
	if f.isSet("regular") {
		cfg.Smoothing.Regular = f.Regular
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
}

// isSet reports whether the named flag was given on the command line. Flags
// built without a FlagSet treat a true value as given.
func (f *Flags) isSet(name string) bool {
	if f.fs == nil {
		return name == "regular" && f.Regular
	}
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
