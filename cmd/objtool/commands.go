package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/Faultbox/shapelab/internal/assets"
	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/pkg/math"
	"github.com/Faultbox/shapelab/pkg/shape"
)

// loadTimeout bounds a single model load.
const loadTimeout = 30 * time.Second

type tool struct {
	out    *termenv.Output
	stdout io.Writer
	stderr io.Writer
}

func (t *tool) heading(s string) string {
	return t.out.String(s).Bold().String()
}

func (t *tool) value(s string) string {
	return t.out.String(s).Foreground(t.out.Color("6")).String()
}

func (t *tool) errorStyle(s string) string {
	return t.out.String(s).Foreground(t.out.Color("1")).String()
}

// command is the parsed common part of every subcommand.
type command struct {
	fs    *flag.FlagSet
	flags *config.Flags
	cfg   *config.Config
}

func (t *tool) newCommand(name, usage string) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(t.stderr)
	fs.Usage = func() {
		fmt.Fprintf(t.stderr, "Usage: objtool %s\n", usage)
		fs.PrintDefaults()
	}
	return &command{fs: fs, flags: config.RegisterFlags(fs)}
}

// parse parses args, loads config and sets up logging. It requires exactly
// one positional argument, the model name.
func (c *command) parse(args []string) (string, error) {
	if err := c.fs.Parse(args); err != nil {
		return "", errUsage
	}
	if c.fs.NArg() != 1 {
		c.fs.Usage()
		return "", errUsage
	}

	cfg, err := config.Load(c.flags)
	if err != nil {
		return "", err
	}
	c.cfg = cfg

	level := cfg.Logging.Level
	if !c.flags.Debug && cfg.Logging.LogFile == "" {
		// keep command output clean unless asked
		level = "warn"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		return "", err
	}
	return c.fs.Arg(0), nil
}

func (c *command) load(name string) (*shape.Shape, error) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	m := assets.FromConfig(c.cfg.Assets)
	defer m.Close()
	return m.LoadShape(ctx, name)
}

func (t *tool) cmdInfo(args []string) error {
	c := t.newCommand("info", "info [options] <model>")
	name, err := c.parse(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := c.load(name)
	if err != nil {
		return err
	}

	fmt.Fprintln(t.stdout, t.heading(s.Info()))
	fmt.Fprintf(t.stdout, "Model:        %s\n", name)

	sides := map[int]int{}
	for _, f := range s.F {
		sides[len(f)]++
	}
	fmt.Fprintf(t.stdout, "Triangulated: %s\n", t.value(strconv.FormatBool(s.IsTriangulated())))
	for _, n := range slices.Sorted(maps.Keys(sides)) {
		fmt.Fprintf(t.stdout, "  %d-gons:     %d\n", n, sides[n])
	}

	if cen, err := s.Centroid(); err == nil {
		fmt.Fprintf(t.stdout, "Centroid:     %s\n", t.value(cen.String()))
	}
	if len(s.V) > 0 {
		lo, hi := bounds(s.V)
		fmt.Fprintf(t.stdout, "Bounds:       %s .. %s\n", t.value(lo.String()), t.value(hi.String()))
	}
	return nil
}

func (t *tool) cmdDump(args []string) error {
	c := t.newCommand("dump", "dump [options] <model>")
	name, err := c.parse(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := c.load(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(t.stdout, s.Verbose())
	return err
}

func (t *tool) cmdCentroid(args []string) error {
	c := t.newCommand("centroid", "centroid [options] <model>")
	name, err := c.parse(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := c.load(name)
	if err != nil {
		return err
	}
	centroid, err := s.Centroid()
	if err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, centroid)
	return nil
}

func (t *tool) cmdSmooth(args []string) error {
	c := t.newCommand("smooth", "smooth [-n N] [-regular] [-o out.obj] <model>")
	passes := c.fs.Int("n", 1, "Number of smoothing passes")
	output := c.fs.String("o", "", "Write OBJ to this file instead of stdout")
	name, err := c.parse(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := c.load(name)
	if err != nil {
		return err
	}
	if err := s.SmoothenN(*passes, c.cfg.Smoothing.Regular); err != nil {
		return err
	}
	return t.writeOBJ(s, *output)
}

func (t *tool) cmdShadow(args []string) error {
	c := t.newCommand("shadow", "shadow [-light x,y,z] [-plane y] [-o out.obj] <model>")
	lightFlag := c.fs.String("light", "", "Light position x,y,z (default from config)")
	plane := c.fs.Float64("plane", 0, "Floor elevation (default from config)")
	output := c.fs.String("o", "", "Write OBJ to this file instead of stdout")
	name, err := c.parse(args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	light := math.Vec3{X: c.cfg.Scene.Light[0], Y: c.cfg.Scene.Light[1], Z: c.cfg.Scene.Light[2]}
	if *lightFlag != "" {
		if light, err = parseVec3(*lightFlag); err != nil {
			return err
		}
	}
	planeY := c.cfg.Scene.FloorY
	if flagSet(c.fs, "plane") {
		planeY = float32(*plane)
	}

	s, err := c.load(name)
	if err != nil {
		return err
	}
	shadow, err := s.ProjectOntoPlane(light, planeY)
	if err != nil {
		return err
	}
	return t.writeOBJ(shadow, *output)
}

func (t *tool) writeOBJ(s *shape.Shape, path string) error {
	if path == "" {
		return s.WriteOBJ(t.stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteOBJ(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(t.stderr, "Wrote %s (%s)\n", path, s.Info())
	return nil
}

func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var c [3]float32
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("coordinate %q: %w", p, err)
		}
		c[i] = float32(x)
	}
	return math.V3(c[0], c[1], c[2]), nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func bounds(vs []math.Vec3) (lo, hi math.Vec3) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo.X, hi.X = min(lo.X, v.X), max(hi.X, v.X)
		lo.Y, hi.Y = min(lo.Y, v.Y), max(hi.Y, v.Y)
		lo.Z, hi.Z = min(lo.Z, v.Z), max(hi.Z, v.Z)
	}
	return lo, hi
}
