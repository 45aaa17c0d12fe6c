// shapeview shows an OBJ model above a floor with the shadow cast by a
// movable point light.
//
// Keys: arrows move the light in X/Z, PageUp/PageDown in Y, S smooths one
// more pass, C picks new colors, R reloads the model, F12 saves a
// screenshot, Esc quits. Drag with
// the right mouse button to orbit and scroll to zoom.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/shapelab/internal/assets"
	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/internal/render"
	"github.com/Faultbox/shapelab/internal/render/glbackend"
	"github.com/Faultbox/shapelab/internal/render/window"
	"github.com/Faultbox/shapelab/internal/scene"
)

const (
	windowTitle  = "shapelab"
	defaultModel = "icosahedron"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	model := defaultModel
	if flag.NArg() > 0 {
		model = flag.Arg(0)
	}

	if err := run(cfg, model); err != nil {
		logger.Error("shapeview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("shapeview closed normally")
}

// viewer is the state the event loop works on.
type viewer struct {
	cfg     *config.Config
	model   string
	assets  *assets.Manager
	scene   *scene.Scene
	camera  *render.OrbitCamera
	backend *glbackend.Backend
	window  *window.Window
	shots   *render.ScreenshotCapture
	aspect  float32

	captureNext bool
}

func run(cfg *config.Config, model string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := &viewer{
		cfg:    cfg,
		model:  model,
		assets: assets.FromConfig(cfg.Assets),
		camera: render.NewOrbitCamera(),
		shots:  render.NewScreenshotCapture("screenshots", "shapelab"),
	}
	defer v.assets.Close()

	if err := v.load(ctx); err != nil {
		return err
	}

	win, err := window.New(window.FromGraphics(windowTitle+" - "+model, cfg.Graphics))
	if err != nil {
		return err
	}
	defer win.Close()
	v.window = win
	win.ShowStatus(v.scene.Passes(), v.scene.Light)

	v.backend, err = glbackend.New()
	if err != nil {
		return err
	}
	defer v.backend.Close()
	v.resize()

	reload := make(chan struct{}, 1)
	if path := v.assets.LocalPath(model); path != "" {
		err := assets.Watch(ctx, path, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		}
	}

	running := true
	var rightMouseDown bool
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
					v.resize()
				}

			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_RIGHT {
					rightMouseDown = e.State == sdl.PRESSED
				}

			case *sdl.MouseMotionEvent:
				if rightMouseDown {
					v.camera.HandleDrag(float32(e.XRel), float32(e.YRel))
				}

			case *sdl.MouseWheelEvent:
				v.camera.HandleZoom(float32(e.Y))

			case *sdl.KeyboardEvent:
				if e.State == sdl.PRESSED {
					v.handleKey(ctx, e.Keysym.Sym, &running)
				}
			}
		}

		select {
		case <-reload:
			v.assets.Invalidate(model)
			if err := v.load(ctx); err != nil {
				logger.Warn("reload failed", zap.Error(err))
			}
		default:
		}

		if err := v.scene.Upload(v.backend); err != nil {
			return err
		}
		v.backend.Begin()
		vp := v.camera.ProjectionMatrix(v.aspect).Mul(v.camera.ViewMatrix())
		if err := v.scene.Draw(v.backend, vp); err != nil {
			return err
		}
		if v.captureNext {
			v.capture()
		}
		win.SwapBuffers()
	}
	return nil
}

// load (re)builds the scene from the model, keeping the current light.
func (v *viewer) load(ctx context.Context) error {
	s, err := v.assets.LoadShape(ctx, v.model)
	if err != nil {
		return err
	}

	first := v.scene == nil
	opts := scene.OptionsFromConfig(v.cfg)
	if !first {
		opts.Light = v.scene.Light
		opts.Passes = v.scene.Passes()
	}
	sc, err := scene.New(s, opts)
	if err != nil {
		return err
	}
	v.scene = sc

	if first {
		var radius float32
		for _, p := range sc.Shape.V {
			radius = max(radius, p.Len())
		}
		v.camera.Center = scene.ModelOffset
		v.camera.FitRadius(radius)
	}
	return nil
}

func (v *viewer) resize() {
	dw, dh := v.window.DrawableSize()
	v.aspect = v.window.Aspect()
	v.backend.Resize(dw, dh)
}

// capture saves the frame just drawn.
func (v *viewer) capture() {
	v.captureNext = false
	w, h := v.window.DrawableSize()
	path, err := v.shots.CaptureFromPixels(v.backend.ReadPixels(w, h), int(w), int(h))
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) handleKey(ctx context.Context, sym sdl.Keycode, running *bool) {
	var err error
	switch sym {
	case sdl.K_ESCAPE:
		*running = false
	case sdl.K_LEFT:
		err = v.scene.StepLight(scene.AxisX, -1)
	case sdl.K_RIGHT:
		err = v.scene.StepLight(scene.AxisX, 1)
	case sdl.K_DOWN:
		err = v.scene.StepLight(scene.AxisZ, -1)
	case sdl.K_UP:
		err = v.scene.StepLight(scene.AxisZ, 1)
	case sdl.K_PAGEUP:
		err = v.scene.StepLight(scene.AxisY, 1)
	case sdl.K_PAGEDOWN:
		err = v.scene.StepLight(scene.AxisY, -1)
	case sdl.K_s:
		err = v.scene.Smooth(1, v.cfg.Smoothing.Regular)
	case sdl.K_c:
		err = v.scene.Recolor(v.cfg.Scene.ColorMode)
	case sdl.K_F12:
		v.captureNext = true
	case sdl.K_r:
		v.assets.Invalidate(v.model)
		err = v.load(ctx)
	}
	if err != nil {
		logger.Warn("key action failed", zap.String("key", sdl.GetKeyName(sym)), zap.Error(err))
	}
	v.window.ShowStatus(v.scene.Passes(), v.scene.Light)
}
