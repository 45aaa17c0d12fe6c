// Package window opens the SDL2 window the viewer draws into.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/pkg/math"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// FromGraphics builds a window config from the graphics settings.
func FromGraphics(title string, g config.GraphicsConfig) Config {
	return Config{Title: title, Width: g.Width, Height: g.Height, VSync: g.VSync}
}

// contextAttrs request a 4.1 core context, the newest macOS provides, with a
// depth buffer for the shape and floor.
var contextAttrs = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

const windowFlags = sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI

// Window is an SDL2 window with a current OpenGL context.
type Window struct {
	title string
	win   *sdl.Window
	ctx   sdl.GLContext
}

// New initializes SDL, opens the window and makes its GL context current.
func New(cfg Config) (_ *Window, err error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}
	w := &Window{title: cfg.Title}
	defer func() {
		if err != nil {
			w.Close()
		}
	}()

	for _, a := range contextAttrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return nil, fmt.Errorf("setting GL attribute %d: %w", a.attr, err)
		}
	}

	w.win, err = sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), windowFlags)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	if w.ctx, err = w.win.GLCreateContext(); err != nil {
		return nil, fmt.Errorf("creating GL context: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("swap interval not supported", zap.Int("interval", interval), zap.Error(err))
	}

	dw, dh := w.DrawableSize()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int32("drawable_width", dw),
		zap.Int32("drawable_height", dh),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// Close releases the context and window and shuts SDL down. It is safe on a
// partially opened window.
func (w *Window) Close() {
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
		w.ctx = nil
	}
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	sdl.Quit()
}

func (w *Window) SwapBuffers() {
	w.win.GLSwap()
}

// DrawableSize returns the framebuffer size in pixels, which differs from
// the window size on HiDPI displays.
func (w *Window) DrawableSize() (int32, int32) {
	return w.win.GLGetDrawableSize()
}

// Aspect is the framebuffer width over height, or 1 while the window is
// minimized.
func (w *Window) Aspect() float32 {
	dw, dh := w.DrawableSize()
	if dw <= 0 || dh <= 0 {
		return 1
	}
	return float32(dw) / float32(dh)
}

// ShowStatus puts the scene state after the base title.
func (w *Window) ShowStatus(passes int, light math.Vec3) {
	w.win.SetTitle(fmt.Sprintf("%s [passes %d, light %s]", w.title, passes, light))
}
