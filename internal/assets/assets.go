// Package assets resolves model names and loads OBJ shapes from disk or
// over HTTP, caching the raw text.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/internal/logger"
	"github.com/Faultbox/shapelab/pkg/shape"
)

// Manager loads models through a local and a remote Source.
type Manager struct {
	local    Source
	remote   Source
	cache    *Cache
	fixIndex bool
}

// NewManager creates a manager reading local names through local and URLs
// through remote. Either may be nil to disable that kind of name.
func NewManager(local, remote Source) *Manager {
	return &Manager{
		local:    local,
		remote:   remote,
		cache:    NewCache(),
		fixIndex: true,
	}
}

// FromConfig builds a manager for the asset settings in cfg.
func FromConfig(cfg config.AssetsConfig) *Manager {
	m := NewManager(
		DirSource{Dir: cfg.BaseDir},
		NewHTTPSource(time.Duration(cfg.TimeoutSec)*time.Second),
	)
	m.fixIndex = cfg.FixIndex
	return m
}

// SetFixIndex controls whether face indices are treated as 1-based.
func (m *Manager) SetFixIndex(fix bool) {
	m.fixIndex = fix
}

// Load returns the raw text for name, from cache when possible.
func (m *Manager) Load(ctx context.Context, name string) ([]byte, error) {
	loc := ResolveName(name)
	if data, ok := m.cache.Get(loc.Path); ok {
		return data, nil
	}

	src := m.local
	if loc.Remote {
		src = m.remote
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source for %s", ErrNotFound, loc.Path)
	}

	data, err := src.Fetch(ctx, loc.Path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(loc.Path, data)
	logger.Debug("asset fetched", zap.String("path", loc.Path), zap.Bool("remote", loc.Remote), zap.Int("bytes", len(data)))
	return data, nil
}

// LoadShape loads and decodes the model name. Lines that cannot be decoded
// are logged and skipped.
func (m *Manager) LoadShape(ctx context.Context, name string) (*shape.Shape, error) {
	data, err := m.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	log := logger.Named("assets").With(zap.String("name", name))
	skipped := 0
	opts := shape.DecodeOptions{
		FixIndex: m.fixIndex,
		OnSkip: func(e *shape.LineError) {
			skipped++
			log.Warn("skipping OBJ line", zap.Int("line", e.Line), zap.Error(e.Err))
		},
	}

	s, err := shape.Decode(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	log.Info("shape loaded",
		zap.Int("vertices", len(s.V)),
		zap.Int("faces", len(s.F)),
		zap.Int("skipped", skipped))
	return s, nil
}

// Invalidate drops name from the cache so the next load refetches it.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(ResolveName(name).Path)
}

// LocalPath returns the file that name resolves to, or "" for remote names
// and non-directory sources.
func (m *Manager) LocalPath(name string) string {
	loc := ResolveName(name)
	if loc.Remote {
		return ""
	}
	if d, ok := m.local.(DirSource); ok {
		return d.Path(loc.Path)
	}
	return ""
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close releases cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}
