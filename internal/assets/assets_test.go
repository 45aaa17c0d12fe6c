package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/shapelab/internal/config"
	"github.com/Faultbox/shapelab/pkg/shape"
)

const triangleOBJ = `# one triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func writeModel(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		in     string
		remote bool
		path   string
	}{
		{"cube", false, "cube.obj"},
		{"cube.obj", false, "cube.obj"},
		{"models/teapot", false, filepath.Join("models", "teapot.obj")},
		{"mesh.txt", false, "mesh.txt"},
		{"  ico  ", false, "ico.obj"},
		{"http://example.com/ico", true, "http://example.com/ico.obj"},
		{"https://example.com/m/ico.obj", true, "https://example.com/m/ico.obj"},
		{"https://example.com/ico.obj?v=2", true, "https://example.com/ico.obj?v=2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc := ResolveName(tt.in)
			assert.Equal(t, tt.remote, loc.Remote)
			assert.Equal(t, tt.path, loc.Path)
		})
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "tri.obj", triangleOBJ)
	src := DirSource{Dir: dir}

	data, err := src.Fetch(context.Background(), "tri.obj")
	require.NoError(t, err)
	assert.Equal(t, triangleOBJ, string(data))

	_, err = src.Fetch(context.Background(), "missing.obj")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx, "tri.obj")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tri.obj":
			w.Write([]byte(triangleOBJ))
		case "/broken.obj":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(time.Second)
	ctx := context.Background()

	data, err := src.Fetch(ctx, srv.URL+"/tri.obj")
	require.NoError(t, err)
	assert.Equal(t, triangleOBJ, string(data))

	_, err = src.Fetch(ctx, srv.URL+"/missing.obj")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(ctx, srv.URL+"/broken.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestHTTPSourceTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	src := NewHTTPSource(50 * time.Millisecond)
	_, err := src.Fetch(context.Background(), srv.URL+"/slow.obj")
	assert.Error(t, err)
}

func TestManagerLoadShape(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "tri.obj", triangleOBJ)
	m := NewManager(DirSource{Dir: dir}, nil)

	s, err := m.LoadShape(context.Background(), "tri")
	require.NoError(t, err)
	assert.Len(t, s.V, 3)
	require.Len(t, s.F, 1)
	assert.Equal(t, shape.Face{0, 1, 2}, s.F[0])
}

func TestManagerCachesByResolvedName(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(triangleOBJ))
	}))
	defer srv.Close()

	m := NewManager(nil, NewHTTPSource(time.Second))
	ctx := context.Background()

	_, err := m.LoadShape(ctx, srv.URL+"/tri")
	require.NoError(t, err)
	_, err = m.LoadShape(ctx, srv.URL+"/tri.obj")
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())

	stats := m.Cache().Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, len(triangleOBJ), stats.Bytes)

	m.Invalidate(srv.URL + "/tri")
	_, err = m.Load(ctx, srv.URL+"/tri")
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestManagerNoSource(t *testing.T) {
	m := NewManager(DirSource{Dir: t.TempDir()}, nil)
	_, err := m.Load(context.Background(), "https://example.com/ico")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "noisy.obj", "v 0 0 0\nv 1 0\nv 1 0 0\nv 0 1 0\nf 1 2\nf 1 3 4\n")
	m := NewManager(DirSource{Dir: dir}, nil)

	s, err := m.LoadShape(context.Background(), "noisy")
	require.NoError(t, err)
	assert.Len(t, s.V, 3)
	assert.Len(t, s.F, 1)
}

func TestManagerDecodeError(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "bad.obj", "v 0 0 0\nf 1 2 3\n")
	m := NewManager(DirSource{Dir: dir}, nil)

	_, err := m.LoadShape(context.Background(), "bad")
	assert.ErrorIs(t, err, shape.ErrIndexOutOfRange)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "zero.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n")

	cfg := config.Default().Assets
	cfg.BaseDir = dir
	cfg.FixIndex = false
	m := FromConfig(cfg)

	s, err := m.LoadShape(context.Background(), "zero")
	require.NoError(t, err)
	assert.Equal(t, shape.Face{0, 1, 2}, s.F[0])
	assert.Equal(t, filepath.Join(dir, "zero.obj"), m.LocalPath("zero"))
	assert.Empty(t, m.LocalPath("http://example.com/zero"))
}

func TestCache(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", []byte("xy"))
	data, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("xy"), data)
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1, Entries: 1, Bytes: 2}, c.Stats())

	// replacing an entry adjusts the byte count
	c.Set("a", []byte("xyz"))
	assert.Equal(t, 3, c.Stats().Bytes)

	c.Delete("a")
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.Stats())

	c.Set("b", []byte("b"))
	c.Get("b")
	c.Clear()
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "live.obj", triangleOBJ)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	require.NoError(t, Watch(ctx, path, func() { changed <- struct{}{} }))

	// Unrelated files in the same directory are ignored.
	writeModel(t, dir, "other.obj", triangleOBJ)
	writeModel(t, dir, "live.obj", triangleOBJ+"v 1 1 1\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
