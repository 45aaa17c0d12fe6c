package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a source has no file for a name.
var ErrNotFound = errors.New("asset not found")

// Source fetches raw OBJ text by resolved name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Location is where a model name points.
type Location struct {
	Remote bool   // fetched over HTTP
	Path   string // URL for remote locations, file path otherwise
}

// ResolveName turns a user-supplied model name into a Location. Names
// without an extension get ".obj" appended. http:// and https:// names are
// remote; everything else is a path relative to the source's base dir.
func ResolveName(name string) Location {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		if path.Ext(urlPath(name)) == "" {
			name += ".obj"
		}
		return Location{Remote: true, Path: name}
	}
	if filepath.Ext(name) == "" {
		name += ".obj"
	}
	return Location{Path: filepath.Clean(name)}
}

// urlPath strips scheme, host, query and fragment from a URL.
func urlPath(u string) string {
	u = u[strings.Index(u, "://")+3:]
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i:]
	}
	return ""
}

// DirSource reads files below a base directory.
type DirSource struct {
	Dir string
}

// Fetch reads name relative to Dir. Absolute names are read as is.
func (d DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(d.Dir, p)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// Path returns the file path name resolves to.
func (d DirSource) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// maxRemoteSize bounds HTTP downloads.
const maxRemoteSize = 64 << 20

// HTTPSource downloads files over HTTP(S).
type HTTPSource struct {
	Client *http.Client
}

// NewHTTPSource returns a source whose requests time out after timeout.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	return &HTTPSource{Client: &http.Client{Timeout: timeout}}
}

// Fetch GETs the URL name.
func (h *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", name, err)
	}
	return data, nil
}
