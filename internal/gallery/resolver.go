package gallery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"

	"github.com/stevelisz/ANiceClock/internal/common"
)

// ErrAssetUnavailable marks a handle that no longer resolves to an image,
// e.g. a photo the user has since deleted. Callers treat it as a blank
// slide, never as an application error.
var ErrAssetUnavailable = fmt.Errorf("asset unavailable")

// Resolver maps an opaque asset handle to renderable image bytes for the
// given target display size.
type Resolver interface {
	Resolve(ctx context.Context, handle string, size int) ([]byte, error)
}

// LibraryResolver resolves handles against a local photo directory, and
// fetches handles that are URLs from a remote asset store. Remote fetches
// go through retry/backoff and a circuit breaker.
type LibraryResolver struct {
	dir     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewLibraryResolver(dir string, client *http.Client) *LibraryResolver {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "asset-store",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &LibraryResolver{
		dir: dir,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Resolve returns the raw image bytes for the handle. The size hint is
// advisory only; no transcoding is performed.
func (r *LibraryResolver) Resolve(ctx context.Context, handle string, size int) ([]byte, error) {
	if common.HasPrefixAny(handle, "http://", "https://") {
		return r.resolveRemote(ctx, handle)
	}
	return r.resolveLocal(handle)
}

func (r *LibraryResolver) resolveLocal(handle string) ([]byte, error) {
	// Handles are plain file names within the library; anything trying to
	// escape the directory is treated as gone.
	if common.HasAny(handle, "..") || filepath.IsAbs(handle) {
		return nil, fmt.Errorf("%w: invalid handle %q", ErrAssetUnavailable, handle)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(handle)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetUnavailable, handle)
		}
		return nil, err
	}
	return data, nil
}

func (r *LibraryResolver) resolveRemote(ctx context.Context, handle string) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, handle, nil)
	}

	resp, err := fetchAssetWithResilience(ctx, r.httpCfg, r.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	return data, nil
}
