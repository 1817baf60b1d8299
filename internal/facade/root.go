package facade

import (
	"context"
	"path/filepath"
	"sync"
)

// rootResolver memoizes the canonical repository root for the process
// lifetime. The cell is either not started, in flight, or resolved; late
// callers attach to the in-flight resolution instead of starting another.
// Failures propagate to every waiter and are not cached, so a later call
// retries.
type rootResolver struct {
	resolve func() (string, error)

	mu       sync.Mutex
	resolved bool
	path     string
	inflight chan struct{}
	err      error
}

func newRootResolver(workingDir string) *rootResolver {
	return &rootResolver{
		resolve: func() (string, error) {
			real, err := filepath.EvalSymlinks(workingDir)
			if err != nil {
				return "", err
			}
			return filepath.Abs(real)
		},
	}
}

// Root returns the canonical repository root, resolving it at most once at a
// time.
func (r *rootResolver) Root(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.resolved {
		defer r.mu.Unlock()
		return r.path, nil
	}
	if r.inflight == nil {
		done := make(chan struct{})
		r.inflight = done
		go func() {
			path, err := r.resolve()

			r.mu.Lock()
			if err == nil {
				r.resolved = true
				r.path = path
			}
			r.err = err
			r.inflight = nil
			r.mu.Unlock()

			close(done)
		}()
	}
	done := r.inflight
	r.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.path, nil
	}
	return "", r.err
}
