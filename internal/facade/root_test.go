package facade

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRootResolver_ResolvesOnce(t *testing.T) {
	var calls atomic.Int32
	resolver := &rootResolver{
		resolve: func() (string, error) {
			calls.Add(1)
			return "/repo", nil
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := resolver.Root(context.Background())
			if err != nil {
				t.Errorf("Root failed: %v", err)
				return
			}
			if path != "/repo" {
				t.Errorf("Expected /repo, got %s", path)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("Expected exactly one resolution, got %d", got)
	}

	// A later call must reuse the memoized value.
	if _, err := resolver.Root(context.Background()); err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected memoized value to be reused, resolver ran %d times", got)
	}
}

func TestRootResolver_FailureIsNotCached(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	resolver := &rootResolver{
		resolve: func() (string, error) {
			if calls.Add(1) == 1 {
				return "", boom
			}
			return "/repo", nil
		},
	}

	if _, err := resolver.Root(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected first resolution to fail with boom, got %v", err)
	}

	path, err := resolver.Root(context.Background())
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if path != "/repo" {
		t.Errorf("Expected /repo, got %s", path)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("Expected two resolutions, got %d", got)
	}
}

func TestRootResolver_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	resolver := &rootResolver{
		resolve: func() (string, error) {
			<-release
			return "/repo", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := resolver.Root(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	// The abandoned resolution still completes and is memoized.
	close(release)
	path, err := resolver.Root(context.Background())
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if path != "/repo" {
		t.Errorf("Expected /repo, got %s", path)
	}
}
