package similarity

import (
	"context"
	"sync"
	"sync/atomic"
)

type providerBox struct {
	provider Provider
}

type lazyProvider struct {
	mu    sync.Mutex
	init  func(ctx context.Context) (Provider, error)
	ready atomic.Pointer[providerBox]
}

// Lazy defers building the provider until the first Cosine call. A failed
// init is attempted again on the next call; a successful one is kept and later
// calls no longer synchronize.
func Lazy(init func(ctx context.Context) (Provider, error)) Provider {
	return &lazyProvider{init: init}
}

func (l *lazyProvider) Cosine(ctx context.Context, a, b string) (float64, error) {
	p, err := l.get(ctx)
	if err != nil {
		return 0, err
	}
	return p.Cosine(ctx, a, b)
}

func (l *lazyProvider) get(ctx context.Context) (Provider, error) {
	if box := l.ready.Load(); box != nil {
		return box.provider, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if box := l.ready.Load(); box != nil {
		return box.provider, nil
	}

	p, err := l.init(ctx)
	if err != nil {
		return nil, err
	}
	l.ready.Store(&providerBox{provider: p})

	return p, nil
}
