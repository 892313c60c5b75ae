package invoice2pdf

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	MinPoolSize = 1

	// MaxPoolSize caps browser instances; each Chrome costs ~200MB.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome's own child processes.
	cpuDivisor = 2
)

var _ Engine = (*EnginePool)(nil)

// EnginePool hands out up to size engines, one request per engine at a
// time. Engines are built lazily on first demand so the server starts
// without launching any browser. The pool is itself an Engine.
type EnginePool struct {
	name    string
	factory func() Engine
	size    int

	sem     chan Engine
	mu      sync.Mutex
	engines []Engine
	created int
	closed  bool
}

// NewEnginePool creates a pool of at most n engines built by factory.
func NewEnginePool(n int, name string, factory func() Engine) *EnginePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &EnginePool{
		name:    name,
		factory: factory,
		size:    n,
		sem:     make(chan Engine, n),
		engines: make([]Engine, 0, n),
	}
}

// Acquire returns an idle engine, builds one if the pool is not full, or
// waits until one is released or ctx ends.
func (p *EnginePool) Acquire(ctx context.Context) (Engine, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	select {
	case e := <-p.sem:
		p.mu.Unlock()
		return e, nil
	default:
	}
	if p.created < p.size {
		p.created++
		e := p.factory()
		p.engines = append(p.engines, e)
		p.mu.Unlock()
		return e, nil
	}
	p.mu.Unlock()

	select {
	case e, ok := <-p.sem:
		if !ok || p.isClosed() {
			return nil, ErrPoolClosed
		}
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *EnginePool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Release gives e back. The channel holds every engine the pool can
// create, so the send under lock never blocks.
func (p *EnginePool) Release(e Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- e
}

// Render implements Engine by borrowing an engine for one document.
func (p *EnginePool) Render(ctx context.Context, markup string, opts *RenderOptions) ([]byte, error) {
	e, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(e)
	return e.Render(ctx, markup, opts)
}

// Name implements Engine.
func (p *EnginePool) Name() string { return p.name }

// Size returns the pool capacity.
func (p *EnginePool) Size() int { return p.size }

// Close closes every engine built so far and joins their errors.
func (p *EnginePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	engines := p.engines
	p.mu.Unlock()

	var errs []error
	for _, e := range engines {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolvePoolSize picks the pool size: an explicit worker count wins,
// otherwise half of GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
