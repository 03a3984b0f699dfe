package clippdf

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one generator is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// GeneratorPool manages a pool of Generator instances for parallel batch
// work. Each generator owns its own browser, so the one-staging-container
// invariant holds per browser while documents render in parallel.
// Generators are created lazily on first acquire.
type GeneratorPool struct {
	size       int
	generators []*Generator
	sem        chan *Generator
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewGeneratorPool creates a pool with capacity for n Generator instances.
func NewGeneratorPool(n int) *GeneratorPool {
	if n < 1 {
		n = 1
	}
	return &GeneratorPool{
		size:       n,
		generators: make([]*Generator, 0, n),
		sem:        make(chan *Generator, n),
	}
}

// Acquire gets a generator from the pool, creating one if capacity allows.
// Blocks if all generators are in use.
func (p *GeneratorPool) Acquire() *Generator {
	select {
	case gen := <-p.sem:
		return gen
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		gen := New()

		p.mu.Lock()
		p.generators = append(p.generators, gen)
		p.mu.Unlock()

		return gen
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a generator to the pool. The send happens under the lock
// so a concurrent Close cannot close the channel between the closed-check
// and the send; it never blocks because cap(sem) equals the pool size.
func (p *GeneratorPool) Release(gen *Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- gen
	}
}

// Close releases all browser resources.
// Returns an aggregated error if multiple generators fail to close.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	generators := p.generators
	p.mu.Unlock()

	var errs []error
	for _, gen := range generators {
		if err := gen.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size to use.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in container environments.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
