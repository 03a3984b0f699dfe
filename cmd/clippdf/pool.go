package main

import (
	"context"

	clippdf "github.com/mlevac/clippdf"
)

// PDFGenerator is the interface for the generation service.
type PDFGenerator interface {
	GeneratePDF(ctx context.Context, cfg clippdf.Config) error
}

// Compile-time interface implementation check.
var _ PDFGenerator = (*clippdf.Generator)(nil)

// Pool abstracts generator pool operations for testability.
type Pool interface {
	Acquire() PDFGenerator
	Release(PDFGenerator)
	Size() int
}

// generatorPool adapts clippdf.GeneratorPool to the CLI Pool interface.
type generatorPool struct {
	inner *clippdf.GeneratorPool
}

var _ Pool = (*generatorPool)(nil)

func newGeneratorPool(n int) *generatorPool {
	return &generatorPool{inner: clippdf.NewGeneratorPool(n)}
}

func (p *generatorPool) Acquire() PDFGenerator {
	return p.inner.Acquire()
}

func (p *generatorPool) Release(gen PDFGenerator) {
	if g, ok := gen.(*clippdf.Generator); ok {
		p.inner.Release(g)
	}
}

func (p *generatorPool) Size() int {
	return p.inner.Size()
}

func (p *generatorPool) Close() error {
	return p.inner.Close()
}
