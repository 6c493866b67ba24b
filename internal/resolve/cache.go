package resolve

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"declsym/internal/source"
	"declsym/internal/trace"
)

// Binder computes the bindings of one file. It is the resolution step this
// package caches; it must be safe for concurrent calls on different files.
type Binder interface {
	BindFile(ctx context.Context, file *source.File) ([]SymbolUse, error)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(ctx context.Context, file *source.File) ([]SymbolUse, error)

func (f BinderFunc) BindFile(ctx context.Context, file *source.File) ([]SymbolUse, error) {
	return f(ctx, file)
}

// minimal per-process cache by path + content hash
type cacheEntry struct {
	file    source.FileID
	hash    [32]byte
	symbols FileSymbols
}

// CacheStats is a point-in-time copy of the cache counters.
type CacheStats struct {
	Hits          uint64
	Misses        uint64
	Fills         uint64
	Failures      uint64
	Invalidations uint64
	Entries       int
}

// CachingProvider keeps the resolved symbols of every file it was asked
// about until told to forget them. Entries are keyed by path and checked
// against the content hash, so a newer version of a file is never answered
// from an older one even without an explicit invalidation.
type CachingProvider struct {
	files  *source.FileSet
	binder Binder
	tracer trace.Tracer

	mu     sync.RWMutex
	byPath map[string]cacheEntry
	gen    uint64 // bumped by every invalidation; fills from an older gen are not stored

	group singleflight.Group

	hits, misses, fills, failures, invalidations atomic.Uint64
}

var _ Provider = (*CachingProvider)(nil)

// CacheOption configures a CachingProvider.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	capHint int
	tracer  trace.Tracer
}

// WithCapacity pre-sizes the cache.
func WithCapacity(n int) CacheOption {
	return func(o *cacheOptions) { o.capHint = n }
}

// WithTracer sets the tracer for events that carry no context, such as
// invalidations. Queries prefer the tracer found in their context.
func WithTracer(t trace.Tracer) CacheOption {
	return func(o *cacheOptions) { o.tracer = t }
}

// NewCachingProvider creates a provider over files that binds through binder.
func NewCachingProvider(files *source.FileSet, binder Binder, opts ...CacheOption) *CachingProvider {
	o := cacheOptions{capHint: 64, tracer: trace.Nop}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = trace.Nop
	}
	return &CachingProvider{
		files:  files,
		binder: binder,
		tracer: o.tracer,
		byPath: make(map[string]cacheEntry, o.capHint),
	}
}

func (p *CachingProvider) tracerFor(ctx context.Context) trace.Tracer {
	if t := trace.FromContext(ctx); t.Enabled() {
		return t
	}
	return p.tracer
}

// ResolvedSymbols returns the cached symbols of file, binding it on a miss.
// Concurrent misses on the same file version share a single bind unless an
// invalidation happened in between. The bind outlives a cancelled caller; the
// caller itself gets EmptyFileSymbols. A failing bind yields EmptyFileSymbols
// and is not cached.
func (p *CachingProvider) ResolvedSymbols(ctx context.Context, file source.FileID) FileSymbols {
	tracer := p.tracerFor(ctx)
	f := p.files.Get(file)
	if f == nil {
		trace.Failure(tracer, trace.ScopeFile, "unknown file", strconv.FormatUint(uint64(file), 10))
		return EmptyFileSymbols
	}

	p.mu.RLock()
	entry, ok := p.byPath[f.Path]
	p.mu.RUnlock()
	if ok && entry.hash == f.Hash {
		p.hits.Add(1)
		trace.Point(tracer, trace.ScopeQuery, "hit", f.Path)
		return entry.symbols
	}
	p.misses.Add(1)

	p.mu.RLock()
	gen := p.gen
	p.mu.RUnlock()

	// поколение в ключе: запрос после инвалидации не присоединяется к старому bind
	key := f.Path + "@" + hex.EncodeToString(f.Hash[:8]) + "#" + strconv.FormatUint(gen, 10)
	// bind не зависит от отмены первого вызывающего; каждый ждёт по своему ctx
	bindCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		return p.fill(bindCtx, f, gen), nil
	})
	select {
	case res := <-ch:
		return res.Val.(FileSymbols)
	case <-ctx.Done():
		trace.Failure(tracer, trace.ScopeFile, "query cancelled", f.Path)
		return EmptyFileSymbols
	}
}

func (p *CachingProvider) fill(ctx context.Context, f *source.File, gen uint64) FileSymbols {
	tracer := p.tracerFor(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "bind "+f.Path, 0)

	uses, err := p.binder.BindFile(ctx, f)
	if err != nil {
		p.failures.Add(1)
		span.End("failed")
		trace.Failure(tracer, trace.ScopeFile, "bind "+f.Path, err.Error())
		return EmptyFileSymbols
	}
	syms := NewFileSymbols(uses)
	p.fills.Add(1)

	p.mu.Lock()
	stored := gen == p.gen
	if stored {
		p.byPath[f.Path] = cacheEntry{file: f.ID, hash: f.Hash, symbols: syms}
	}
	p.mu.Unlock()

	span.WithExtra("uses", strconv.Itoa(syms.Len())).WithExtra("stored", strconv.FormatBool(stored)).End("")
	return syms
}

// Invalidate drops every cached file.
func (p *CachingProvider) Invalidate() {
	p.mu.Lock()
	n := len(p.byPath)
	clear(p.byPath)
	p.gen++
	p.mu.Unlock()
	p.invalidations.Add(1)
	trace.Point(p.tracer, trace.ScopeProvider, "invalidate", fmt.Sprintf("%d entries", n))
}

// InvalidateFile drops the cached symbols of the file's path. Unknown files
// are ignored.
func (p *CachingProvider) InvalidateFile(file source.FileID) {
	f := p.files.Get(file)
	if f == nil {
		return
	}
	p.mu.Lock()
	_, had := p.byPath[f.Path]
	delete(p.byPath, f.Path)
	p.gen++
	p.mu.Unlock()
	p.invalidations.Add(1)
	trace.Point(p.tracer, trace.ScopeFile, "invalidate", f.Path+" cached="+strconv.FormatBool(had))
}

// Warm binds files ahead of time with at most jobs binds in flight.
func (p *CachingProvider) Warm(ctx context.Context, files []source.FileID, jobs int) error {
	span := trace.Begin(p.tracerFor(ctx), trace.ScopeProvider, "warm", 0).WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")

	if jobs <= 0 {
		jobs = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, id := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.ResolvedSymbols(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm resolved symbols: %w", err)
	}
	return nil
}

// Stats returns the current counters.
func (p *CachingProvider) Stats() CacheStats {
	p.mu.RLock()
	entries := len(p.byPath)
	p.mu.RUnlock()
	return CacheStats{
		Hits:          p.hits.Load(),
		Misses:        p.misses.Load(),
		Fills:         p.fills.Load(),
		Failures:      p.failures.Load(),
		Invalidations: p.invalidations.Load(),
		Entries:       entries,
	}
}
