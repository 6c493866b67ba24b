package resolve_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"declsym/internal/resolve"
	"declsym/internal/source"
	"declsym/internal/trace"
)

// wordBinder declares every word of the file at its offset.
type wordBinder struct {
	calls atomic.Int32
	delay time.Duration
	fail  error
}

func (b *wordBinder) BindFile(_ context.Context, f *source.File) ([]resolve.SymbolUse, error) {
	b.calls.Add(1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.fail != nil {
		return nil, b.fail
	}
	var uses []resolve.SymbolUse
	var start uint32
	for i, word := range strings.Fields(string(f.Content)) {
		idx := strings.Index(string(f.Content[start:]), word)
		off := start + uint32(idx)
		uses = append(uses, resolve.SymbolUse{
			Name:          word,
			Span:          source.Span{File: f.ID, Start: off, End: off + uint32(len(word))},
			IsDeclaration: i == 0,
		})
		start = off + uint32(len(word))
	}
	return uses, nil
}

func TestCachingProviderHitAndMiss(t *testing.T) {
	ctx := context.Background()
	files := source.NewFileSet()
	id := files.Add("src/Shapes.fs", []byte("Shape Circle Square"), 0)
	binder := &wordBinder{}
	p := resolve.NewCachingProvider(files, binder)

	first := p.ResolvedSymbols(ctx, id)
	second := p.ResolvedSymbols(ctx, id)
	if first != second {
		t.Fatal("second query must be served from the cache")
	}
	if binder.calls.Load() != 1 {
		t.Fatalf("binder calls = %d", binder.calls.Load())
	}
	if u, ok := first.UseAt(7); !ok || u.Name != "Circle" {
		t.Fatalf("UseAt(7) = %+v,%v", u, ok)
	}
	st := p.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Fills != 1 || st.Entries != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestCachingProviderInvalidateFile(t *testing.T) {
	ctx := context.Background()
	files := source.NewFileSet()
	a := files.Add("src/A.fs", []byte("A1 A2"), 0)
	b := files.Add("src/B.fs", []byte("B1"), 0)
	binder := &wordBinder{}
	p := resolve.NewCachingProvider(files, binder)

	p.ResolvedSymbols(ctx, a)
	p.ResolvedSymbols(ctx, b)
	p.InvalidateFile(a)
	p.InvalidateFile(a)                // повтор безвреден
	p.InvalidateFile(source.FileID(77)) // неизвестный файл игнорируется

	p.ResolvedSymbols(ctx, b)
	if binder.calls.Load() != 2 {
		t.Fatal("B must still be cached")
	}
	p.ResolvedSymbols(ctx, a)
	if binder.calls.Load() != 3 {
		t.Fatal("A must be rebound after invalidation")
	}
}

func TestCachingProviderInvalidateAll(t *testing.T) {
	ctx := context.Background()
	files := source.NewFileSet()
	a := files.Add("src/A.fs", []byte("A"), 0)
	b := files.Add("src/B.fs", []byte("B"), 0)
	binder := &wordBinder{}
	p := resolve.NewCachingProvider(files, binder, resolve.WithCapacity(2))

	p.ResolvedSymbols(ctx, a)
	p.ResolvedSymbols(ctx, b)
	p.Invalidate()
	if p.Stats().Entries != 0 {
		t.Fatal("global invalidation must drop everything")
	}
	p.ResolvedSymbols(ctx, a)
	p.ResolvedSymbols(ctx, b)
	if binder.calls.Load() != 4 {
		t.Fatalf("binder calls = %d", binder.calls.Load())
	}
}

func TestCachingProviderNewVersionMisses(t *testing.T) {
	ctx := context.Background()
	files := source.NewFileSet()
	v1 := files.Add("src/A.fs", []byte("Old"), 0)
	p := resolve.NewCachingProvider(files, &wordBinder{})
	if _, ok := p.ResolvedSymbols(ctx, v1).Lookup("Old"); !ok {
		t.Fatal("v1 binding")
	}

	// новая версия без явной инвалидации
	v2 := files.Add("src/A.fs", []byte("New"), 0)
	got := p.ResolvedSymbols(ctx, v2)
	if _, ok := got.Lookup("New"); !ok {
		t.Fatal("a new content hash must not be served from the old entry")
	}
	if _, ok := got.Lookup("Old"); ok {
		t.Fatal("stale binding leaked")
	}
}

func TestCachingProviderBinderFailure(t *testing.T) {
	ctx := context.Background()
	files := source.NewFileSet()
	id := files.Add("src/Broken.fs", []byte("x"), 0)
	binder := &wordBinder{fail: errors.New("typecheck aborted")}
	ring := trace.NewRingTracer(16, trace.LevelError)
	p := resolve.NewCachingProvider(files, binder)

	got := p.ResolvedSymbols(trace.WithTracer(ctx, ring), id)
	if got != resolve.EmptyFileSymbols {
		t.Fatal("failed bind degrades to the empty result")
	}
	p.ResolvedSymbols(ctx, id)
	if binder.calls.Load() != 2 {
		t.Fatal("failures must not be cached")
	}
	if st := p.Stats(); st.Failures != 2 || st.Entries != 0 {
		t.Fatalf("stats = %+v", st)
	}
	events := ring.Snapshot()
	if len(events) != 1 || events[0].Kind != trace.KindFailure || events[0].Detail != "typecheck aborted" {
		t.Fatalf("events = %+v", events)
	}
}

func TestCachingProviderUnknownFile(t *testing.T) {
	p := resolve.NewCachingProvider(source.NewFileSet(), &wordBinder{})
	if p.ResolvedSymbols(context.Background(), source.FileID(3)) != resolve.EmptyFileSymbols {
		t.Fatal("unknown file yields the empty result")
	}
}

func TestCachingProviderSingleFlight(t *testing.T) {
	files := source.NewFileSet()
	id := files.Add("src/Slow.fs", []byte("Slow"), 0)
	binder := &wordBinder{delay: 50 * time.Millisecond}
	p := resolve.NewCachingProvider(files, binder)

	var wg sync.WaitGroup
	results := make([]resolve.FileSymbols, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.ResolvedSymbols(context.Background(), id)
		}(i)
	}
	wg.Wait()
	if binder.calls.Load() != 1 {
		t.Fatalf("concurrent misses must share one bind, got %d", binder.calls.Load())
	}
	for _, r := range results {
		if r != results[0] {
			t.Fatal("all callers must see the same result")
		}
	}
}

func TestCachingProviderInvalidateDuringFill(t *testing.T) {
	files := source.NewFileSet()
	id := files.Add("src/Race.fs", []byte("Race"), 0)
	started := make(chan struct{})
	release := make(chan struct{})
	binder := resolve.BinderFunc(func(_ context.Context, f *source.File) ([]resolve.SymbolUse, error) {
		close(started)
		<-release
		return []resolve.SymbolUse{{Name: "Race", Span: source.Span{File: f.ID, End: 4}}}, nil
	})
	p := resolve.NewCachingProvider(files, binder)

	done := make(chan resolve.FileSymbols)
	go func() { done <- p.ResolvedSymbols(context.Background(), id) }()
	<-started
	p.Invalidate()
	close(release)

	if got := <-done; got.Len() != 1 {
		t.Fatal("the in-flight caller still gets its result")
	}
	if p.Stats().Entries != 0 {
		t.Fatal("a fill that raced an invalidation must not be stored")
	}
}

func TestCachingProviderWarm(t *testing.T) {
	files := source.NewFileSet()
	var ids []source.FileID
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, files.Add("src/"+name+".fs", []byte(name), 0))
	}
	binder := &wordBinder{}
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	p := resolve.NewCachingProvider(files, binder, resolve.WithTracer(ring))

	if err := p.Warm(context.Background(), ids, 2); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if p.Stats().Entries != 5 || binder.calls.Load() != 5 {
		t.Fatalf("stats = %+v", p.Stats())
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "warm" {
		t.Fatalf("expected warm span, got %+v", events)
	}

	p.Invalidate()
	if ev := ring.Snapshot(); ev[len(ev)-1].Name != "invalidate" {
		t.Fatal("invalidate must be traced through the provider tracer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Warm(ctx, ids, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled warm = %v", err)
	}
}

// gatedBinder blocks its first bind until release is closed; later binds
// answer immediately. Each bind reports the model name current at its start.
type gatedBinder struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	model   atomic.Value // string
}

func newGatedBinder(name string) *gatedBinder {
	b := &gatedBinder{started: make(chan struct{}), release: make(chan struct{})}
	b.model.Store(name)
	return b
}

func (b *gatedBinder) BindFile(ctx context.Context, f *source.File) ([]resolve.SymbolUse, error) {
	name := b.model.Load().(string)
	if b.calls.Add(1) == 1 {
		close(b.started)
		<-b.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []resolve.SymbolUse{{Name: name, Span: source.Span{File: f.ID, End: 1}}}, nil
}

func TestCachingProviderQueryAfterInvalidateDoesNotJoinOldBind(t *testing.T) {
	files := source.NewFileSet()
	id := files.Add("src/Shapes.fs", []byte("S"), 0)
	binder := newGatedBinder("Old")
	p := resolve.NewCachingProvider(files, binder)

	first := make(chan resolve.FileSymbols)
	go func() { first <- p.ResolvedSymbols(context.Background(), id) }()
	<-binder.started

	binder.model.Store("New")
	p.Invalidate()

	second := p.ResolvedSymbols(context.Background(), id)
	close(binder.release)
	<-first

	if _, ok := second.Lookup("New"); !ok {
		t.Fatal("a query issued after Invalidate must see the edited model")
	}
	if binder.calls.Load() != 2 {
		t.Fatalf("binder calls = %d, want a fresh bind", binder.calls.Load())
	}
}

func TestCachingProviderInvalidateFileStartsFreshBind(t *testing.T) {
	files := source.NewFileSet()
	id := files.Add("src/Shapes.fs", []byte("S"), 0)
	binder := newGatedBinder("Old")
	p := resolve.NewCachingProvider(files, binder)

	go p.ResolvedSymbols(context.Background(), id)
	<-binder.started
	binder.model.Store("New")
	p.InvalidateFile(id)

	got := p.ResolvedSymbols(context.Background(), id)
	close(binder.release)
	if _, ok := got.Lookup("New"); !ok {
		t.Fatal("a query issued after InvalidateFile must see the edited model")
	}
}

func TestCachingProviderCancelledCallerDoesNotFailOthers(t *testing.T) {
	files := source.NewFileSet()
	id := files.Add("src/Shapes.fs", []byte("S"), 0)
	binder := newGatedBinder("Shape")
	p := resolve.NewCachingProvider(files, binder)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := make(chan resolve.FileSymbols)
	go func() { leader <- p.ResolvedSymbols(leaderCtx, id) }()
	<-binder.started

	follower := make(chan resolve.FileSymbols)
	go func() { follower <- p.ResolvedSymbols(context.Background(), id) }()
	for p.Stats().Misses < 2 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	if got := <-leader; got != resolve.EmptyFileSymbols {
		t.Fatal("a cancelled caller gets the empty result")
	}
	close(binder.release)

	got := <-follower
	if got.Len() != 1 {
		t.Fatalf("follower with a live context got Len=%d", got.Len())
	}
	if st := p.Stats(); st.Failures != 0 || st.Entries != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
