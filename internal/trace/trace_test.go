package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"declsym/internal/trace"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]trace.Level{
		"off": trace.LevelOff, "ERROR": trace.LevelError, "phase": trace.LevelPhase,
		"detail": trace.LevelDetail, " debug ": trace.LevelDebug,
	} {
		got, err := trace.ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := trace.ParseLevel("loud"); !errors.Is(err, trace.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	if trace.LevelPhase.ShouldEmit(trace.ScopeFile, trace.KindPoint) {
		t.Fatal("phase must drop file events")
	}
	if !trace.LevelDetail.ShouldEmit(trace.ScopeFile, trace.KindPoint) {
		t.Fatal("detail must keep file events")
	}
	if trace.LevelDetail.ShouldEmit(trace.ScopeQuery, trace.KindPoint) {
		t.Fatal("detail must drop query events")
	}
	if !trace.LevelError.ShouldEmit(trace.ScopeQuery, trace.KindFailure) {
		t.Fatal("failures pass every enabled level")
	}
	if trace.LevelOff.ShouldEmit(trace.ScopeSession, trace.KindFailure) {
		t.Fatal("off drops everything")
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := trace.NewRingTracer(3, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		trace.Point(ring, trace.ScopeFile, name, "")
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("len = %d", len(events))
	}
	if events[0].Name != "c" || events[2].Name != "e" {
		t.Fatalf("unexpected order: %s..%s", events[0].Name, events[2].Name)
	}
}

func TestSpanBeginEnd(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelPhase)
	span := trace.Begin(ring, trace.ScopeProvider, "warm", 0)
	span.WithExtra("files", "3").End("ok")

	// file-scope span is filtered out at LevelPhase
	trace.Begin(ring, trace.ScopeFile, "fill", span.ID()).End("")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != trace.KindSpanBegin || events[1].Kind != trace.KindSpanEnd {
		t.Fatalf("unexpected kinds %v %v", events[0].Kind, events[1].Kind)
	}
	if events[1].Extra["files"] != "3" || events[1].Detail != "ok" {
		t.Fatalf("end event lost payload: %+v", events[1])
	}
}

func TestStreamFormats(t *testing.T) {
	var text bytes.Buffer
	st := trace.NewStreamTracer(&text, trace.LevelDetail, trace.FormatText)
	trace.Failure(st, trace.ScopeFile, "bind", "boom")
	if !strings.Contains(text.String(), "! bind (boom)") {
		t.Fatalf("text output = %q", text.String())
	}

	var js bytes.Buffer
	nd := trace.NewStreamTracer(&js, trace.LevelDetail, trace.FormatNDJSON)
	trace.Point(nd, trace.ScopeFile, "hit", "src/A.fs")
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("ndjson decode: %v", err)
	}
	if decoded["name"] != "hit" || decoded["scope"] != "file" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr != trace.Nop || tr.Enabled() {
		t.Fatal("level off must yield the Nop tracer")
	}
}

func TestNewBothFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf, Format: trace.FormatText})
	if err != nil {
		t.Fatal(err)
	}
	trace.Point(tr, trace.ScopeProvider, "invalidate", "all")
	if !strings.Contains(buf.String(), "invalidate") {
		t.Fatalf("stream side missed the event: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestContextPropagation(t *testing.T) {
	if trace.FromContext(context.Background()) != trace.Nop {
		t.Fatal("empty context must yield Nop")
	}
	ring := trace.NewRingTracer(4, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if trace.FromContext(ctx) != trace.Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
}
