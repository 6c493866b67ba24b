package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("load workspace", func() error { return nil }); err != nil {
		t.Fatalf("measure: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("bind", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("measure must return fn error, got %v", err)
	}
	tm.End(42, "ignored")

	phases := tm.Phases()
	if len(phases) != 2 || phases[0].Name != "load workspace" || phases[1].Note != "failed" {
		t.Fatalf("phases = %+v", phases)
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "load workspace", "bind", "(failed)", "total"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestTimerTrack(t *testing.T) {
	tm := NewTimer()
	ran := false
	tm.Track("resolve", func() { ran = true })
	phases := tm.Phases()
	if !ran || len(phases) != 1 || phases[0].Name != "resolve" || phases[0].Note != "" {
		t.Fatalf("ran=%v phases=%+v", ran, phases)
	}
}
