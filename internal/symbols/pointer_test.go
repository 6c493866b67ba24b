package symbols_test

import (
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"declsym/internal/source"
	"declsym/internal/symbols"
)

func TestTagPointerRoundTrip(t *testing.T) {
	in, shape, cases := newShapeModel(t, "Circle", "Square", "Triangle")
	tag := symbols.NewUnionCaseTag(in, cases[1])

	data, err := symbols.EncodePointer(tag.CreatePointer())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// следующий снимок: объявление переписано, порядок другой
	in.ReplaceUnionCases(shape, []source.StringID{
		in.Strings.Intern("Square"), in.Strings.Intern("Triangle"), in.Strings.Intern("Circle"),
	})

	ptr, err := symbols.DecodePointer(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	resolved, ok := ptr.Resolve(in)
	if !ok {
		t.Fatal("pointer must resolve while the case exists")
	}
	if !resolved.Equal(tag) || !tag.Equal(resolved) {
		t.Fatalf("resolved %v is not equal to the original", resolved)
	}
	again := resolved.(*symbols.UnionCaseTag)
	if idx, ok := again.Index(); !ok || idx != 0 {
		t.Fatalf("resolved tag must read the new ordinal, got %d,%v", idx, ok)
	}
	if _, ok := tag.Index(); ok {
		t.Fatal("the original view is stale after the rewrite")
	}
}

func TestTagPointerMissingCase(t *testing.T) {
	in, _, cases := newShapeModel(t, "Circle", "Square")
	ptr := symbols.NewUnionCaseTag(in, cases[0]).CreatePointer()
	in.RemoveUnionCase(cases[0])

	if el, ok := ptr.Resolve(in); ok || el != nil {
		t.Fatalf("removed case must not resolve, got %v", el)
	}
	bogus := &symbols.UnionCaseTagPointer{Origin: symbols.UnionCasePointer{UnionName: "Nope", CaseName: "Circle"}}
	if _, ok := bogus.Resolve(in); ok {
		t.Fatal("unknown union must not resolve")
	}
}

func TestCasePointerRoundTrip(t *testing.T) {
	in, _, cases := newShapeModel(t, "Circle")
	el := symbols.NewUnionCaseElement(in, cases[0])
	data, err := symbols.EncodePointer(el.CreatePointer())
	if err != nil {
		t.Fatal(err)
	}
	ptr, err := symbols.DecodePointer(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, isTag := ptr.(*symbols.UnionCaseTagPointer); isTag {
		t.Fatal("case pointer decoded as tag pointer")
	}
	got, ok := ptr.Resolve(in)
	if !ok || !got.Equal(el) {
		t.Fatal("case pointer must resolve to the same case")
	}
}

func TestDecodePointerErrors(t *testing.T) {
	future, err := msgpack.Marshal(map[string]any{"v": 99, "k": 2, "u": "Shape", "c": "Circle"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := symbols.DecodePointer(future); !errors.Is(err, symbols.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
	unknown, err := msgpack.Marshal(map[string]any{"v": 1, "k": 42})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := symbols.DecodePointer(unknown); !errors.Is(err, symbols.ErrUnknownPointer) {
		t.Fatalf("expected ErrUnknownPointer, got %v", err)
	}
	if _, err := symbols.DecodePointer([]byte{0xc1}); err == nil {
		t.Fatal("garbage must fail to decode")
	}
	if _, err := symbols.EncodePointer(nil); !errors.Is(err, symbols.ErrUnknownPointer) {
		t.Fatalf("nil pointer encode: %v", err)
	}
}
