package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("src/Shapes.fs", []byte("type Shape = Circle | Square"), 0)
	latest, ok := fs.GetLatest("src/Shapes.fs")
	if !ok || latest != id1 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id1)
	}

	// тот же путь с новым содержимым получает новый FileID
	id2 := fs.Add("src/Shapes.fs", []byte("type Shape = Square | Circle"), 0)
	if id2 == id1 {
		t.Fatal("expected a new FileID for the second version")
	}
	latest, _ = fs.GetLatest("src/Shapes.fs")
	if latest != id2 {
		t.Errorf("latest = %d, want %d", latest, id2)
	}
	if fs.IsLatest(id1) || !fs.IsLatest(id2) {
		t.Error("IsLatest must track only the newest version")
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("different contents must hash differently")
	}
	if string(fs.Get(id1).Content) != "type Shape = Circle | Square" {
		t.Error("old version must stay readable")
	}
}

func TestFileSetGetUnknown(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(FileID(7)); f != nil {
		t.Fatalf("expected nil for unknown id, got %+v", f)
	}
	if fs.IsLatest(FileID(7)) {
		t.Fatal("unknown id cannot be latest")
	}
	start, end := fs.Resolve(Span{File: 7})
	if start != (LineCol{}) || end != (LineCol{}) {
		t.Fatal("resolve of unknown file must yield zero positions")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.fsx", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx length = %d, want %d", len(file.LineIdx), len(expected))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
	if file.IsMisc() {
		t.Error("virtual file must not be misc unless flagged")
	}
}

func TestCRLFAndBOM(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\n"))
	if !changed || string(normalized) != "a\nb\n" {
		t.Fatalf("normalizeCRLF = %q,%v", normalized, changed)
	}
	if _, changed := normalizeCRLF([]byte("a\rb")); changed {
		t.Fatal("lone CR must be left alone")
	}

	withoutBOM, hadBOM := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'})
	if !hadBOM || string(withoutBOM) != "x\n" {
		t.Fatalf("removeBOM = %q,%v", withoutBOM, hadBOM)
	}
}

func TestResolveLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("tags.fs", []byte("α\nCircle\n"))

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 9})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 7}) {
		t.Errorf("end = %+v", end)
	}

	// α занимает 2 байта, колонки считаются в байтах
	start, _ = fs.Resolve(Span{File: id, Start: 1, End: 1})
	if start != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("start inside rune = %+v", start)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 4, End: 10}
	if !s.Contains(4) || !s.Contains(9) || s.Contains(10) || s.Contains(3) {
		t.Fatal("half-open range violated")
	}
	marker := Span{Start: 5, End: 5}
	if !marker.Contains(5) || marker.Contains(6) {
		t.Fatal("empty span must contain only its start")
	}
	if got := s.Cover(Span{Start: 2, End: 6}); got.Start != 2 || got.End != 10 {
		t.Fatalf("Cover = %v", got)
	}
}

func TestLoadAsRegistersLogicalPathOnly(t *testing.T) {
	disk := filepath.Join(t.TempDir(), "Shapes.fs")
	if err := os.WriteFile(disk, []byte("\xEF\xBB\xBFtype Shape\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.LoadAs("src/Shapes.fs", disk, FileMisc)
	if err != nil {
		t.Fatalf("LoadAs: %v", err)
	}
	f := fs.Get(id)
	if f.Path != "src/Shapes.fs" || string(f.Content) != "type Shape\n" {
		t.Fatalf("file = %q %q", f.Path, f.Content)
	}
	if f.Flags&(FileHadBOM|FileNormalizedCRLF|FileMisc) != FileHadBOM|FileNormalizedCRLF|FileMisc {
		t.Fatalf("flags = %b", f.Flags)
	}
	if fs.Len() != 1 {
		t.Fatalf("Len = %d", fs.Len())
	}
	if _, ok := fs.GetLatest(disk); ok {
		t.Fatal("disk path must not be indexed")
	}
	if _, err := fs.LoadAs("src/Missing.fs", filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Fatal("expected read error")
	}
}
