package resolve

import (
	"cmp"
	"slices"
	"sort"

	"declsym/internal/source"
	"declsym/internal/symbols"
)

// SymbolUse binds a name occurrence in a file to the element it denotes.
type SymbolUse struct {
	Name          string
	Span          source.Span
	Element       symbols.DeclaredElement
	IsDeclaration bool
}

// FileSymbols is the set of bindings visible in one file. Implementations
// are immutable and safe for concurrent readers.
type FileSymbols interface {
	// Lookup returns every occurrence of name in offset order.
	Lookup(name string) ([]SymbolUse, bool)
	// UseAt returns the occurrence covering offset, declarations included.
	UseAt(offset uint32) (SymbolUse, bool)
	// DeclarationAt is UseAt restricted to declarations.
	DeclarationAt(offset uint32) (SymbolUse, bool)
	Declared() []SymbolUse
	Resolved() []SymbolUse
	Len() int
}

type fileSymbols struct {
	uses   []SymbolUse // sorted by Span.Start
	byName map[string][]int
}

// NewFileSymbols indexes uses. The input slice is copied.
func NewFileSymbols(uses []SymbolUse) FileSymbols {
	if len(uses) == 0 {
		return EmptyFileSymbols
	}
	sorted := slices.Clone(uses)
	slices.SortStableFunc(sorted, func(a, b SymbolUse) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	byName := make(map[string][]int, len(sorted))
	for i, u := range sorted {
		byName[u.Name] = append(byName[u.Name], i)
	}
	return &fileSymbols{uses: sorted, byName: byName}
}

func (fs *fileSymbols) Lookup(name string) ([]SymbolUse, bool) {
	idxs, ok := fs.byName[name]
	if !ok {
		return nil, false
	}
	out := make([]SymbolUse, len(idxs))
	for i, idx := range idxs {
		out[i] = fs.uses[idx]
	}
	return out, true
}

func (fs *fileSymbols) UseAt(offset uint32) (SymbolUse, bool) {
	return fs.at(offset, false)
}

func (fs *fileSymbols) DeclarationAt(offset uint32) (SymbolUse, bool) {
	return fs.at(offset, true)
}

// at scans backwards from the last use starting at or before offset; the
// closest start wins when spans nest.
func (fs *fileSymbols) at(offset uint32, declOnly bool) (SymbolUse, bool) {
	end := sort.Search(len(fs.uses), func(i int) bool { return fs.uses[i].Span.Start > offset })
	for i := end - 1; i >= 0; i-- {
		u := fs.uses[i]
		if declOnly && !u.IsDeclaration {
			continue
		}
		if u.Span.Contains(offset) {
			return u, true
		}
	}
	return SymbolUse{}, false
}

func (fs *fileSymbols) Declared() []SymbolUse {
	return fs.filter(true)
}

func (fs *fileSymbols) Resolved() []SymbolUse {
	return fs.filter(false)
}

func (fs *fileSymbols) filter(decl bool) []SymbolUse {
	var out []SymbolUse
	for _, u := range fs.uses {
		if u.IsDeclaration == decl {
			out = append(out, u)
		}
	}
	return out
}

func (fs *fileSymbols) Len() int { return len(fs.uses) }
