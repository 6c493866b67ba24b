package symbols

import (
	"hash/fnv"

	"declsym/internal/source"
	"declsym/internal/types"
)

// Model is the slice of the compiler's type model the declared-element layer
// reads. It must be safe for concurrent readers; *types.Interner is.
type Model interface {
	Builtins() types.Builtins
	Names() *source.Interner
	UnionInfo(union types.TypeID) (types.UnionInfo, bool)
	UnionByName(name source.StringID) (types.TypeID, bool)
	// UnionCases lists the union's cases in declaration order; the order
	// defines the tag values.
	UnionCases(union types.TypeID) []*types.UnionCase
	// UnionTagsClass is stable per union.
	UnionTagsClass(union types.TypeID) types.TypeID
	TagsClassOwner(tags types.TypeID) (types.TypeID, bool)
}

var _ Model = (*types.Interner)(nil)

func nameOf(model Model, id source.StringID) string {
	name, _ := model.Names().Lookup(id)
	return name
}

func hashName(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name)) //nolint:errcheck
	return h.Sum64()
}
