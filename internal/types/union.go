package types

import (
	"slices"

	"declsym/internal/source"
)

// UnionCase is one variant of a union. Cases are identity-bearing: a case is
// located in its union by pointer, so an edited union that replaced a case
// no longer lists the old record.
type UnionCase struct {
	Name  source.StringID
	Union TypeID // declaring union type
	Decl  source.Span
}

// UnionInfo stores metadata for a union type.
type UnionInfo struct {
	Name  source.StringID
	Decl  source.Span
	Cases []*UnionCase
	Tags  TypeID // lazily created tags container, NoTypeID until requested
}

// RegisterUnion allocates a nominal union type slot and returns its TypeID.
// A later registration under the same name shadows the earlier one in UnionByName.
func (in *Interner) RegisterUnion(name source.StringID, decl source.Span) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	slot := nextSlot(len(in.unions), "union info")
	in.unions = append(in.unions, UnionInfo{Name: name, Decl: decl})
	id := in.internLocked(Type{Kind: KindUnion, Payload: slot})
	in.unionByName[name] = id
	return id
}

// UnionByName finds the most recently registered union with the given name.
func (in *Interner) UnionByName(name source.StringID) (TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.unionByName[name]
	return id, ok
}

// AddUnionCase appends a new case to the union. It returns nil when union is
// not a union type.
func (in *Interner) AddUnionCase(union TypeID, name source.StringID, decl source.Span) *UnionCase {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.unionInfoLocked(union)
	if info == nil {
		return nil
	}
	uc := &UnionCase{Name: name, Union: union, Decl: decl}
	info.Cases = append(info.Cases, uc)
	return uc
}

// RemoveUnionCase drops the case from its union. Reports whether it was listed.
func (in *Interner) RemoveUnionCase(uc *UnionCase) bool {
	if uc == nil {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.unionInfoLocked(uc.Union)
	if info == nil {
		return false
	}
	idx := slices.Index(info.Cases, uc)
	if idx < 0 {
		return false
	}
	info.Cases = slices.Delete(info.Cases, idx, idx+1)
	return true
}

// MoveUnionCase reorders a case to position to (clamped to the list bounds).
func (in *Interner) MoveUnionCase(uc *UnionCase, to int) bool {
	if uc == nil {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.unionInfoLocked(uc.Union)
	if info == nil {
		return false
	}
	idx := slices.Index(info.Cases, uc)
	if idx < 0 {
		return false
	}
	info.Cases = slices.Delete(info.Cases, idx, idx+1)
	to = max(0, min(to, len(info.Cases)))
	info.Cases = slices.Insert(info.Cases, to, uc)
	return true
}

// ReplaceUnionCases swaps the whole case list for fresh records, the way a
// re-analysis of an edited declaration does. Previously handed out cases
// become stale.
func (in *Interner) ReplaceUnionCases(union TypeID, names []source.StringID) []*UnionCase {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.unionInfoLocked(union)
	if info == nil {
		return nil
	}
	cases := make([]*UnionCase, len(names))
	for i, name := range names {
		cases[i] = &UnionCase{Name: name, Union: union}
	}
	info.Cases = cases
	return slices.Clone(cases)
}

// UnionCases returns the current cases in declaration order. The slice is a
// copy; the records are shared.
func (in *Interner) UnionCases(union TypeID) []*UnionCase {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.unionInfoLocked(union)
	if info == nil {
		return nil
	}
	return slices.Clone(info.Cases)
}

// UnionInfo returns a copy of the metadata for the provided union TypeID.
func (in *Interner) UnionInfo(typeID TypeID) (UnionInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.unionInfoLocked(typeID)
	if info == nil {
		return UnionInfo{}, false
	}
	out := *info
	out.Cases = slices.Clone(info.Cases)
	return out, true
}

// Unions lists every registered union in registration order.
func (in *Interner) Unions() []TypeID {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]TypeID, 0, len(in.unions)-1)
	for id, tt := range in.types {
		if tt.Kind == KindUnion {
			out = append(out, TypeID(nextSlot(id, "type id")))
		}
	}
	return out
}

func (in *Interner) unionInfoLocked(typeID TypeID) *UnionInfo {
	tt, ok := in.lookupLocked(typeID)
	if !ok || tt.Kind != KindUnion {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.unions) {
		return nil
	}
	return &in.unions[tt.Payload]
}
