package symbols

import (
	"slices"

	"declsym/internal/types"
)

// UnionCaseTag is the synthetic int32 constant holding a union case's tag.
// It is not written in source: the compiler emits it into the union's Tags
// container. A tag is a view over its case and holds no state of its own;
// every query goes back to the model, so callers may create tags freely and
// share them across goroutines.
//
// Equality deliberately ignores the tag value. Two tags are equal when their
// names match and they live in the same Tags container. The container is
// unique per union, so this identifies the case slot while staying stable
// across edits that shift ordinals. Do not add Index to Equal or Hash.
type UnionCaseTag struct {
	model  Model
	origin *types.UnionCase
}

var (
	_ Field              = (*UnionCaseTag)(nil)
	_ GeneratedFromOther = (*UnionCaseTag)(nil)
)

// NewUnionCaseTag derives the tag member of uc.
func NewUnionCaseTag(model Model, uc *types.UnionCase) *UnionCaseTag {
	return &UnionCaseTag{model: model, origin: uc}
}

// TagMembers returns a fresh tag member for every current case of union.
func TagMembers(model Model, union types.TypeID) []*UnionCaseTag {
	cases := model.UnionCases(union)
	out := make([]*UnionCaseTag, len(cases))
	for i, uc := range cases {
		out[i] = NewUnionCaseTag(model, uc)
	}
	return out
}

func (t *UnionCaseTag) ShortName() string { return nameOf(t.model, t.origin.Name) }

func (t *UnionCaseTag) Kind() ElementKind { return ElementConstant }

// Origin returns the backing case record.
func (t *UnionCaseTag) Origin() *types.UnionCase { return t.origin }

// OriginElement returns the backing case as a declared element.
func (t *UnionCaseTag) OriginElement() DeclaredElement {
	return NewUnionCaseElement(t.model, t.origin)
}

// Index is the case's position in its union's current case list. ok is false
// when the case is no longer listed, e.g. after the union was edited; that is
// a stale view, not an error.
func (t *UnionCaseTag) Index() (int, bool) {
	idx := slices.Index(t.model.UnionCases(t.origin.Union), t.origin)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// ContainingType is the union's Tags container, never the union itself.
// It is nil when the origin's union is not a union of the model.
func (t *UnionCaseTag) ContainingType() TypeElement {
	if c := t.tagsClass(); c != nil {
		return c
	}
	return nil
}

// ContainingTypeMember is the same Tags container seen as a nested member.
func (t *UnionCaseTag) ContainingTypeMember() TypeMember {
	if c := t.tagsClass(); c != nil {
		return c
	}
	return nil
}

func (t *UnionCaseTag) tagsClass() *UnionTagsClass {
	return newUnionTagsClass(t.model, t.model.UnionTagsClass(t.origin.Union))
}

// DeclaredType is always int32.
func (t *UnionCaseTag) DeclaredType() types.TypeID {
	return t.model.Builtins().Int32
}

// ConstantValue is the tag as an int32 constant, or BadValue while the case
// cannot be located.
func (t *UnionCaseTag) ConstantValue() ConstantValue {
	idx, ok := t.Index()
	if !ok {
		return BadValue
	}
	return Int32Constant(idx, t.DeclaredType())
}

func (t *UnionCaseTag) IsField() bool { return false }
func (t *UnionCaseTag) IsConstant() bool { return true }
func (t *UnionCaseTag) IsEnumMember() bool { return false }
func (t *UnionCaseTag) IsStatic() bool { return true }
func (t *UnionCaseTag) IsReadonly() bool { return true }

// FixedBufferSize is undefined: tags are never fixed buffers.
func (t *UnionCaseTag) FixedBufferSize() (int, bool) { return 0, false }

// IDSubstitution is the identity: tags have no type parameters.
func (t *UnionCaseTag) IDSubstitution() Substitution { return EmptySubstitution }

// CreatePointer returns a persistable handle that resolves back to an equal
// tag through the origin case.
func (t *UnionCaseTag) CreatePointer() *UnionCaseTagPointer {
	return &UnionCaseTagPointer{Origin: *NewUnionCaseElement(t.model, t.origin).CreatePointer()}
}

func (t *UnionCaseTag) Equal(other DeclaredElement) bool {
	o, ok := other.(*UnionCaseTag)
	if !ok || o == nil || t == nil {
		return false
	}
	if t == o {
		return true
	}
	if t.ShortName() != o.ShortName() {
		return false
	}
	tc, oc := t.tagsClass(), o.tagsClass()
	if tc == nil || oc == nil {
		return false
	}
	return tc.Equal(oc)
}

// Hash depends on the short name only.
func (t *UnionCaseTag) Hash() uint64 { return hashName(t.ShortName()) }

func (t *UnionCaseTag) String() string {
	return t.unionLabel() + "." + TagsClassName + "." + t.ShortName()
}

func (t *UnionCaseTag) unionLabel() string {
	info, ok := t.model.UnionInfo(t.origin.Union)
	if !ok {
		return "?"
	}
	return nameOf(t.model, info.Name)
}
