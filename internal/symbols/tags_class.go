package symbols

import (
	"declsym/internal/types"
)

// TagsClassName is the short name of every generated tags container.
const TagsClassName = "Tags"

// UnionTagsClass is the compiler-generated container nested in a union that
// groups its tag constants. Its identity is the tags TypeID, which the model
// keeps stable per union.
type UnionTagsClass struct {
	model Model
	id    types.TypeID
}

func newUnionTagsClass(model Model, id types.TypeID) *UnionTagsClass {
	if id == types.NoTypeID {
		return nil
	}
	return &UnionTagsClass{model: model, id: id}
}

// TagsClassOf returns the tags container of union, or nil if union is not a
// union type.
func TagsClassOf(model Model, union types.TypeID) *UnionTagsClass {
	return newUnionTagsClass(model, model.UnionTagsClass(union))
}

func (c *UnionTagsClass) ShortName() string { return TagsClassName }
func (c *UnionTagsClass) Kind() ElementKind { return ElementTagsClass }
func (c *UnionTagsClass) TypeID() types.TypeID { return c.id }
func (c *UnionTagsClass) Hash() uint64 { return hashName(TagsClassName) ^ uint64(c.id) }

func (c *UnionTagsClass) Equal(other DeclaredElement) bool {
	o, ok := other.(*UnionTagsClass)
	if !ok || o == nil || c == nil {
		return false
	}
	return c.model == o.model && c.id == o.id
}

// Owner returns the union the container was generated for.
func (c *UnionTagsClass) Owner() types.TypeID {
	owner, _ := c.model.TagsClassOwner(c.id)
	return owner
}

// ContainingType is the owning union; the container is nested in it.
func (c *UnionTagsClass) ContainingType() TypeElement {
	return &UnionElement{model: c.model, id: c.Owner()}
}

func (c *UnionTagsClass) IsStatic() bool { return true }
func (c *UnionTagsClass) IsReadonly() bool { return false }
func (c *UnionTagsClass) IDSubstitution() Substitution { return EmptySubstitution }

// Members materialises one tag constant per current case of the owner.
func (c *UnionTagsClass) Members() []*UnionCaseTag {
	return TagMembers(c.model, c.Owner())
}

// Member finds the tag constant by case name.
func (c *UnionTagsClass) Member(name string) (*UnionCaseTag, bool) {
	for _, uc := range c.model.UnionCases(c.Owner()) {
		if nameOf(c.model, uc.Name) == name {
			return NewUnionCaseTag(c.model, uc), true
		}
	}
	return nil, false
}
