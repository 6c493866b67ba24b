package symbols

import (
	"declsym/internal/types"
)

// UnionElement is a union type viewed as a declared element.
type UnionElement struct {
	model Model
	id    types.TypeID
}

// NewUnionElement returns nil when id is not a union of model.
func NewUnionElement(model Model, id types.TypeID) *UnionElement {
	if _, ok := model.UnionInfo(id); !ok {
		return nil
	}
	return &UnionElement{model: model, id: id}
}

func (u *UnionElement) ShortName() string {
	info, _ := u.model.UnionInfo(u.id)
	return nameOf(u.model, info.Name)
}

func (u *UnionElement) Kind() ElementKind { return ElementUnion }
func (u *UnionElement) TypeID() types.TypeID { return u.id }
func (u *UnionElement) Hash() uint64 { return hashName(u.ShortName()) }

func (u *UnionElement) Equal(other DeclaredElement) bool {
	o, ok := other.(*UnionElement)
	return ok && o != nil && u.model == o.model && u.id == o.id
}

// Cases returns the union's cases as declared elements.
func (u *UnionElement) Cases() []*UnionCaseElement {
	cases := u.model.UnionCases(u.id)
	out := make([]*UnionCaseElement, len(cases))
	for i, uc := range cases {
		out[i] = NewUnionCaseElement(u.model, uc)
	}
	return out
}

// TagsClass returns the generated tags container of this union.
func (u *UnionElement) TagsClass() *UnionTagsClass {
	return newUnionTagsClass(u.model, u.model.UnionTagsClass(u.id))
}

// UnionCaseElement is a union case viewed as a declared element. Two views
// are equal when they wrap the same case record.
type UnionCaseElement struct {
	model Model
	uc    *types.UnionCase
}

func NewUnionCaseElement(model Model, uc *types.UnionCase) *UnionCaseElement {
	return &UnionCaseElement{model: model, uc: uc}
}

func (c *UnionCaseElement) ShortName() string { return nameOf(c.model, c.uc.Name) }
func (c *UnionCaseElement) Kind() ElementKind { return ElementUnionCase }
func (c *UnionCaseElement) Case() *types.UnionCase { return c.uc }
func (c *UnionCaseElement) Hash() uint64 { return hashName(c.ShortName()) }

// ContainingType is the declaring union.
func (c *UnionCaseElement) ContainingType() TypeElement {
	return &UnionElement{model: c.model, id: c.uc.Union}
}

func (c *UnionCaseElement) Equal(other DeclaredElement) bool {
	o, ok := other.(*UnionCaseElement)
	return ok && o != nil && c.uc == o.uc
}

// CreatePointer captures the case's persistent coordinates.
func (c *UnionCaseElement) CreatePointer() *UnionCasePointer {
	info, _ := c.model.UnionInfo(c.uc.Union)
	return &UnionCasePointer{
		UnionName: nameOf(c.model, info.Name),
		CaseName:  c.ShortName(),
	}
}
