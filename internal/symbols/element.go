package symbols

import (
	"fmt"

	"declsym/internal/types"
)

// ElementKind classifies a declared element. Consumers bucket elements by
// kind ("all constants", "all fields") without knowing the concrete type.
type ElementKind uint8

const (
	ElementInvalid ElementKind = iota
	ElementUnion
	ElementTagsClass
	ElementUnionCase
	ElementConstant
	ElementField
	ElementEnumMember
)

func (k ElementKind) String() string {
	switch k {
	case ElementUnion:
		return "union"
	case ElementTagsClass:
		return "tags class"
	case ElementUnionCase:
		return "union case"
	case ElementConstant:
		return "constant"
	case ElementField:
		return "field"
	case ElementEnumMember:
		return "enum member"
	default:
		return fmt.Sprintf("ElementKind(%d)", k)
	}
}

// DeclaredElement is any named program entity of the analysis model,
// written in source or synthesized by the compiler.
type DeclaredElement interface {
	ShortName() string
	Kind() ElementKind
	// Equal reports whether other denotes the same symbol. Implementations
	// decide what "same" means; it need not be pointer identity.
	Equal(other DeclaredElement) bool
	Hash() uint64
}

// TypeElement is a declared element that is itself a type.
type TypeElement interface {
	DeclaredElement
	TypeID() types.TypeID
}

// TypeMember is a declared element nested in a type.
type TypeMember interface {
	DeclaredElement
	ContainingType() TypeElement
	IsStatic() bool
	IsReadonly() bool
	IDSubstitution() Substitution
}

// Field covers fields, constants and enum members; the flags tell them apart.
type Field interface {
	TypeMember
	DeclaredType() types.TypeID
	ConstantValue() ConstantValue
	IsField() bool
	IsConstant() bool
	IsEnumMember() bool
	FixedBufferSize() (int, bool)
}

// GeneratedFromOther is implemented by synthetic elements that are derived
// from a real one and persist through it.
type GeneratedFromOther interface {
	DeclaredElement
	OriginElement() DeclaredElement
}
