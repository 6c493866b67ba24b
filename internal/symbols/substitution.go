package symbols

import "declsym/internal/types"

// Substitution maps type parameters of a member to concrete types.
type Substitution interface {
	Apply(t types.TypeID) types.TypeID
	IsIdentity() bool
}

type emptySubstitution struct{}

func (emptySubstitution) Apply(t types.TypeID) types.TypeID { return t }
func (emptySubstitution) IsIdentity() bool { return true }

// EmptySubstitution is the identity substitution of members without type
// parameters of their own.
var EmptySubstitution Substitution = emptySubstitution{}
