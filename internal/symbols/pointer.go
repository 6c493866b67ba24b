package symbols

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"declsym/internal/types"
)

// Pointer is a persistable handle that re-resolves to an equivalent declared
// element in a later snapshot of the model.
type Pointer interface {
	Resolve(model Model) (DeclaredElement, bool)
}

// UnionCasePointer addresses a case by its union's name and its own name.
type UnionCasePointer struct {
	UnionName string
	CaseName  string
}

// ResolveCase finds the first current case with the recorded name.
func (p *UnionCasePointer) ResolveCase(model Model) (*types.UnionCase, bool) {
	names := model.Names()
	unionName, ok := names.Find(p.UnionName)
	if !ok {
		return nil, false
	}
	union, ok := model.UnionByName(unionName)
	if !ok {
		return nil, false
	}
	caseName, ok := names.Find(p.CaseName)
	if !ok {
		return nil, false
	}
	for _, uc := range model.UnionCases(union) {
		if uc.Name == caseName {
			return uc, true
		}
	}
	return nil, false
}

func (p *UnionCasePointer) Resolve(model Model) (DeclaredElement, bool) {
	uc, ok := p.ResolveCase(model)
	if !ok {
		return nil, false
	}
	return NewUnionCaseElement(model, uc), true
}

// UnionCaseTagPointer persists a tag through its origin case: tags are never
// stored, they are derived again from whatever case the origin resolves to.
type UnionCaseTagPointer struct {
	Origin UnionCasePointer
}

// ResolveTag is Resolve with the concrete result type.
func (p *UnionCaseTagPointer) ResolveTag(model Model) (*UnionCaseTag, bool) {
	uc, ok := p.Origin.ResolveCase(model)
	if !ok {
		return nil, false
	}
	return NewUnionCaseTag(model, uc), true
}

func (p *UnionCaseTagPointer) Resolve(model Model) (DeclaredElement, bool) {
	tag, ok := p.ResolveTag(model)
	if !ok {
		return nil, false
	}
	return tag, true
}

// PointerSchemaVersion is written into every encoded pointer; increment when pointerPayload format changes.
const PointerSchemaVersion uint16 = 1

var (
	// ErrUnknownSchema is returned for payloads written by another schema version.
	ErrUnknownSchema = errors.New("unknown pointer schema")
	// ErrUnknownPointer is returned for pointer kinds this build cannot decode.
	ErrUnknownPointer = errors.New("unknown pointer kind")
)

type pointerKind uint8

const (
	pointerUnionCase pointerKind = iota + 1
	pointerUnionCaseTag
)

type pointerPayload struct {
	Schema uint16      `msgpack:"v"`
	Kind   pointerKind `msgpack:"k"`
	Union  string      `msgpack:"u"`
	Case   string      `msgpack:"c"`
}

// EncodePointer serializes a pointer for storage between sessions.
func EncodePointer(p Pointer) ([]byte, error) {
	payload := pointerPayload{Schema: PointerSchemaVersion}
	switch ptr := p.(type) {
	case *UnionCasePointer:
		payload.Kind = pointerUnionCase
		payload.Union, payload.Case = ptr.UnionName, ptr.CaseName
	case *UnionCaseTagPointer:
		payload.Kind = pointerUnionCaseTag
		payload.Union, payload.Case = ptr.Origin.UnionName, ptr.Origin.CaseName
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownPointer, p)
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("encode pointer: %w", err)
	}
	return data, nil
}

// DecodePointer restores a pointer written by EncodePointer.
func DecodePointer(data []byte) (Pointer, error) {
	var payload pointerPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode pointer: %w", err)
	}
	if payload.Schema != PointerSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchema, payload.Schema)
	}
	origin := UnionCasePointer{UnionName: payload.Union, CaseName: payload.Case}
	switch payload.Kind {
	case pointerUnionCase:
		return &origin, nil
	case pointerUnionCaseTag:
		return &UnionCaseTagPointer{Origin: origin}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPointer, payload.Kind)
	}
}
