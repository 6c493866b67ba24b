package resolve

type emptyFileSymbols struct{}

func (emptyFileSymbols) Lookup(string) ([]SymbolUse, bool) { return nil, false }
func (emptyFileSymbols) UseAt(uint32) (SymbolUse, bool) { return SymbolUse{}, false }
func (emptyFileSymbols) DeclarationAt(uint32) (SymbolUse, bool) { return SymbolUse{}, false }
func (emptyFileSymbols) Declared() []SymbolUse { return nil }
func (emptyFileSymbols) Resolved() []SymbolUse { return nil }
func (emptyFileSymbols) Len() int { return 0 }

// EmptyFileSymbols is the shared result for files without bindings.
var EmptyFileSymbols FileSymbols = emptyFileSymbols{}
