package resolve

import (
	"context"

	"declsym/internal/source"
)

// Provider supplies resolved symbols per file. Invalidation calls are
// notifications: they may arrive in any order, any number of times.
type Provider interface {
	// Invalidate drops everything; sent on global compiler-state changes.
	Invalidate()
	// InvalidateFile drops what was computed for one file; sent when its
	// content changes.
	InvalidateFile(file source.FileID)
	// ResolvedSymbols never returns nil.
	ResolvedSymbols(ctx context.Context, file source.FileID) FileSymbols
}

// miscModuleProvider serves files that never contribute bindings. It has no
// state, so invalidation has nothing to drop.
type miscModuleProvider struct{}

func (miscModuleProvider) Invalidate() {}

func (miscModuleProvider) InvalidateFile(source.FileID) {}

func (miscModuleProvider) ResolvedSymbols(context.Context, source.FileID) FileSymbols {
	return EmptyFileSymbols
}

// MiscModule is the shared provider for files outside any project module.
var MiscModule Provider = miscModuleProvider{}
