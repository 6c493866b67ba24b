// Package resolve provides the resolved symbols of source files: the name
// bindings each file declares and uses.
//
// A Provider answers ResolvedSymbols for a file and accepts invalidation
// signals. Which provider serves a file is decided by a Router: project files
// go to a CachingProvider, files known to contribute nothing go to
// MiscModule, which answers every query with EmptyFileSymbols.
package resolve
