package resolve

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"declsym/internal/source"
)

// FileKind says which provider a file belongs to.
type FileKind uint8

const (
	FileProject FileKind = iota
	FileMisc
)

func (k FileKind) String() string {
	if k == FileMisc {
		return "misc"
	}
	return "project"
}

// Classifier decides the kind of a known file.
type Classifier func(f *source.File) FileKind

// FlagClassifier routes files carrying source.FileMisc to the misc provider.
func FlagClassifier(f *source.File) FileKind {
	if f.IsMisc() {
		return FileMisc
	}
	return FileProject
}

// ExtensionClassifier extends FlagClassifier: files whose extension is in
// exts are misc as well. Comparison ignores case.
func ExtensionClassifier(exts []string) Classifier {
	norm := make([]string, len(exts))
	for i, e := range exts {
		norm[i] = strings.ToLower(e)
	}
	return func(f *source.File) FileKind {
		if FlagClassifier(f) == FileMisc {
			return FileMisc
		}
		if slices.Contains(norm, strings.ToLower(filepath.Ext(f.Path))) {
			return FileMisc
		}
		return FileProject
	}
}

// Router picks a provider per file. Unknown files go to MiscModule, so a
// caller always gets a well-formed, possibly empty, answer.
type Router struct {
	files    *source.FileSet
	project  Provider
	misc     Provider
	classify Classifier
}

var _ Provider = (*Router)(nil)

// NewRouter routes project files to project and the rest to MiscModule.
// A nil classify means FlagClassifier.
func NewRouter(files *source.FileSet, project Provider, classify Classifier) *Router {
	if classify == nil {
		classify = FlagClassifier
	}
	if project == nil {
		project = MiscModule
	}
	return &Router{files: files, project: project, misc: MiscModule, classify: classify}
}

// ProviderFor returns the provider that serves file.
func (r *Router) ProviderFor(file source.FileID) Provider {
	f := r.files.Get(file)
	if f == nil || r.classify(f) == FileMisc {
		return r.misc
	}
	return r.project
}

// Kind classifies file; unknown files are misc.
func (r *Router) Kind(file source.FileID) FileKind {
	f := r.files.Get(file)
	if f == nil {
		return FileMisc
	}
	return r.classify(f)
}

// Invalidate fans out to every distinct provider.
func (r *Router) Invalidate() {
	for _, p := range r.providers() {
		p.Invalidate()
	}
}

// InvalidateFile fans out as well: the file may have changed kind since it
// was last served.
func (r *Router) InvalidateFile(file source.FileID) {
	for _, p := range r.providers() {
		p.InvalidateFile(file)
	}
}

func (r *Router) ResolvedSymbols(ctx context.Context, file source.FileID) FileSymbols {
	return r.ProviderFor(file).ResolvedSymbols(ctx, file)
}

func (r *Router) providers() []Provider {
	if r.project == r.misc {
		return []Provider{r.misc}
	}
	return []Provider{r.project, r.misc}
}
