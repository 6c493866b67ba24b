// Package workspace materialises a union model, a file set and a binder
// from a TOML description.
//
//	[[union]]
//	name  = "Shape"
//	cases = ["Circle", "Square"]
//
//	[[file]]
//	path    = "src/Area.fs"
//	content = "match s with Shape.Tags.Circle -> 1"
//	[[file.use]]
//	ref    = "Shape.Tags.Circle"
//	offset = 13
//
// A use ref names a union ("Shape"), a case ("Shape.Circle"), the tags
// container ("Shape.Tags") or a tag member ("Shape.Tags.Circle"). Refs are
// resolved when a file is bound, so edits to the model are visible to the
// next bind.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"declsym/internal/resolve"
	"declsym/internal/source"
	"declsym/internal/symbols"
	"declsym/internal/types"
)

var (
	// ErrNoWorkspace is returned by Load when the file does not exist.
	ErrNoWorkspace = errors.New("workspace file not found")
	// ErrUnresolvedRef is returned by the binder for refs that name nothing.
	ErrUnresolvedRef = errors.New("unresolved reference")
)

type fileDoc struct {
	Unions []unionDoc  `toml:"union"`
	Files  []fileEntry `toml:"file"`
}

type unionDoc struct {
	Name  string   `toml:"name"`
	Cases []string `toml:"cases"`
}

type fileEntry struct {
	Path    string   `toml:"path"`
	Source  string   `toml:"source"`
	Content string   `toml:"content"`
	Misc    bool     `toml:"misc"`
	Uses    []useDoc `toml:"use"`
}

type useDoc struct {
	Ref    string `toml:"ref"`
	Offset uint32 `toml:"offset"`
	Decl   bool   `toml:"decl"`
}

type binding struct {
	ref  string
	span source.Span
	decl bool
}

// Workspace is a loaded description.
type Workspace struct {
	Path  string
	Types *types.Interner
	Files *source.FileSet

	unions   []types.TypeID
	order    []source.FileID
	bindings map[string][]binding // keyed by file path
}

// Load reads and materialises the workspace at path. File sources are
// resolved relative to the workspace file.
func Load(path string) (*Workspace, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoWorkspace, path)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	ws, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ws.Path = path
	return ws, nil
}

// Parse materialises a workspace from TOML text.
func Parse(data []byte, baseDir string) (*Workspace, error) {
	var doc fileDoc
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	ws := &Workspace{
		Types:    types.NewInterner(nil),
		Files:    source.NewFileSet(),
		bindings: make(map[string][]binding),
	}
	for i, u := range doc.Unions {
		if err := ws.addUnion(u); err != nil {
			return nil, fmt.Errorf("union #%d: %w", i+1, err)
		}
	}
	for i, f := range doc.Files {
		if err := ws.addFile(f, baseDir); err != nil {
			return nil, fmt.Errorf("file #%d: %w", i+1, err)
		}
	}
	return ws, nil
}

// Name normalises an identifier to NFC.
func Name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (ws *Workspace) addUnion(u unionDoc) error {
	name := Name(u.Name)
	if name == "" {
		return errors.New("missing name")
	}
	strs := ws.Types.Strings
	if _, dup := ws.Types.UnionByName(strs.Intern(name)); dup {
		return fmt.Errorf("duplicate union %q", name)
	}
	id := ws.Types.RegisterUnion(strs.Intern(name), source.Span{})
	seen := make(map[string]bool, len(u.Cases))
	for _, c := range u.Cases {
		c = Name(c)
		if c == "" {
			return fmt.Errorf("%s: empty case name", name)
		}
		if c == symbols.TagsClassName {
			return fmt.Errorf("%s: case name %q is reserved", name, c)
		}
		if seen[c] {
			return fmt.Errorf("%s: duplicate case %q", name, c)
		}
		seen[c] = true
		ws.Types.AddUnionCase(id, strs.Intern(c), source.Span{})
	}
	ws.unions = append(ws.unions, id)
	return nil
}

func (ws *Workspace) addFile(f fileEntry, baseDir string) error {
	if strings.TrimSpace(f.Path) == "" {
		return errors.New("missing path")
	}
	var flags source.FileFlags
	if f.Misc {
		flags |= source.FileMisc
	}

	var id source.FileID
	switch {
	case f.Source != "" && f.Content != "":
		return fmt.Errorf("%s: source and content are exclusive", f.Path)
	case f.Source != "":
		loaded, err := ws.Files.LoadAs(f.Path, filepath.Join(baseDir, filepath.FromSlash(f.Source)), flags)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		id = loaded
	default:
		id = ws.Files.Add(f.Path, []byte(f.Content), flags)
	}

	file := ws.Files.Get(id)
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("%s: file too large: %w", f.Path, err)
	}
	bs := make([]binding, 0, len(f.Uses))
	for _, u := range f.Uses {
		ref := Name(u.Ref)
		if ref == "" {
			return fmt.Errorf("%s: use at %d has no ref", f.Path, u.Offset)
		}
		short := ref[strings.LastIndexByte(ref, '.')+1:]
		width, err := safecast.Conv[uint32](len(short))
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		end := u.Offset + width
		if end > size || end < u.Offset {
			return fmt.Errorf("%s: use %q at %d is past the end of the file", f.Path, ref, u.Offset)
		}
		bs = append(bs, binding{ref: ref, span: source.Span{File: id, Start: u.Offset, End: end}, decl: u.Decl})
	}
	ws.bindings[file.Path] = bs
	ws.order = append(ws.order, id)
	return nil
}

// Unions lists the unions in declaration order.
func (ws *Workspace) Unions() []types.TypeID {
	return append([]types.TypeID(nil), ws.unions...)
}

// FileIDs lists the files in declaration order.
func (ws *Workspace) FileIDs() []source.FileID {
	return append([]source.FileID(nil), ws.order...)
}

// FileByPath returns the latest version of path.
func (ws *Workspace) FileByPath(path string) (source.FileID, bool) {
	return ws.Files.GetLatest(path)
}

// Resolve looks up a dotted reference against the current model.
func (ws *Workspace) Resolve(ref string) (symbols.DeclaredElement, bool) {
	parts := strings.Split(Name(ref), ".")
	strs := ws.Types.Names()
	nameID, ok := strs.Find(parts[0])
	if !ok {
		return nil, false
	}
	union, ok := ws.Types.UnionByName(nameID)
	if !ok {
		return nil, false
	}
	switch {
	case len(parts) == 1:
		return symbols.NewUnionElement(ws.Types, union), true
	case len(parts) == 2 && parts[1] == symbols.TagsClassName:
		return symbols.TagsClassOf(ws.Types, union), true
	case len(parts) == 2:
		p := &symbols.UnionCasePointer{UnionName: parts[0], CaseName: parts[1]}
		return p.Resolve(ws.Types)
	case len(parts) == 3 && parts[1] == symbols.TagsClassName:
		if tag, ok := symbols.TagsClassOf(ws.Types, union).Member(parts[2]); ok {
			return tag, true
		}
	}
	return nil, false
}

// Binder returns a binder that serves the bindings declared for each file.
func (ws *Workspace) Binder() resolve.Binder {
	return resolve.BinderFunc(ws.bindFile)
}

func (ws *Workspace) bindFile(ctx context.Context, f *source.File) ([]resolve.SymbolUse, error) {
	bs := ws.bindings[f.Path]
	uses := make([]resolve.SymbolUse, 0, len(bs))
	for _, b := range bs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el, ok := ws.Resolve(b.ref)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", f.Path, ErrUnresolvedRef, b.ref)
		}
		span := b.span
		span.File = f.ID
		uses = append(uses, resolve.SymbolUse{
			Name:          el.ShortName(),
			Span:          span,
			Element:       el,
			IsDeclaration: b.decl,
		})
	}
	return uses, nil
}
