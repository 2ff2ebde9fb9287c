// Package registry builds route type descriptors from Go packages.
//
// It loads and type-checks packages with golang.org/x/tools/go/packages,
// reads //route: directives from their syntax, and describes every named
// type declared in the requested package scope.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/routes"
	"github.com/broady/routes/internal/directive"
)

// Loader is a routes.Registry backed by Go source.
type Loader struct {
	// Dir is the directory to run the build tool in. Empty means the
	// current directory.
	Dir string

	// Patterns are the package patterns to load, following go command
	// semantics. Markers are read from every loaded package, so patterns may
	// reach beyond the scope to pick up embedded handler types. Defaults to
	// "<scope>/...".
	Patterns []string

	// Tags are build tags passed to the build tool.
	Tags []string

	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger
}

var _ routes.Registry = (*Loader)(nil)

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Types loads the configured packages and returns a descriptor for each
// named type declared in a package whose path is scope or lies below it.
//
// Packages are ordered by path and types by name. Load and type-check
// failures wrap routes.ErrRegistryUnavailable; malformed directives are
// returned as *routes.MarkerReadError.
func (l *Loader) Types(scope string) ([]routes.TypeDescriptor, error) {
	scope = NormalizeScope(scope)
	if scope == "" {
		return nil, fmt.Errorf("%w: empty package scope", routes.ErrRegistryUnavailable)
	}

	pkgs, err := l.load(scope)
	if err != nil {
		return nil, err
	}

	marks, err := readMarkers(pkgs)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(pkgs, func(a, b *packages.Package) int {
		return cmp.Compare(a.PkgPath, b.PkgPath)
	})

	var out []routes.TypeDescriptor
	var matched int
	for _, pkg := range pkgs {
		if !InScope(pkg.PkgPath, scope) {
			continue
		}
		matched++
		descs := describe(pkg.Types, marks)
		l.logger().Debug("described package",
			slog.String("package", pkg.PkgPath),
			slog.Int("types", len(descs)))
		out = append(out, descs...)
	}
	if matched == 0 {
		l.logger().Warn("no packages in scope", slog.String("scope", scope))
	}
	return out, nil
}

func (l *Loader) load(scope string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule,
		Dir: l.Dir,
	}
	if len(l.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.Tags, ",")}
	}

	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = []string{scope + "/..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: load packages: %w", routes.ErrRegistryUnavailable, err)
	}
	l.logger().Debug("loaded packages",
		slog.Any("patterns", patterns),
		slog.Int("count", len(pkgs)))

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: package errors: %w", routes.ErrRegistryUnavailable, errors.Join(errs...))
	}
	return pkgs, nil
}

// readMarkers indexes the directives of every loaded package by the object
// they annotate.
func readMarkers(pkgs []*packages.Package) (map[types.Object]directive.Markers, error) {
	marks := make(map[types.Object]directive.Markers)
	for _, pkg := range pkgs {
		anns, err := directive.ParsePackage(pkg)
		if err != nil {
			return nil, err
		}
		for _, a := range anns {
			obj := pkg.TypesInfo.Defs[a.Ident]
			if obj == nil {
				continue
			}
			marks[obj] = a.Markers
		}
	}
	return marks, nil
}

// describe returns descriptors for the defined types in pkg's scope.
func describe(pkg *types.Package, marks map[types.Object]directive.Markers) []routes.TypeDescriptor {
	var out []routes.TypeDescriptor
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		td := routes.TypeDescriptor{Name: qualified(tn)}
		if m, ok := marks[tn]; ok && m.HasPath {
			td.BasePath = m.Path
			td.HasBasePath = true
		}
		td.Methods = methods(named, marks)
		out = append(out, td)
	}
	return out
}

// methods describes the method set of *T, or of T for interfaces, including
// promoted methods.
func methods(named *types.Named, marks map[types.Object]directive.Markers) []routes.MethodDescriptor {
	var recv types.Type = named
	if !types.IsInterface(named) {
		recv = types.NewPointer(named)
	}
	mset := types.NewMethodSet(recv)

	out := make([]routes.MethodDescriptor, 0, mset.Len())
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		fn = fn.Origin()
		md := routes.MethodDescriptor{
			Name:          fn.Name(),
			DeclaringType: declaringType(fn, named),
			Exported:      fn.Exported(),
		}
		if m, ok := marks[fn]; ok {
			md.Path = m.Path
			md.HasPath = m.HasPath
			md.Verbs = slices.Clone(m.Verbs)
		}
		out = append(out, md)
	}
	return out
}

// declaringType returns the qualified name of the type whose declaration
// holds fn, falling back to owner when the receiver is not a named type.
func declaringType(fn *types.Func, owner *types.Named) string {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return qualified(owner.Obj())
	}
	t := sig.Recv().Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := t.(*types.Named); ok {
		return qualified(n.Origin().Obj())
	}
	return qualified(owner.Obj())
}

// qualified returns "import/path.Name", or just the name for universe types.
func qualified(tn *types.TypeName) string {
	if tn.Pkg() == nil {
		return tn.Name()
	}
	return tn.Pkg().Path() + "." + tn.Name()
}

// NormalizeScope trims whitespace and a trailing "/" or "/..." from a
// package scope.
func NormalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	scope = strings.TrimSuffix(scope, "/...")
	return strings.TrimSuffix(scope, "/")
}

// InScope reports whether the package path lies in scope: it equals the
// scope or is a subpackage of it.
func InScope(pkgPath, scope string) bool {
	return pkgPath == scope || strings.HasPrefix(pkgPath, scope+"/")
}
