// Package directive parses route markers from Go source files.
//
// Markers are line comments in the form:
//
//	//route:path <value>
//	//route:get
//	//route:post
//	//route:put
//	//route:delete
//	//route:head
//	//route:options
//
// A path directive on a type declaration sets the base path for the type's
// routes. On a method, or on a method of an interface type, it sets the path
// fragment joined to the base path. The value may be a Go quoted string.
// Verb directives apply to methods only and take no value.
package directive

import (
	"cmp"
	"go/ast"
	"go/token"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"

	"github.com/broady/routes"
)

// Prefix starts every route directive.
const Prefix = "//route:"

// Target is the kind of declaration a set of markers is attached to.
type Target int

const (
	TargetType            Target = iota // type T ...
	TargetMethod                        // func (T) M()
	TargetInterfaceMethod               // type T interface { M() }
)

func (t Target) String() string {
	switch t {
	case TargetType:
		return "type"
	case TargetMethod:
		return "method"
	case TargetInterfaceMethod:
		return "interface method"
	default:
		return "unknown"
	}
}

// Markers are the route markers attached to one declaration.
type Markers struct {
	Path    string
	HasPath bool
	Verbs   []routes.Verb // in directive order
}

// Annotation is a declaration carrying at least one route directive.
type Annotation struct {
	Target  Target
	Ident   *ast.Ident // name of the type or method
	Recv    string     // receiver or interface type name; empty for types
	Markers Markers
	Pos     token.Position // first directive
}

var verbs = map[string]routes.Verb{
	"get":     routes.GET,
	"post":    routes.POST,
	"put":     routes.PUT,
	"delete":  routes.DELETE,
	"head":    routes.HEAD,
	"options": routes.OPTIONS,
}

// directive is a single parsed //route: comment.
type directive struct {
	name  string
	value string
	pos   token.Position
}

func (d directive) String() string {
	return Prefix + d.name
}

// ParsePackage extracts annotations from every file of a loaded package.
// The package must be loaded with packages.NeedSyntax.
func ParsePackage(pkg *packages.Package) ([]Annotation, error) {
	var out []Annotation
	for _, f := range pkg.Syntax {
		anns, err := ParseFile(pkg.Fset, f)
		if err != nil {
			return nil, err
		}
		out = append(out, anns...)
	}
	return out, nil
}

// ParseFile extracts annotations from a single file.
//
// The file must be parsed with parser.ParseComments. Returns a
// *routes.MarkerReadError if a directive is malformed or is not attached to a
// type, method, or interface method declaration.
func ParseFile(fset *token.FileSet, f *ast.File) ([]Annotation, error) {
	// Directive comment groups, keyed by group, consumed as they are matched
	// to declarations. Whatever remains is unattached.
	pending := make(map[*ast.CommentGroup][]directive)
	for _, cg := range f.Comments {
		var ds []directive
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			ds = append(ds, split(fset.Position(c.Slash), c.Text))
		}
		if len(ds) > 0 {
			pending[cg] = ds
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	var out []Annotation
	take := func(doc *ast.CommentGroup, target Target, ident *ast.Ident, recv string) error {
		ds, ok := pending[doc]
		if !ok {
			return nil
		}
		delete(pending, doc)
		m, err := markers(target, ds)
		if err != nil {
			return err
		}
		out = append(out, Annotation{
			Target:  target,
			Ident:   ident,
			Recv:    recv,
			Markers: m,
			Pos:     ds[0].pos,
		})
		return nil
	}

	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if decl.Doc == nil {
				continue
			}
			if decl.Recv == nil || len(decl.Recv.List) == 0 {
				if ds, ok := pending[decl.Doc]; ok {
					return nil, routes.MarkerErrorf(ds[0].pos, ds[0].String(),
						"must annotate a type or method, not func %s", decl.Name.Name)
				}
				continue
			}
			recv := receiverName(decl.Recv.List[0].Type)
			if err := take(decl.Doc, TargetMethod, decl.Name, recv); err != nil {
				return nil, err
			}

		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			if decl.Doc != nil {
				if ds, ok := pending[decl.Doc]; ok && len(decl.Specs) != 1 {
					return nil, routes.MarkerErrorf(ds[0].pos, ds[0].String(),
						"must be attached to a single type, not a type group")
				}
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil {
					doc = decl.Doc
				}
				if doc != nil {
					if err := take(doc, TargetType, ts.Name, ""); err != nil {
						return nil, err
					}
				}
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok || iface.Methods == nil {
					continue
				}
				for _, field := range iface.Methods.List {
					if field.Doc == nil || len(field.Names) == 0 {
						continue
					}
					if _, ok := field.Type.(*ast.FuncType); !ok {
						continue
					}
					if err := take(field.Doc, TargetInterfaceMethod, field.Names[0], ts.Name.Name); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	if len(pending) > 0 {
		var dangling []directive
		for _, ds := range pending {
			dangling = append(dangling, ds[0])
		}
		first := slices.MinFunc(dangling, func(a, b directive) int {
			return cmp.Compare(a.pos.Offset, b.pos.Offset)
		})
		return nil, routes.MarkerErrorf(first.pos, first.String(),
			"must be followed by a type, method, or interface method declaration")
	}

	slices.SortFunc(out, func(a, b Annotation) int {
		return cmp.Compare(a.Pos.Offset, b.Pos.Offset)
	})
	return out, nil
}

// split breaks a directive comment into its name and raw value.
func split(pos token.Position, text string) directive {
	text = strings.TrimPrefix(text, Prefix)
	d := directive{name: text, pos: pos}
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		d.name, d.value = text[:i], strings.TrimSpace(text[i:])
	}
	return d
}

// markers validates the directives attached to one declaration.
func markers(target Target, ds []directive) (Markers, error) {
	var m Markers
	var pathPos token.Position
	for _, d := range ds {
		if d.name == "path" {
			if m.HasPath {
				return Markers{}, routes.MarkerErrorf(d.pos, d.String(), "duplicate path (previous at %s)", pathPos)
			}
			v, err := pathValue(d)
			if err != nil {
				return Markers{}, err
			}
			m.Path, m.HasPath, pathPos = v, true, d.pos
			continue
		}

		verb, ok := verbs[d.name]
		if !ok {
			return Markers{}, routes.MarkerErrorf(d.pos, d.String(), "unknown directive")
		}
		if target == TargetType {
			return Markers{}, routes.MarkerErrorf(d.pos, d.String(), "only applies to methods")
		}
		if d.value != "" {
			return Markers{}, routes.MarkerErrorf(d.pos, d.String(), "takes no value, got %q", d.value)
		}
		if !slices.Contains(m.Verbs, verb) {
			m.Verbs = append(m.Verbs, verb)
		}
	}
	return m, nil
}

// pathValue reads the value of a path directive. A missing value is the
// empty path.
func pathValue(d directive) (string, error) {
	v := d.value
	if v == "" {
		return "", nil
	}
	if v[0] == '"' || v[0] == '`' {
		s, err := strconv.Unquote(v)
		if err != nil {
			return "", routes.MarkerErrorf(d.pos, d.String(), "malformed quoted value %s", v)
		}
		return s, nil
	}
	if fields := strings.Fields(v); len(fields) > 1 {
		return "", routes.MarkerErrorf(d.pos, d.String(), "expected at most one value, got %d", len(fields))
	}
	return v, nil
}

// receiverName returns the base type name of a method receiver expression:
// T, *T, T[P], *T[P, Q].
func receiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}
