package routes

import "fmt"

// Registry supplies type descriptors for a package scope.
//
// The scope is a package path prefix. Implementations decide how the
// descriptors are obtained; the returned slice is treated as read-only and
// its order is preserved through discovery.
type Registry interface {
	Types(scope string) ([]TypeDescriptor, error)
}

// TypeDescriptor describes a named type and the methods in its method set.
type TypeDescriptor struct {
	Name        string // qualified name, e.g. "example.com/app/api.Users"
	BasePath    string
	HasBasePath bool
	Methods     []MethodDescriptor
}

// MethodDescriptor describes one method of a type.
type MethodDescriptor struct {
	Name string

	// DeclaringType is the qualified name of the type that declares the
	// method. For methods promoted through embedding it differs from the
	// enclosing TypeDescriptor.
	DeclaringType string

	Path     string
	HasPath  bool
	Verbs    []Verb
	Exported bool
}

// marked reports whether the method carries any route marker.
func (m MethodDescriptor) marked() bool {
	return m.HasPath || len(m.Verbs) > 0
}

// Candidates returns the handler types among types: those with a base path,
// and the declaring types of any method carrying a path or verb marker.
// Each type appears once, in the order given.
func Candidates(types []TypeDescriptor) []TypeDescriptor {
	want := make(map[string]bool)
	for _, t := range types {
		if t.HasBasePath {
			want[t.Name] = true
		}
		for _, m := range t.Methods {
			if m.marked() {
				want[m.DeclaringType] = true
			}
		}
	}

	var out []TypeDescriptor
	for _, t := range types {
		if want[t.Name] {
			out = append(out, t)
			delete(want, t.Name)
		}
	}
	return out
}

// Discover builds the routes declared by types, unsorted.
//
// Every exported method of a candidate type yields one route per verb marker.
// Methods without verb markers yield nothing, even when they carry a path.
func Discover(types []TypeDescriptor) []Route {
	var out []Route
	for _, t := range Candidates(types) {
		base := ""
		if t.HasBasePath {
			base = t.BasePath
		}
		for _, m := range t.Methods {
			if !m.Exported {
				continue
			}
			verbs := Expand(m.Verbs)
			if len(verbs) == 0 {
				continue
			}
			path := Compose(base, m.Path, m.HasPath)
			for _, v := range verbs {
				out = append(out, Route{
					Verb:   v,
					Path:   path,
					Owner:  m.DeclaringType,
					Method: m.Name,
				})
			}
		}
	}
	return out
}

// List reads the descriptors in scope from reg and returns their routes in
// report order. On error no routes are returned.
func List(reg Registry, scope string) ([]Route, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: no registry", ErrRegistryUnavailable)
	}
	types, err := reg.Types(scope)
	if err != nil {
		return nil, err
	}
	rs := Discover(types)
	Sort(rs)
	return rs, nil
}
