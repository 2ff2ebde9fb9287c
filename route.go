// Package routes lists the HTTP routes declared by handler types.
//
// A handler type carries an optional base path; its methods carry an optional
// path fragment and any number of verb markers. The package turns a snapshot
// of type descriptors into a sorted list of routes and renders it:
//
//	rs, err := routes.List(registry, "example.com/app")
//	if err != nil {
//	    return err
//	}
//	return routes.Render(os.Stdout, rs)
//
// Descriptors come from a Registry. The internal/registry package builds one
// from Go source, reading //route: directives.
package routes

import "strings"

// Route is a single (verb, path, handler method) triple.
type Route struct {
	Verb   Verb   `json:"verb"`
	Path   string `json:"path"`
	Owner  string `json:"owner"`  // qualified name of the declaring type
	Method string `json:"method"` // method name
}

// Handler returns the handler in Owner.Method(...) form.
func (r Route) Handler() string {
	return r.Owner + "." + r.Method + "(...)"
}

// Compose joins a type's base path and a method's path fragment.
//
// Without a fragment the base path is returned unchanged. Otherwise one
// leading "/" is dropped from the fragment and the two are joined with a
// single "/". Nothing else is normalized.
func Compose(base, fragment string, hasFragment bool) string {
	if !hasFragment {
		return base
	}
	fragment = strings.TrimPrefix(fragment, "/")
	if strings.HasSuffix(base, "/") {
		return base + fragment
	}
	return base + "/" + fragment
}
