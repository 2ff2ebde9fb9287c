package routes

import "slices"

// Verb is an HTTP method a route responds to.
type Verb string

const (
	GET     Verb = "GET"
	POST    Verb = "POST"
	PUT     Verb = "PUT"
	DELETE  Verb = "DELETE"
	HEAD    Verb = "HEAD"
	OPTIONS Verb = "OPTIONS"
)

// expandOrder is the order in which a method's verb markers are checked
// when it is expanded into routes.
//
// OPTIONS is checked before HEAD here, while precedence sorts HEAD first.
// Both orders are observable and kept independent.
var expandOrder = [...]Verb{GET, POST, PUT, DELETE, OPTIONS, HEAD}

// precedence is the order verbs sort in when two routes share a path.
var precedence = [...]Verb{GET, POST, PUT, DELETE, HEAD, OPTIONS}

// Verbs returns the supported verbs in sort precedence order.
func Verbs() []Verb {
	return slices.Clone(precedence[:])
}

// Rank returns the sort precedence of v, lowest first.
// Verbs outside the vocabulary rank -1.
func (v Verb) Rank() int {
	return slices.Index(precedence[:], v)
}

// Valid reports whether v is one of the supported verbs.
func (v Verb) Valid() bool {
	return v.Rank() >= 0
}

func (v Verb) String() string {
	return string(v)
}

// Expand returns one entry per verb marker present in verbs, in check order
// (GET, POST, PUT, DELETE, OPTIONS, HEAD). Repeated markers count once and
// unknown verbs are ignored. A nil result means the method is not a route.
func Expand(verbs []Verb) []Verb {
	var out []Verb
	for _, v := range expandOrder {
		if slices.Contains(verbs, v) {
			out = append(out, v)
		}
	}
	return out
}
