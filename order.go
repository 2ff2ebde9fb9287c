package routes

import (
	"cmp"
	"slices"
)

// Compare orders routes by path, then verb precedence, then method name.
// Paths and method names compare byte-wise.
func Compare(a, b Route) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Verb.Rank(), b.Verb.Rank()); c != 0 {
		return c
	}
	return cmp.Compare(a.Method, b.Method)
}

// Sort sorts rs in place by Compare. Routes that compare equal keep their
// relative order.
func Sort(rs []Route) {
	slices.SortStableFunc(rs, Compare)
}
