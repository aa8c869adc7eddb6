package btree

import "cmp"

// CompareFunc reports the total order between a and b: negative if a comes
// before b, zero if they are equal, positive if a comes after b. It is the
// only requirement Tree places on the key type — no operator overloading,
// no Ordered constraint, just a function.
type CompareFunc[K any] func(a, b K) int

// Ordered returns a CompareFunc for any type that supports the built-in
// ordering operators, for callers who don't need a custom comparator.
func Ordered[K cmp.Ordered]() CompareFunc[K] {
	return cmp.Compare[K]
}
