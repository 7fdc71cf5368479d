// Package transform rewrites one channel of an interlaced vector at a time.
//
// MapValues and Convert touch present values only; MapReasons touches
// reasons only. Neither changes which entries are absent. Across applies a
// ColumnFunc to every table column selected by a table.Predicate.
package transform

import (
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
)

// MapValues applies f to every present value of v. Absent entries, their
// reasons and the registry pass through unchanged.
func MapValues[T interlaced.Element](v *interlaced.Vector[T], f func(T) (T, error)) (*interlaced.Vector[T], error) {
	return interlaced.Map(v, f)
}

// Convert retypes the value channel of v through f. The reason channel is
// kept. Converting into a coded factor is not supported; use
// interlaced.Promote.
func Convert[T, U interlaced.Element](v *interlaced.Vector[T], f func(T) (U, error)) (*interlaced.Vector[U], error) {
	return interlaced.Map(v, f)
}

// MapReasons applies f to every reason of col and re-registers the results
// in a new registry, in the original ordinal order. Returning the zero Key
// turns a reason into a plain NA. Present entries are untouched.
func MapReasons(col interlaced.Column, f func(reason.Key) reason.Key) interlaced.Column {
	return col.MapReasons(f)
}

// Relabel returns a reason mapping that renames reasons found in names and
// keeps the others:
//
//	transform.MapReasons(col, transform.Relabel(map[reason.Key]reason.Key{
//	    reason.Code(-99): reason.Label("skipped"),
//	}))
func Relabel(names map[reason.Key]reason.Key) func(reason.Key) reason.Key {
	return func(k reason.Key) reason.Key {
		if to, ok := names[k]; ok {
			return to
		}

		return k
	}
}

// Collapse returns a reason mapping that folds every reason into to.
func Collapse(to reason.Key) func(reason.Key) reason.Key {
	return func(reason.Key) reason.Key {
		return to
	}
}
