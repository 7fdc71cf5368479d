package table

import (
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/interlaced"
)

// Predicate selects columns by a capability of their declared type.
type Predicate func(interlaced.Column) bool

// AnyColumn selects every column.
func AnyColumn(interlaced.Column) bool {
	return true
}

// IsKind selects columns whose declared kind is one of kinds.
func IsKind(kinds ...format.Kind) Predicate {
	return func(col interlaced.Column) bool {
		for _, k := range kinds {
			if col.Kind() == k {
				return true
			}
		}

		return false
	}
}

// IsCoded selects coded factor columns.
func IsCoded(col interlaced.Column) bool {
	return col.Kind() == format.KindCoded
}

// HasMissing selects columns with at least one absent entry.
func HasMissing(col interlaced.Column) bool {
	return col.MissingCount() > 0
}

// Named selects the columns with the given names.
func Named(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	return func(col interlaced.Column) bool {
		_, ok := set[col.Name()]
		return ok
	}
}

// And selects columns matching every predicate.
func (p Predicate) And(other Predicate) Predicate {
	return func(col interlaced.Column) bool {
		return p(col) && other(col)
	}
}

// Not selects columns p rejects.
func (p Predicate) Not() Predicate {
	return func(col interlaced.Column) bool {
		return !p(col)
	}
}
