package interlaced

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

// Column is the type-erased view of a Vector used by tables, the codec and
// batched operators. Every *Vector[T] implements it; code that needs the
// concrete value type type-switches on the column:
//
//	switch v := col.(type) {
//	case *interlaced.Vector[float64]:
//	    // numeric column
//	case *interlaced.Vector[coded.Value]:
//	    // coded factor column
//	}
type Column interface {
	// Name returns the column name.
	Name() string

	// Kind returns the declared element kind, fixed at construction.
	Kind() format.Kind

	// Len returns the number of entries.
	Len() int

	// IsMissing reports whether entry i is absent, with or without a reason.
	IsMissing(i int) bool

	// MissingCount returns the number of absent entries.
	MissingCount() int

	// Absent returns a copy of the set of absent indices.
	Absent() *roaring.Bitmap

	// Reason returns the canonical reason of entry i, if it has one.
	Reason(i int) (reason.Key, bool)

	// ReasonForms returns every registered form of entry i's reason.
	ReasonForms(i int) []reason.Key

	// Match evaluates entry i == m.
	Match(i int, m reason.Marker) bool

	// NALevels returns the registered reasons in ordinal order.
	NALevels() []reason.Key

	// Registry returns a copy of the column's reason registry.
	Registry() *reason.Registry

	// Codes returns the coded factor map, or nil for other kinds.
	Codes() *coded.Codes

	// Interface returns entry i as float64, time.Time, string, coded.Value
	// or bool, and false when the entry is absent.
	Interface(i int) (any, bool)

	// Format returns the canonical text of entry i, and false when absent.
	Format(i int) (string, bool)

	// Take returns a new column holding the entries at idx, in order.
	Take(idx []int) (Column, error)

	// Renamed returns a copy of the column with a new name.
	Renamed(name string) Column

	// MapReasons returns a copy whose reasons are rewritten by f.
	MapReasons(f func(reason.Key) reason.Key) Column
}
