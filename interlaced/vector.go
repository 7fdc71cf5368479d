package interlaced

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

// Vector is an interlaced vector: a value channel of T synchronized with a
// missing-reason channel.
//
// Channels:
//   - values: one T per entry; absent entries hold the zero T, which no
//     method returns
//   - reasons: one reason.Ordinal per entry into the vector's own registry;
//     reason.None for present entries and for reason-less absent entries
//   - absent: roaring bitmap of absent indices; reasons[i] != None implies i ∈ absent
//
// A Vector is immutable. Every method that changes content returns a new
// Vector, so vectors may be shared between goroutines freely.
type Vector[T Element] struct {
	name     string
	values   []T
	reasons  []reason.Ordinal
	absent   *roaring.Bitmap
	registry *reason.Registry
	codes    *coded.Codes
}

var (
	_ Column = (*Vector[float64])(nil)
	_ Column = (*Vector[coded.Value])(nil)
)

// Name returns the column name.
func (v *Vector[T]) Name() string {
	return v.name
}

// Kind returns the element kind of T.
func (v *Vector[T]) Kind() format.Kind {
	return KindOf[T]()
}

// Len returns the number of entries.
func (v *Vector[T]) Len() int {
	return len(v.values)
}

// Codes returns the coded factor map, or nil for non-coded vectors.
func (v *Vector[T]) Codes() *coded.Codes {
	return v.codes
}

// Registry returns a copy of the vector's reason registry.
func (v *Vector[T]) Registry() *reason.Registry {
	return v.registry.Clone()
}

// NALevels returns the registered reasons in ordinal order.
func (v *Vector[T]) NALevels() []reason.Key {
	return v.registry.Levels()
}

// IsMissing reports whether entry i is absent.
func (v *Vector[T]) IsMissing(i int) bool {
	return v.absent.Contains(uint32(i)) //nolint:gosec
}

// MissingCount returns the number of absent entries.
func (v *Vector[T]) MissingCount() int {
	return int(v.absent.GetCardinality()) //nolint:gosec
}

// Absent returns a copy of the set of absent indices.
//
// Renderers use it to gap or drop missing entries without inspecting reasons.
func (v *Vector[T]) Absent() *roaring.Bitmap {
	return v.absent.Clone()
}

// At returns entry i as a Slot. It panics if i is out of range, like a slice index.
func (v *Vector[T]) At(i int) Slot[T] {
	if !v.IsMissing(i) {
		return Present(v.values[i])
	}

	return Absent[T](v.registry.Key(v.reasons[i]))
}

// Value returns the value of entry i. Reading an absent entry fails with a
// TypeError instead of returning the placeholder.
func (v *Vector[T]) Value(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.Len() {
		return zero, fmt.Errorf("%w: %d not in [0,%d)", errs.ErrIndexOutOfRange, i, v.Len())
	}
	if v.IsMissing(i) {
		return zero, errs.NewTypeError(v.name, i, "entry is missing, not a "+v.Kind().String())
	}

	return v.values[i], nil
}

// Reason returns the canonical reason of entry i.
func (v *Vector[T]) Reason(i int) (reason.Key, bool) {
	o := v.reasons[i]
	if o == reason.None {
		return reason.Key{}, false
	}

	return v.registry.Key(o), true
}

// ReasonForms returns every form of entry i's reason, canonical first.
func (v *Vector[T]) ReasonForms(i int) []reason.Key {
	return v.registry.Forms(v.reasons[i])
}

// Ordinal returns the reason ordinal of entry i in the vector's registry.
func (v *Vector[T]) Ordinal(i int) reason.Ordinal {
	return v.reasons[i]
}

// Match evaluates entry i == m. Labels and codes registered as forms of the
// same reason are equivalent; reason.Missing() matches any absent entry.
// Present entries never match.
func (v *Vector[T]) Match(i int, m reason.Marker) bool {
	return m.Matches(v.registry, v.reasons[i], v.IsMissing(i))
}

// Interface returns entry i as an untyped value, and false when absent.
func (v *Vector[T]) Interface(i int) (any, bool) {
	if v.IsMissing(i) {
		return nil, false
	}

	return any(v.values[i]), true
}

// Format returns the canonical text of entry i, and false when absent.
func (v *Vector[T]) Format(i int) (string, bool) {
	if v.IsMissing(i) {
		return "", false
	}

	return formatElement(any(v.values[i]), DefaultDateLayout), true
}

// All iterates over every entry as (index, Slot).
func (v *Vector[T]) All() iter.Seq2[int, Slot[T]] {
	return func(yield func(int, Slot[T]) bool) {
		for i := range v.values {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Present iterates over present entries only, as (index, value).
func (v *Vector[T]) Present() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, val := range v.values {
			if v.IsMissing(i) {
				continue
			}
			if !yield(i, val) {
				return
			}
		}
	}
}

// Rename returns a copy of v named name. Channels are shared, which is safe
// because vectors are immutable.
func (v *Vector[T]) Rename(name string) *Vector[T] {
	c := *v
	c.name = name

	return &c
}

// Renamed implements Column.
func (v *Vector[T]) Renamed(name string) Column {
	return v.Rename(name)
}

// clone returns a deep copy with its own channels and registry.
func (v *Vector[T]) clone() *Vector[T] {
	return &Vector[T]{
		name:     v.name,
		values:   append([]T(nil), v.values...),
		reasons:  append([]reason.Ordinal(nil), v.reasons...),
		absent:   v.absent.Clone(),
		registry: v.registry.Clone(),
		codes:    v.codes,
	}
}

func (v *Vector[T]) String() string {
	return fmt.Sprintf("<%s %s[%d], %d missing>", v.name, v.Kind(), v.Len(), v.MissingCount())
}
