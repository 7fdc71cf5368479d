package interlaced

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

func (v *Vector[T]) checkIndex(i int) error {
	if i < 0 || i >= v.Len() {
		return fmt.Errorf("%w: %d not in [0,%d)", errs.ErrIndexOutOfRange, i, v.Len())
	}

	return nil
}

// Replace returns a copy of v with entry i missing as described by m.
// A new reason is appended to the copy's registry; T never changes.
func (v *Vector[T]) Replace(i int, m reason.Marker) (*Vector[T], error) {
	if err := v.checkIndex(i); err != nil {
		return nil, err
	}

	out := v.clone()
	o, err := registerMarker(out.registry, m)
	if err != nil {
		return nil, err
	}

	var zero T
	out.values[i] = zero
	out.reasons[i] = o
	out.absent.Add(uint32(i)) //nolint:gosec

	return out, nil
}

// ReplaceWhere returns a copy of v with every entry selected by mask made
// missing as described by m.
func (v *Vector[T]) ReplaceWhere(mask []bool, m reason.Marker) (*Vector[T], error) {
	if len(mask) != v.Len() {
		return nil, fmt.Errorf("%w: mask of %d for column %q of %d", errs.ErrLengthMismatch, len(mask), v.name, v.Len())
	}

	out := v.clone()
	o, err := registerMarker(out.registry, m)
	if err != nil {
		return nil, err
	}

	var zero T
	for i, sel := range mask {
		if !sel {
			continue
		}
		out.values[i] = zero
		out.reasons[i] = o
		out.absent.Add(uint32(i)) //nolint:gosec
	}

	return out, nil
}

// Set returns a copy of v with entry i present as val. Coded values must
// belong to the vector's code map.
func (v *Vector[T]) Set(i int, val T) (*Vector[T], error) {
	if err := v.checkIndex(i); err != nil {
		return nil, err
	}
	if cv, ok := any(val).(coded.Value); ok {
		if got, err := v.codes.Decode(cv.Code()); err != nil || !got.Equal(cv) {
			return nil, errs.NewUnknownLevelError(v.name, cv.Label())
		}
	}

	out := v.clone()
	out.values[i] = val
	out.reasons[i] = reason.None
	out.absent.Remove(uint32(i)) //nolint:gosec

	return out, nil
}

// Subset returns the entries at idx, in order. Indices may repeat.
// The registry is copied whole so ordinals stay comparable with v.
func (v *Vector[T]) Subset(idx []int) (*Vector[T], error) {
	out := &Vector[T]{
		name:     v.name,
		values:   make([]T, len(idx)),
		reasons:  make([]reason.Ordinal, len(idx)),
		absent:   roaring.New(),
		registry: v.registry.Clone(),
		codes:    v.codes,
	}
	for j, i := range idx {
		if err := v.checkIndex(i); err != nil {
			return nil, err
		}
		out.values[j] = v.values[i]
		out.reasons[j] = v.reasons[i]
		if v.IsMissing(i) {
			out.absent.Add(uint32(j)) //nolint:gosec
		}
	}

	return out, nil
}

// Take implements Column.
func (v *Vector[T]) Take(idx []int) (Column, error) {
	out, err := v.Subset(idx)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Filter keeps the entries where mask is true.
func (v *Vector[T]) Filter(mask []bool) (*Vector[T], error) {
	if len(mask) != v.Len() {
		return nil, fmt.Errorf("%w: mask of %d for column %q of %d", errs.ErrLengthMismatch, len(mask), v.name, v.Len())
	}

	idx := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			idx = append(idx, i)
		}
	}

	return v.Subset(idx)
}

// Concat appends other's entries to a copy of v. Reasons of other are merged
// into the copy's registry: shared forms keep v's ordinals, new reasons are
// appended. Coded vectors must share an equal code map.
func (v *Vector[T]) Concat(other *Vector[T]) (*Vector[T], error) {
	if KindOf[T]() == format.KindCoded && !v.codes.Equal(other.codes) {
		return nil, fmt.Errorf("%w: columns %q and %q have different code maps", errs.ErrInvalidCodes, v.name, other.name)
	}

	out := v.clone()
	remap := out.registry.Merge(other.registry)

	base := len(out.values)
	out.values = append(out.values, other.values...)
	for i, o := range other.reasons {
		out.reasons = append(out.reasons, remap[o])
		if other.IsMissing(i) {
			out.absent.Add(uint32(base + i)) //nolint:gosec
		}
	}

	return out, nil
}

// WithReasons returns a copy of v whose reasons are rewritten by f.
//
// The new registry is built by mapping every reason of v in ordinal order,
// so the relative order of surviving reasons is kept. A reason mapped to
// itself keeps all of its forms. A reason mapped to the zero Key becomes
// reason-less; its entries stay absent. Present entries and the set of
// absent indices are never changed.
func (v *Vector[T]) WithReasons(f func(reason.Key) reason.Key) *Vector[T] {
	reg := reason.New()
	remap := make([]reason.Ordinal, v.registry.Len()+1)
	for o := reason.Ordinal(1); int(o) <= v.registry.Len(); o++ {
		old := v.registry.Key(o)
		mapped := f(old)
		if mapped.IsZero() {
			continue
		}
		if mapped == old {
			if no, err := reg.Alias(v.registry.Forms(o)...); err == nil {
				remap[o] = no
				continue
			}
		}
		remap[o] = reg.Register(mapped)
	}

	out := &Vector[T]{
		name:     v.name,
		values:   v.values,
		reasons:  make([]reason.Ordinal, len(v.reasons)),
		absent:   v.absent.Clone(),
		registry: reg,
		codes:    v.codes,
	}
	for i, o := range v.reasons {
		out.reasons[i] = remap[o]
	}

	return out
}

// MapReasons implements Column.
func (v *Vector[T]) MapReasons(f func(reason.Key) reason.Key) Column {
	return v.WithReasons(f)
}

// Map applies f to every present value and returns a vector of U. Absent
// entries pass through with their reasons; the registry is copied.
//
// Mapping into coded.Value is only allowed from coded.Value, in which case
// results must belong to v's code map; use Promote to turn codes into a
// coded factor.
func Map[T, U Element](v *Vector[T], f func(T) (U, error)) (*Vector[U], error) {
	var codes *coded.Codes
	if KindOf[U]() == format.KindCoded {
		if KindOf[T]() != format.KindCoded {
			return nil, errs.NewOperationNotSupportedError("map to coded", v.name, v.Kind())
		}
		codes = v.codes
	}

	out := &Vector[U]{
		name:     v.name,
		values:   make([]U, len(v.values)),
		reasons:  append(v.reasons[:0:0], v.reasons...),
		absent:   v.absent.Clone(),
		registry: v.registry.Clone(),
		codes:    codes,
	}
	for i, val := range v.values {
		if v.IsMissing(i) {
			continue
		}
		res, err := f(val)
		if err != nil {
			return nil, fmt.Errorf("column %q index %d: %w", v.name, i, err)
		}
		if cv, ok := any(res).(coded.Value); ok {
			if got, derr := codes.Decode(cv.Code()); derr != nil || !got.Equal(cv) {
				return nil, errs.NewUnknownLevelError(v.name, cv.Label())
			}
		}
		out.values[i] = res
	}

	return out, nil
}
