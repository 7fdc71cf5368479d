package interlaced

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

// Builder assembles a Vector entry by entry.
//
// Note: a Builder is NOT thread-safe and NOT reusable after Build.
type Builder[T Element] struct {
	name     string
	values   []T
	reasons  []reason.Ordinal
	absent   *roaring.Bitmap
	registry *reason.Registry
	codes    *coded.Codes
}

// NewBuilder creates a builder for a column named name with room for capacity entries.
func NewBuilder[T Element](name string, capacity int) *Builder[T] {
	return &Builder[T]{
		name:     name,
		values:   make([]T, 0, capacity),
		reasons:  make([]reason.Ordinal, 0, capacity),
		absent:   roaring.New(),
		registry: reason.New(),
	}
}

// Seed replaces the builder's registry with a copy of r, typically the seed
// of a TokenSet or a registry persisted in a sidecar. It must be called
// before any entry is appended.
func (b *Builder[T]) Seed(r *reason.Registry) *Builder[T] {
	b.registry = r.Clone()
	return b
}

// WithCodes attaches the code map of a coded factor column.
func (b *Builder[T]) WithCodes(c *coded.Codes) *Builder[T] {
	b.codes = c
	return b
}

// Len returns the number of entries appended so far.
func (b *Builder[T]) Len() int {
	return len(b.values)
}

// Append adds a present value.
func (b *Builder[T]) Append(v T) *Builder[T] {
	b.values = append(b.values, v)
	b.reasons = append(b.reasons, reason.None)

	return b
}

// AppendMissing adds an absent entry with reason k, registering k if new.
// The zero Key adds a reason-less entry.
func (b *Builder[T]) AppendMissing(k reason.Key) *Builder[T] {
	return b.appendOrdinal(b.registry.Register(k))
}

// AppendMarker adds an absent entry described by a Missing Marker.
// An unspecified marker adds a reason-less entry; a marker with several
// forms registers them as one reason.
func (b *Builder[T]) AppendMarker(m reason.Marker) error {
	o, err := registerMarker(b.registry, m)
	if err != nil {
		return err
	}
	b.appendOrdinal(o)

	return nil
}

// AppendNA adds a reason-less absent entry.
func (b *Builder[T]) AppendNA() *Builder[T] {
	return b.appendOrdinal(reason.None)
}

// AppendSlot adds s, registering its reason if new.
func (b *Builder[T]) AppendSlot(s Slot[T]) *Builder[T] {
	if v, ok := s.Value(); ok {
		return b.Append(v)
	}
	k, _ := s.Reason()

	return b.AppendMissing(k)
}

func (b *Builder[T]) appendOrdinal(o reason.Ordinal) *Builder[T] {
	var zero T

	b.absent.Add(uint32(len(b.values))) //nolint:gosec
	b.values = append(b.values, zero)
	b.reasons = append(b.reasons, o)

	return b
}

// Build returns the vector. Coded columns require a code map, and every
// present coded value must belong to it.
func (b *Builder[T]) Build() (*Vector[T], error) {
	if KindOf[T]() == format.KindCoded {
		if b.codes == nil {
			return nil, fmt.Errorf("%w: coded column %q has no code map", errs.ErrInvalidCodes, b.name)
		}
		for i, val := range b.values {
			if b.absent.Contains(uint32(i)) { //nolint:gosec
				continue
			}
			cv, _ := any(val).(coded.Value)
			if got, err := b.codes.Decode(cv.Code()); err != nil || !got.Equal(cv) {
				return nil, errs.NewUnknownLevelError(b.name, cv.Label())
			}
		}
	}

	b.absent.RunOptimize()

	return &Vector[T]{
		name:     b.name,
		values:   b.values,
		reasons:  b.reasons,
		absent:   b.absent,
		registry: b.registry,
		codes:    b.codes,
	}, nil
}

// registerMarker resolves m against r, registering its forms as one reason.
func registerMarker(r *reason.Registry, m reason.Marker) (reason.Ordinal, error) {
	if m.Any() {
		return reason.None, nil
	}

	return r.Alias(m.Forms()...)
}

// mustBuild builds vectors whose kind cannot fail validation.
func mustBuild[T Element](b *Builder[T]) *Vector[T] {
	v, err := b.Build()
	if err != nil {
		panic(err)
	}

	return v
}

// Numbers builds a numeric vector from slots.
func Numbers(name string, slots ...Slot[float64]) *Vector[float64] {
	return fromSlots(name, slots)
}

// Texts builds a text vector from slots.
func Texts(name string, slots ...Slot[string]) *Vector[string] {
	return fromSlots(name, slots)
}

// Dates builds a date vector from slots.
func Dates(name string, slots ...Slot[time.Time]) *Vector[time.Time] {
	return fromSlots(name, slots)
}

// Logicals builds a logical vector from slots.
func Logicals(name string, slots ...Slot[bool]) *Vector[bool] {
	return fromSlots(name, slots)
}

// Floats builds a numeric vector with no missing entries.
func Floats(name string, values ...float64) *Vector[float64] {
	b := NewBuilder[float64](name, len(values))
	for _, v := range values {
		b.Append(v)
	}

	return mustBuild(b)
}

func fromSlots[T Element](name string, slots []Slot[T]) *Vector[T] {
	b := NewBuilder[T](name, len(slots))
	for _, s := range slots {
		b.AppendSlot(s)
	}

	return mustBuild(b)
}
