package interlaced

import (
	"fmt"
	"time"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

// Element is the set of value channel types.
type Element interface {
	float64 | time.Time | string | coded.Value | bool
}

// KindOf returns the Kind tag of element type T.
func KindOf[T Element]() format.Kind {
	var zero T
	switch any(zero).(type) {
	case float64:
		return format.KindNumber
	case time.Time:
		return format.KindDate
	case string:
		return format.KindText
	case coded.Value:
		return format.KindCoded
	case bool:
		return format.KindLogical
	default:
		return 0
	}
}

// Slot is one entry of a vector: either Present(T) or Absent, the latter
// optionally carrying a reason. An absent Slot never exposes a T.
type Slot[T Element] struct {
	value  T
	reason reason.Key
	absent bool
}

// Present returns a present slot holding v.
func Present[T Element](v T) Slot[T] {
	return Slot[T]{value: v}
}

// Absent returns an absent slot for reason k. The zero Key gives a reason-less slot.
func Absent[T Element](k reason.Key) Slot[T] {
	return Slot[T]{reason: k, absent: true}
}

// NA returns a reason-less absent slot.
func NA[T Element]() Slot[T] {
	return Slot[T]{absent: true}
}

// Value returns the value and true for present slots.
func (s Slot[T]) Value() (T, bool) {
	if s.absent {
		var zero T
		return zero, false
	}

	return s.value, true
}

// IsAbsent reports whether the slot is missing, with or without a reason.
func (s Slot[T]) IsAbsent() bool {
	return s.absent
}

// Reason returns the slot's reason and true when it has one.
func (s Slot[T]) Reason() (reason.Key, bool) {
	if !s.absent || s.reason.IsZero() {
		return reason.Key{}, false
	}

	return s.reason, true
}

func (s Slot[T]) String() string {
	if !s.absent {
		return formatElement(any(s.value), DefaultDateLayout)
	}
	if k, ok := s.Reason(); ok {
		return fmt.Sprintf("<missing: %s>", k)
	}

	return "<missing>"
}
