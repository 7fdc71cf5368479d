package reason

import (
	"fmt"
	"slices"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/hash"
)

// Ordinal is the stable, 1-based position of a reason inside a Registry.
type Ordinal int32

// None is the ordinal of "no reason".
const None Ordinal = 0

// Registry is an append-only ordered set of missing reasons.
//
// Each reason owns one or more forms (labels and codes) which all resolve to
// the same Ordinal; the first form registered is the canonical one. Ordinals
// never move once assigned, so reasons recorded against a registry stay
// valid after later registrations.
//
// A Registry belongs to exactly one vector. Operations that derive a new
// vector clone the registry before changing it.
//
// Note: a Registry is NOT safe for concurrent mutation.
type Registry struct {
	levels [][]Key
	index  map[Key]Ordinal
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[Key]Ordinal)}
}

// Len returns the number of distinct reasons.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.levels)
}

// Register returns the ordinal of k, appending a new reason if k is unknown.
// The zero Key is ignored and yields None.
func (r *Registry) Register(k Key) Ordinal {
	if k.IsZero() {
		return None
	}
	if o, ok := r.index[k]; ok {
		return o
	}

	r.levels = append(r.levels, []Key{k})
	o := Ordinal(len(r.levels))
	r.index[k] = o

	return o
}

// Alias registers forms as a single reason. Unknown forms join the reason
// that already owns one of the other forms, or a new reason is appended with
// forms[0] as its canonical form.
//
// It fails with errs.ErrInvalidReason when forms is empty, contains the zero
// Key, or spans two reasons that are already distinct.
func (r *Registry) Alias(forms ...Key) (Ordinal, error) {
	if len(forms) == 0 {
		return None, fmt.Errorf("%w: no forms given", errs.ErrInvalidReason)
	}

	owner := None
	for _, f := range forms {
		if f.IsZero() {
			return None, fmt.Errorf("%w: empty reason label", errs.ErrInvalidReason)
		}
		o, ok := r.index[f]
		if !ok {
			continue
		}
		if owner != None && owner != o {
			return None, fmt.Errorf("%w: %q and %q are distinct reasons",
				errs.ErrInvalidReason, r.Key(owner), r.Key(o))
		}
		owner = o
	}

	if owner == None {
		r.levels = append(r.levels, nil)
		owner = Ordinal(len(r.levels))
	}

	for _, f := range forms {
		if _, ok := r.index[f]; ok {
			continue
		}
		r.index[f] = owner
		r.levels[owner-1] = append(r.levels[owner-1], f)
	}

	return owner, nil
}

// Lookup returns the ordinal owning k.
func (r *Registry) Lookup(k Key) (Ordinal, bool) {
	if r == nil {
		return None, false
	}
	o, ok := r.index[k]

	return o, ok
}

// Key returns the canonical form of ordinal o, or the zero Key if o is out of range.
func (r *Registry) Key(o Ordinal) Key {
	if o <= None || int(o) > r.Len() {
		return Key{}
	}

	return r.levels[o-1][0]
}

// Forms returns every form of ordinal o, canonical first.
func (r *Registry) Forms(o Ordinal) []Key {
	if o <= None || int(o) > r.Len() {
		return nil
	}

	return append([]Key(nil), r.levels[o-1]...)
}

// Levels returns the canonical form of each reason in ordinal order.
func (r *Registry) Levels() []Key {
	out := make([]Key, r.Len())
	for i := range out {
		out[i] = r.levels[i][0]
	}

	return out
}

// Clone returns a deep copy of r. A nil registry clones to an empty one.
func (r *Registry) Clone() *Registry {
	c := New()
	if r == nil {
		return c
	}

	c.levels = make([][]Key, len(r.levels))
	for i, forms := range r.levels {
		c.levels[i] = append([]Key(nil), forms...)
	}
	for k, o := range r.index {
		c.index[k] = o
	}

	return c
}

// Merge folds other's reasons into r and returns a remap table where
// remap[o] is the ordinal in r of other's ordinal o (remap[None] == None).
//
// A reason of other is identified with the reason of r owning its first
// known form; its remaining unknown forms are added to that reason. Reasons
// with no known form are appended in other's order.
func (r *Registry) Merge(other *Registry) []Ordinal {
	remap := make([]Ordinal, other.Len()+1)
	for i := 0; i < other.Len(); i++ {
		forms := other.levels[i]

		owner := None
		for _, f := range forms {
			if o, ok := r.index[f]; ok {
				owner = o
				break
			}
		}
		if owner == None {
			r.levels = append(r.levels, nil)
			owner = Ordinal(len(r.levels))
		}
		for _, f := range forms {
			if _, ok := r.index[f]; ok {
				continue
			}
			r.index[f] = owner
			r.levels[owner-1] = append(r.levels[owner-1], f)
		}
		remap[i+1] = owner
	}

	return remap
}

// Fingerprint returns an xxHash64 over every reason and its forms in order.
// Two registries with equal fingerprints assign equal ordinals to equal forms.
func (r *Registry) Fingerprint() uint64 {
	fp := hash.NewFingerprint()
	for i := 0; i < r.Len(); i++ {
		for _, f := range r.levels[i] {
			if c, ok := f.Code(); ok {
				fp.String("c").Int(c)
			} else {
				fp.String("l").String(f.label)
			}
		}
		fp.Sep()
	}

	return fp.Sum64()
}

// Equal reports whether r and other hold the same reasons, with the same
// forms, in the same order.
func (r *Registry) Equal(other *Registry) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}

	return slices.EqualFunc(r.levels, other.levels, slices.Equal[[]Key, Key])
}
