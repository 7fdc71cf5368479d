// Package hash computes xxHash64 fingerprints for registries and code maps.
package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint accumulates an order-sensitive xxHash64 over a sequence of
// fields. Every field is length-prefixed so ("ab", "c") and ("a", "bc")
// produce different sums.
type Fingerprint struct {
	d *xxhash.Digest
}

// NewFingerprint creates an empty fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{d: xxhash.New()}
}

// String adds a string field.
func (f *Fingerprint) String(s string) *Fingerprint {
	_, _ = f.d.WriteString(strconv.Itoa(len(s)))
	_, _ = f.d.WriteString(":")
	_, _ = f.d.WriteString(s)

	return f
}

// Int adds an integer field.
func (f *Fingerprint) Int(v int64) *Fingerprint {
	return f.String(strconv.FormatInt(v, 10))
}

// Sep adds a record separator, marking the end of a group of fields.
func (f *Fingerprint) Sep() *Fingerprint {
	_, _ = f.d.WriteString(";")
	return f
}

// Sum64 returns the current hash.
func (f *Fingerprint) Sum64() uint64 {
	return f.d.Sum64()
}
