package reason

import (
	"strconv"
	"strings"
)

// Key is one form of a missing reason: either a string label such as
// "refused" or an integer code such as -99.
//
// The zero Key is the empty label and is never a valid reason.
type Key struct {
	label  string
	code   int64
	isCode bool
}

// Label returns the label form of a reason.
func Label(s string) Key {
	return Key{label: s}
}

// Code returns the integer code form of a reason.
func Code(c int64) Key {
	return Key{code: c, isCode: true}
}

// ParseKey interprets a raw missing token: an integer literal becomes a
// code, anything else a label.
func ParseKey(token string) Key {
	if c, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64); err == nil {
		return Code(c)
	}

	return Label(token)
}

// IsCode reports whether k is an integer code.
func (k Key) IsCode() bool {
	return k.isCode
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return !k.isCode && k.label == ""
}

// Code returns the integer code and true for code keys.
func (k Key) Code() (int64, bool) {
	return k.code, k.isCode
}

// String returns the label, or the decimal code for code keys.
func (k Key) String() string {
	if k.isCode {
		return strconv.FormatInt(k.code, 10)
	}

	return k.label
}
