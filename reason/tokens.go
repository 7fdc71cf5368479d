package reason

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/interlace/errs"
)

// Entry describes one declared missing token.
type Entry struct {
	Token string // raw text as it appears in the data
	Label string // canonical label, empty for bare tokens
	Plain bool   // token denotes plain NA with no reason
}

// TokenSet maps raw field text to missing reasons.
//
// Three kinds of tokens can be declared:
//   - bare tokens, each a reason identical to its literal ("-99" is Code(-99),
//     "REFUSED" is Label("REFUSED"))
//   - labelled tokens, pairing a canonical label with a token
//     ("skipped" ← "-99"); the label and the token resolve to one reason
//   - plain NA tokens, producing missing entries without a reason
//
// Declaration errors are collected and reported by Err so that declarations
// can be chained.
type TokenSet struct {
	reasons map[string]Key   // raw token → reason form looked up at parse time
	codes   map[int64]string // code → raw token, for numeric matching
	plain   map[string]struct{}
	byKey   map[Key]string // reason form → raw token used for encoding
	entries []Entry
	seed    *Registry
	err     error
}

// NewTokenSet creates an empty token set.
func NewTokenSet() *TokenSet {
	return &TokenSet{
		reasons: make(map[string]Key),
		codes:   make(map[int64]string),
		plain:   make(map[string]struct{}),
		byKey:   make(map[Key]string),
		seed:    New(),
	}
}

// DefaultTokens returns a token set treating "" and "NA" as plain NA.
func DefaultTokens() *TokenSet {
	return NewTokenSet().NA("", "NA")
}

// Bare declares tokens that are their own reasons.
func (t *TokenSet) Bare(tokens ...string) *TokenSet {
	for _, tok := range tokens {
		if !t.claim(tok) {
			continue
		}
		k := ParseKey(tok)
		if k.IsZero() {
			t.setErr(fmt.Errorf("%w: empty bare token", errs.ErrInvalidReason))
			continue
		}
		t.seed.Register(k)
		t.bind(tok, k)
		t.entries = append(t.entries, Entry{Token: tok})
	}

	return t
}

// Labelled declares token as a form of the reason named label.
// Several tokens may share a label.
func (t *TokenSet) Labelled(label string, token string) *TokenSet {
	if label == "" {
		t.setErr(fmt.Errorf("%w: empty label for token %q", errs.ErrInvalidReason, token))
		return t
	}
	if !t.claim(token) {
		return t
	}

	k := ParseKey(token)
	if _, err := t.seed.Alias(Label(label), k); err != nil {
		t.setErr(err)
		return t
	}
	t.bind(token, k)
	if _, ok := t.byKey[Label(label)]; !ok {
		t.byKey[Label(label)] = token
	}
	t.entries = append(t.entries, Entry{Token: token, Label: label})

	return t
}

// NA declares tokens that mark plain missing entries without a reason.
func (t *TokenSet) NA(tokens ...string) *TokenSet {
	for _, tok := range tokens {
		if !t.claim(tok) {
			continue
		}
		t.plain[tok] = struct{}{}
		t.entries = append(t.entries, Entry{Token: tok, Plain: true})
	}

	return t
}

// Err returns the first declaration error.
func (t *TokenSet) Err() error {
	return t.err
}

// Entries returns the declarations in order.
func (t *TokenSet) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Seed returns a fresh registry holding every declared reason, in declaration
// order, with labels and tokens co-registered.
func (t *TokenSet) Seed() *Registry {
	return t.seed.Clone()
}

// Match tests a raw field. It returns the reason form and ok=true for a
// reason token, or plain=true for a plain NA token. Numeric fields also match
// a declared integer token of equal value, so "-99.0" matches "-99".
func (t *TokenSet) Match(raw string) (k Key, plain bool, ok bool) {
	if t == nil {
		return Key{}, false, false
	}
	if _, isPlain := t.plain[raw]; isPlain {
		return Key{}, true, true
	}
	if k, found := t.reasons[raw]; found {
		return k, false, true
	}
	if len(t.codes) == 0 {
		return Key{}, false, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return Key{}, false, false
	}
	if tok, found := t.codes[int64(f)]; found {
		return t.reasons[tok], false, true
	}

	return Key{}, false, false
}

// TokenFor returns the declared token for a reason given by its forms, the
// canonical form first. It is the inverse of Match used when encoding.
func (t *TokenSet) TokenFor(forms []Key) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, f := range forms {
		if tok, ok := t.byKey[f]; ok {
			return tok, true
		}
	}

	return "", false
}

// claim reserves token, recording an error if it was already declared.
func (t *TokenSet) claim(token string) bool {
	_, isReason := t.reasons[token]
	_, isPlain := t.plain[token]
	if isReason || isPlain {
		t.setErr(fmt.Errorf("%w: token %q declared twice", errs.ErrInvalidReason, token))
		return false
	}

	return true
}

func (t *TokenSet) bind(token string, k Key) {
	t.reasons[token] = k
	if c, isCode := k.Code(); isCode {
		t.codes[c] = token
	}
	if _, ok := t.byKey[k]; !ok {
		t.byKey[k] = token
	}
}

func (t *TokenSet) setErr(err error) {
	if t.err == nil {
		t.err = err
	}
}
