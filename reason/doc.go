// Package reason implements missing reasons: the per-vector Label Registry,
// the Missing Marker Expression used by comparisons and replacements, and
// the TokenSet that recognizes missing tokens in raw text.
//
// A reason is identified by one or more forms, labels or integer codes:
//
//	reg := reason.New()
//	reg.Alias(reason.Label("skipped"), reason.Code(-99))
//	reg.Register(reason.Label("refused"))
//
//	o, _ := reg.Lookup(reason.Code(-99)) // same ordinal as Label("skipped")
//	reg.Levels()                         // [skipped refused]
//
// Registries are append-only: registering never reorders existing reasons.
package reason
