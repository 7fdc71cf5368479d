package interlaced

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

// Decl declares how a column of raw fields is typed.
//
// The zero Decl infers the kind from the present fields: number, then date,
// then text.
type Decl struct {
	Kind   format.Kind  // zero means infer
	Codes  *coded.Codes // required for format.KindCoded
	Layout string       // date layout, DefaultDateLayout when empty
	Levels []reason.Key // reasons registered first, in order
}

// Coded returns a declaration for a coded factor column over codes.
func Coded(codes *coded.Codes) Decl {
	return Decl{Kind: format.KindCoded, Codes: codes}
}

// Typed returns a declaration for a plain column of kind k.
func Typed(k format.Kind) Decl {
	return Decl{Kind: k}
}

// field is a raw field after missing-token matching.
type field struct {
	raw     string
	ordinal reason.Ordinal
	missing bool
}

// Parse builds a column from raw text fields.
//
// Every field is tested against tokens first: reason tokens become absent
// entries with their reason, resolved through the token set's seed so that a
// label and its token share one reason, and plain NA tokens become reason-less
// absent entries. A nil token set uses reason.DefaultTokens. The remaining
// fields are parsed into the declared or inferred kind.
//
// Parse is all-or-nothing: on error no column is returned. Row numbers in
// errors are 1-based positions in raw.
//
// Parameters:
//   - name: Column name
//   - raw: Raw text fields, one per row
//   - decl: Declared kind and code map; the zero Decl infers the kind
//   - tokens: Missing tokens; nil means reason.DefaultTokens
//
// Returns:
//   - Column: A *Vector of the declared or inferred element type
//   - error: errs.ParseError, errs.UnknownLevelError or an invalid token set
func Parse(name string, raw []string, decl Decl, tokens *reason.TokenSet) (Column, error) {
	if tokens == nil {
		tokens = reason.DefaultTokens()
	}
	if err := tokens.Err(); err != nil {
		return nil, err
	}

	reg := reason.New()
	for _, k := range decl.Levels {
		reg.Register(k)
	}
	reg.Merge(tokens.Seed())

	fields := make([]field, len(raw))
	for i, s := range raw {
		fields[i].raw = s
		k, plain, ok := tokens.Match(s)
		if !ok {
			continue
		}
		fields[i].missing = true
		if !plain {
			fields[i].ordinal = reg.Register(k)
		}
	}

	layout := decl.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	kind := decl.Kind
	if kind == 0 {
		kind = inferKind(fields, layout)
	}

	switch kind {
	case format.KindNumber:
		return parseFields(name, kind, fields, reg, nil, parseNumber)
	case format.KindDate:
		return parseFields(name, kind, fields, reg, nil, func(s string) (time.Time, error) {
			return time.Parse(layout, strings.TrimSpace(s))
		})
	case format.KindText:
		return parseFields(name, kind, fields, reg, nil, func(s string) (string, error) { return s, nil })
	case format.KindLogical:
		return parseFields(name, kind, fields, reg, nil, ParseLogical)
	case format.KindCoded:
		if decl.Codes == nil {
			return nil, fmt.Errorf("%w: coded column %q has no code map", errs.ErrInvalidCodes, name)
		}

		return parseCoded(name, fields, reg, decl.Codes)
	default:
		return nil, fmt.Errorf("%w: column %q has unknown kind %d", errs.ErrType, name, kind)
	}
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// looksNumeric reports whether s is a finite decimal literal. NaN and Inf
// spellings parse only in a column declared as number, so a text column
// holding "Nan" or "Inf" is never inferred as numeric.
func looksNumeric(s string) bool {
	v, err := parseNumber(s)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// inferKind picks the first of number and date every present field parses
// as, falling back to text. A column with no present field is numeric.
func inferKind(fields []field, layout string) format.Kind {
	number, date := true, true
	for _, f := range fields {
		if f.missing {
			continue
		}
		if number {
			number = looksNumeric(f.raw)
		}
		if date {
			if _, err := time.Parse(layout, strings.TrimSpace(f.raw)); err != nil {
				date = false
			}
		}
		if !number && !date {
			return format.KindText
		}
	}
	if number {
		return format.KindNumber
	}

	return format.KindDate
}

func parseFields[T Element](
	name string,
	kind format.Kind,
	fields []field,
	reg *reason.Registry,
	codes *coded.Codes,
	conv func(string) (T, error),
) (Column, error) {
	b := NewBuilder[T](name, len(fields)).WithCodes(codes)
	b.registry = reg
	for i, f := range fields {
		if f.missing {
			b.appendOrdinal(f.ordinal)
			continue
		}
		v, err := conv(f.raw)
		if errors.Is(err, errs.ErrUnknownLevel) {
			return nil, err
		}
		if err != nil {
			return nil, errs.NewParseError(name, i+1, f.raw, kind, err)
		}
		b.Append(v)
	}

	v, err := b.Build()
	if err != nil {
		return nil, err
	}

	return v, nil
}

// parseCoded reads integer codes, falling back to a label lookup.
func parseCoded(name string, fields []field, reg *reason.Registry, codes *coded.Codes) (Column, error) {
	return parseFields(name, format.KindCoded, fields, reg, codes, func(s string) (coded.Value, error) {
		s = strings.TrimSpace(s)
		if c, err := strconv.ParseInt(s, 10, 64); err == nil {
			v, derr := codes.Decode(c)
			if derr != nil {
				return coded.Value{}, coded.WithColumn(derr, name)
			}

			return v, nil
		}
		if f, err := parseNumber(s); err == nil && f == float64(int64(f)) {
			v, derr := codes.Decode(int64(f))
			if derr != nil {
				return coded.Value{}, coded.WithColumn(derr, name)
			}

			return v, nil
		}
		v, err := codes.Lookup(s)
		if err != nil {
			return coded.Value{}, coded.WithColumn(err, name)
		}

		return v, nil
	})
}
