package schema

import (
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/table"
)

// FromTable describes tbl as a sidecar schema.
//
// Every column is declared with its kind, its code map if coded, and its
// reasons in ordinal order. The missing section starts from tokens, nil
// meaning reason.DefaultTokens, and gains a bare token for each reason that
// tokens cannot write, so every reason in tbl has a token. Encoding with the
// result's EncodeOptions and decoding with its DecodeOptions reproduces
// every reason at its original position.
func FromTable(tbl *table.Table, tokens *reason.TokenSet) *Schema {
	if tokens == nil {
		tokens = reason.DefaultTokens()
	}

	s := &Schema{Missing: Missing{NA: []string{}}}
	covered := make(map[string]struct{})
	for _, e := range tokens.Entries() {
		covered[e.Token] = struct{}{}
		switch {
		case e.Plain:
			s.Missing.NA = append(s.Missing.NA, e.Token)
		case e.Label != "":
			s.Missing.Labels = append(s.Missing.Labels, Label{Label: e.Label, Token: e.Token})
		default:
			s.Missing.Tokens = append(s.Missing.Tokens, e.Token)
		}
	}

	for _, col := range tbl.Columns() {
		c := Column{Name: col.Name(), Kind: col.Kind().String()}
		if codes := col.Codes(); codes != nil {
			for _, p := range codes.Pairs() {
				c.Codes = append(c.Codes, Code{Label: p.Label, Code: p.Code})
			}
		}

		reg := col.Registry()
		for o := 1; o <= reg.Len(); o++ {
			forms := reg.Forms(reason.Ordinal(o)) //nolint:gosec
			c.NALevels = append(c.NALevels, forms[0].String())
			if _, ok := tokens.TokenFor(forms); ok {
				continue
			}
			tok := forms[0].String()
			if _, ok := covered[tok]; ok {
				continue
			}
			covered[tok] = struct{}{}
			s.Missing.Tokens = append(s.Missing.Tokens, tok)
		}
		s.Columns = append(s.Columns, c)
	}

	return s
}
