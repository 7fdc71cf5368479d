// Package schema describes how a delimited survey file is typed and which
// raw tokens mark missing entries, in a YAML or TOML document.
//
// A schema replaces a list of tabular options:
//
//	delimiter: ","
//	missing:
//	  na: ["", "NA"]
//	  tokens: ["REFUSED"]
//	  labels:
//	    - {label: skipped, token: "-99"}
//	columns:
//	  - name: q1
//	    kind: coded
//	    codes:
//	      - {label: "yes", code: 1}
//	      - {label: "no", code: 2}
//
// A schema written by FromTable next to an encoded table is a sidecar: it
// records each column's kind, code map and missing reasons, and declares a
// token for every reason, so decoding the file with its sidecar restores the
// reasons as well as the values.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
)

// Schema is the document form of a table's type and missing-token
// declarations. The zero Schema decodes with inference and default tokens.
type Schema struct {
	Delimiter    string   `yaml:"delimiter,omitempty" toml:"delimiter,omitempty" validate:"omitempty,delimiter"`
	DateLayout   string   `yaml:"date_layout,omitempty" toml:"date_layout,omitempty"`
	MissingToken string   `yaml:"missing_token,omitempty" toml:"missing_token,omitempty"`
	Compression  string   `yaml:"compression,omitempty" toml:"compression,omitempty" validate:"omitempty,compression"`
	Missing      Missing  `yaml:"missing,omitempty" toml:"missing,omitempty"`
	Columns      []Column `yaml:"columns,omitempty" toml:"columns,omitempty" validate:"unique=Name,dive"`
}

// Missing declares the raw tokens that mark missing entries.
//
// NA lists plain NA tokens. A nil NA means the empty field, "NA" and the
// schema's missing token; an empty non-nil list declares none.
type Missing struct {
	NA     []string `yaml:"na,omitempty" toml:"na,omitempty"`
	Tokens []string `yaml:"tokens,omitempty" toml:"tokens,omitempty" validate:"unique,dive,required"`
	Labels []Label  `yaml:"labels,omitempty" toml:"labels,omitempty" validate:"dive"`
}

// Label pairs a canonical reason label with one of its raw tokens.
type Label struct {
	Label string `yaml:"label" toml:"label" validate:"required"`
	Token string `yaml:"token" toml:"token" validate:"required"`
}

// Column declares one column. Kind is empty for inferred columns and Codes
// is set for coded columns only. NALevels lists the column's reasons in
// ordinal order.
type Column struct {
	Name     string   `yaml:"name" toml:"name" validate:"required"`
	Kind     string   `yaml:"kind,omitempty" toml:"kind,omitempty" validate:"omitempty,kind"`
	Layout   string   `yaml:"layout,omitempty" toml:"layout,omitempty"`
	Codes    []Code   `yaml:"codes,omitempty" toml:"codes,omitempty" validate:"dive"`
	NALevels []string `yaml:"na_levels,omitempty" toml:"na_levels,omitempty" validate:"dive,required"`
}

// Code is one label/code pair of a coded factor map.
type Code struct {
	Label string `yaml:"label" toml:"label" validate:"required"`
	Code  int64  `yaml:"code" toml:"code"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("kind", validateKind)
	_ = v.RegisterValidation("compression", validateCompression)
	_ = v.RegisterValidation("delimiter", validateDelimiter)
	v.RegisterStructValidation(validateColumn, Column{})

	return v
}

func validateKind(fl validator.FieldLevel) bool {
	_, ok := format.ParseKind(fl.Field().String())
	return ok
}

func validateCompression(fl validator.FieldLevel) bool {
	_, ok := format.ParseCompression(fl.Field().String())
	return ok
}

func validateDelimiter(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)

	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

// validateColumn ties code maps to the coded kind.
func validateColumn(sl validator.StructLevel) {
	col, ok := sl.Current().Interface().(Column)
	if !ok {
		return
	}
	kind, _ := format.ParseKind(col.Kind)
	switch {
	case kind == format.KindCoded && len(col.Codes) == 0:
		sl.ReportError(col.Codes, "Codes", "codes", "required_for_coded", "")
	case kind != format.KindCoded && len(col.Codes) > 0:
		sl.ReportError(col.Codes, "Codes", "codes", "coded_only", "")
	}
}

// Validate checks s and fails with errs.ErrInvalidSchema, naming each
// offending field.
func (s *Schema) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		for _, col := range s.Columns {
			if _, cerr := col.codes(); cerr != nil {
				return fmt.Errorf("%w: column %q: %w", errs.ErrInvalidSchema, col.Name, cerr)
			}
		}
		if _, terr := s.TokenSet(); terr != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidSchema, terr)
		}

		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", errs.ErrInvalidSchema, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
			continue
		}
		msgs[i] = fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
	}

	return fmt.Errorf("%w: %s", errs.ErrInvalidSchema, strings.Join(msgs, "; "))
}

// TokenSet builds the missing-token declarations of s.
func (s *Schema) TokenSet() (*reason.TokenSet, error) {
	t := reason.NewTokenSet()
	if s.Missing.NA == nil {
		t.NA("", "NA")
		if s.MissingToken != "" && s.MissingToken != "NA" {
			t.NA(s.MissingToken)
		}
	} else {
		t.NA(s.Missing.NA...)
	}
	for _, l := range s.Missing.Labels {
		t.Labelled(l.Label, l.Token)
	}
	t.Bare(s.Missing.Tokens...)

	if err := t.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

// Decl converts the column declaration for interlaced.Parse.
func (c Column) Decl() (interlaced.Decl, error) {
	kind, ok := format.ParseKind(c.Kind)
	if !ok {
		return interlaced.Decl{}, fmt.Errorf("%w: column %q has unknown kind %q", errs.ErrInvalidSchema, c.Name, c.Kind)
	}

	decl := interlaced.Decl{Kind: kind, Layout: c.Layout}
	if kind == format.KindCoded {
		codes, err := c.codes()
		if err != nil {
			return interlaced.Decl{}, fmt.Errorf("column %q: %w", c.Name, err)
		}
		decl.Codes = codes
	}
	for _, level := range c.NALevels {
		decl.Levels = append(decl.Levels, reason.ParseKey(level))
	}

	return decl, nil
}

func (c Column) codes() (*coded.Codes, error) {
	if len(c.Codes) == 0 {
		return nil, nil
	}
	pairs := make([]coded.Pair, len(c.Codes))
	for i, p := range c.Codes {
		pairs[i] = coded.Pair{Label: p.Label, Code: p.Code}
	}

	return coded.NewCodes(pairs...)
}

// Column returns the declaration of the named column.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}
