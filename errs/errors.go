// Package errs defines the error taxonomy shared by every interlace package.
//
// Each failure class has a sentinel error, usable with errors.Is, and most
// classes also have a typed error carrying column and row context, usable
// with errors.As. Typed errors match their sentinel:
//
//	var perr *errs.ParseError
//	if errors.As(err, &perr) {
//	    fmt.Println(perr.Column, perr.Row)
//	}
//	errors.Is(err, errs.ErrParse) // true for the same error
package errs

import (
	"errors"
	"fmt"

	"github.com/arloliu/interlace/format"
)

var (
	// ErrParse indicates a raw token that cannot be read as the column's type.
	ErrParse = errors.New("parse error")

	// ErrType indicates an absent entry was read as a concrete value, or a
	// comparison value had the wrong type for the column.
	ErrType = errors.New("type error")

	// ErrUnknownLevel indicates a code or label missing from a coded factor's map.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrOperationNotSupported indicates an operation undefined for the column's kind.
	ErrOperationNotSupported = errors.New("operation not supported")

	// ErrRowShape indicates a serialized row with the wrong number of fields.
	ErrRowShape = errors.New("malformed row")

	// ErrLengthMismatch indicates operands or columns of incompatible lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidCodes indicates a code map that is not injective or is empty.
	ErrInvalidCodes = errors.New("invalid code map")

	// ErrInvalidReason indicates an invalid missing reason declaration.
	ErrInvalidReason = errors.New("invalid missing reason")

	// ErrDuplicateColumn indicates two columns with the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrColumnNotFound indicates a lookup of an unknown column name.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidSchema indicates a schema file that failed validation.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrIndexOutOfRange indicates an element index outside the vector.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrAbsentChanged indicates a channel transform that added or removed
	// absent entries.
	ErrAbsentChanged = errors.New("absent entries changed")
)

// ParseError reports a raw token that could not be parsed as the declared or
// inferred kind of its column. Row is 1-based: the first data row (or the
// first element of a raw column) is row 1.
type ParseError struct {
	Column string
	Row    int
	Token  string
	Kind   format.Kind
	cause  error
}

// NewParseError creates a ParseError wrapping cause, which may be nil.
func NewParseError(column string, row int, token string, kind format.Kind, cause error) *ParseError {
	return &ParseError{Column: column, Row: row, Token: token, Kind: kind, cause: cause}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot parse %q as %s", e.Column, e.Row, e.Token, e.Kind)
}

func (e *ParseError) Unwrap() error { return e.cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// TypeError reports an absent entry read as a concrete value, or a value of
// the wrong Go type offered to a column. Index is the zero-based element
// index, or -1 when the error concerns the whole column.
type TypeError struct {
	Column string
	Index  int
	Detail string
}

// NewTypeError creates a TypeError.
func NewTypeError(column string, index int, detail string) *TypeError {
	return &TypeError{Column: column, Index: index, Detail: detail}
}

func (e *TypeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("column %q: %s", e.Column, e.Detail)
	}

	return fmt.Sprintf("column %q index %d: %s", e.Column, e.Index, e.Detail)
}

func (e *TypeError) Is(target error) bool { return target == ErrType }

// UnknownLevelError reports a coded factor code or label absent from its map.
type UnknownLevelError struct {
	Column string
	Value  string
}

// NewUnknownLevelError creates an UnknownLevelError for the offending value.
func NewUnknownLevelError(column string, value any) *UnknownLevelError {
	return &UnknownLevelError{Column: column, Value: fmt.Sprint(value)}
}

func (e *UnknownLevelError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("unknown level %q", e.Value)
	}

	return fmt.Sprintf("column %q: unknown level %q", e.Column, e.Value)
}

func (e *UnknownLevelError) Is(target error) bool { return target == ErrUnknownLevel }

// OperationNotSupportedError reports an operation attempted on a column whose
// kind does not define it, such as arithmetic on a coded factor.
type OperationNotSupportedError struct {
	Op     string
	Column string
	Kind   format.Kind
}

// NewOperationNotSupportedError creates an OperationNotSupportedError.
func NewOperationNotSupportedError(op string, column string, kind format.Kind) *OperationNotSupportedError {
	return &OperationNotSupportedError{Op: op, Column: column, Kind: kind}
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("%s not supported on %s column %q", e.Op, e.Kind, e.Column)
}

func (e *OperationNotSupportedError) Is(target error) bool {
	return target == ErrOperationNotSupported
}

// RowShapeError reports a serialized row whose field count differs from the
// header. Row is the 1-based data row, not counting the header.
type RowShapeError struct {
	Row  int
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d: expected %d fields, got %d", e.Row, e.Want, e.Got)
}

func (e *RowShapeError) Is(target error) bool { return target == ErrRowShape }
