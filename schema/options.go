package schema

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/tabular"
)

// DecodeOptions returns the tabular options that decode a file described by
// s. Without a compression the decoder detects it from the stream.
func (s *Schema) DecodeOptions() ([]tabular.DecodeOption, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tokens, err := s.TokenSet()
	if err != nil {
		return nil, err
	}

	opts := []tabular.DecodeOption{tabular.WithTokens(tokens)}
	if s.Delimiter != "" {
		r, _ := utf8.DecodeRuneInString(s.Delimiter)
		opts = append(opts, tabular.WithDelimiter(r))
	}
	if s.DateLayout != "" {
		opts = append(opts, tabular.WithDateLayout(s.DateLayout))
	}
	if s.Compression != "" {
		ct, err := s.compression()
		if err != nil {
			return nil, err
		}
		opts = append(opts, tabular.WithCompression(ct))
	}
	for _, col := range s.Columns {
		decl, err := col.Decl()
		if err != nil {
			return nil, err
		}
		opts = append(opts, tabular.WithColumn(col.Name, decl))
	}

	return opts, nil
}

// EncodeOptions returns the tabular options that write a file described by
// s. Reasons are written through the schema's tokens, so the output decodes
// back to the same reasons with DecodeOptions.
func (s *Schema) EncodeOptions() ([]tabular.EncodeOption, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tokens, err := s.TokenSet()
	if err != nil {
		return nil, err
	}

	opts := []tabular.EncodeOption{tabular.WithReasonTokens(tokens)}
	if s.Delimiter != "" {
		r, _ := utf8.DecodeRuneInString(s.Delimiter)
		opts = append(opts, tabular.WithEncodeDelimiter(r))
	}
	if s.DateLayout != "" {
		opts = append(opts, tabular.WithEncodeDateLayout(s.DateLayout))
	}
	if s.MissingToken != "" {
		opts = append(opts, tabular.WithMissingToken(s.MissingToken))
	}
	ct, err := s.compression()
	if err != nil {
		return nil, err
	}
	opts = append(opts, tabular.WithEncodeCompression(ct))

	return opts, nil
}

func (s *Schema) compression() (format.CompressionType, error) {
	ct, ok := format.ParseCompression(s.Compression)
	if !ok {
		return 0, fmt.Errorf("%w: unknown compression %q", errs.ErrInvalidSchema, s.Compression)
	}

	return ct, nil
}
