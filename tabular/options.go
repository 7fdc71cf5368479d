package tabular

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
)

// DefaultMissingToken is written for absent entries without a declared token.
const DefaultMissingToken = "NA"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validDelimiter(r rune) error {
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || !utf8.ValidRune(r) {
		return fmt.Errorf("invalid delimiter %q", r)
	}

	return nil
}

type decodeConfig struct {
	delimiter   rune
	comment     rune
	tokens      *reason.TokenSet
	decls       map[string]interlaced.Decl
	dateLayout  string
	compression format.CompressionType // zero detects
	logger      *slog.Logger
}

func newDecodeConfig() *decodeConfig {
	return &decodeConfig{
		delimiter:  ',',
		tokens:     reason.DefaultTokens(),
		decls:      make(map[string]interlaced.Decl),
		dateLayout: interlaced.DefaultDateLayout,
		logger:     discardLogger(),
	}
}

// DecodeOption configures Decode.
type DecodeOption = options.Option[*decodeConfig]

// WithDelimiter sets the field separator. The default is a comma.
func WithDelimiter(r rune) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if err := validDelimiter(r); err != nil {
			return err
		}
		c.delimiter = r

		return nil
	})
}

// WithComment skips lines starting with r.
func WithComment(r rune) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if err := validDelimiter(r); err != nil {
			return fmt.Errorf("comment: %w", err)
		}
		c.comment = r

		return nil
	})
}

// WithTokens sets the missing tokens. The default is reason.DefaultTokens.
func WithTokens(t *reason.TokenSet) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if t == nil {
			return errors.New("nil token set")
		}
		if err := t.Err(); err != nil {
			return err
		}
		c.tokens = t

		return nil
	})
}

// WithColumn declares the type of the named column. Undeclared columns are
// inferred.
func WithColumn(name string, decl interlaced.Decl) DecodeOption {
	return options.NoError(func(c *decodeConfig) {
		c.decls[name] = decl
	})
}

// WithDateLayout sets the date layout for columns that declare none.
func WithDateLayout(layout string) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if layout == "" {
			return errors.New("empty date layout")
		}
		c.dateLayout = layout

		return nil
	})
}

// WithCompression fixes the compression of the input. Without it the
// algorithm is detected from the stream's magic number.
func WithCompression(ct format.CompressionType) DecodeOption {
	return options.NoError(func(c *decodeConfig) {
		c.compression = ct
	})
}

// WithLogger sets the logger for decode diagnostics.
func WithLogger(l *slog.Logger) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if l == nil {
			return errors.New("nil logger")
		}
		c.logger = l

		return nil
	})
}

type encodeConfig struct {
	delimiter    rune
	missingToken string
	reasonTokens *reason.TokenSet
	codedLabels  bool
	dateLayout   string
	compression  format.CompressionType
	level        compress.Level
	logger       *slog.Logger
}

func newEncodeConfig() *encodeConfig {
	return &encodeConfig{
		delimiter:    ',',
		missingToken: DefaultMissingToken,
		dateLayout:   interlaced.DefaultDateLayout,
		compression:  format.CompressionNone,
		logger:       discardLogger(),
	}
}

// EncodeOption configures Encode.
type EncodeOption = options.Option[*encodeConfig]

// WithMissingToken sets the token written for absent entries whose reason
// has no declared token. The default is NA.
func WithMissingToken(tok string) EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.missingToken = tok
	})
}

// WithReasonTokens writes each reason as the token t declares for it.
//
// Reasons survive a round trip only when the same token set is given to
// Decode: a label declared as "skipped" ← "-99" is written as -99 and read
// back as skipped.
func WithReasonTokens(t *reason.TokenSet) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if t != nil {
			if err := t.Err(); err != nil {
				return err
			}
		}
		c.reasonTokens = t

		return nil
	})
}

// WithCodedLabels writes coded factor values as labels instead of codes.
func WithCodedLabels() EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.codedLabels = true
	})
}

// WithEncodeDelimiter sets the field separator. The default is a comma.
func WithEncodeDelimiter(r rune) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if err := validDelimiter(r); err != nil {
			return err
		}
		c.delimiter = r

		return nil
	})
}

// WithEncodeDateLayout sets the layout dates are written with.
func WithEncodeDateLayout(layout string) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if layout == "" {
			return errors.New("empty date layout")
		}
		c.dateLayout = layout

		return nil
	})
}

// WithEncodeCompression compresses the output.
func WithEncodeCompression(ct format.CompressionType) EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.compression = ct
	})
}

// WithEncodeLevel sets the compression level. The default is
// compress.LevelDefault.
func WithEncodeLevel(l compress.Level) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if l > compress.LevelBest {
			return fmt.Errorf("invalid compression level %s", l)
		}
		c.level = l

		return nil
	})
}

// WithEncodeLogger sets the logger for encode diagnostics.
func WithEncodeLogger(l *slog.Logger) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if l == nil {
			return errors.New("nil logger")
		}
		c.logger = l

		return nil
	})
}
