package interlaced

import (
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/interlace/coded"
)

// DefaultDateLayout is the layout used to parse and format dates unless a
// column declares its own.
const DefaultDateLayout = time.DateOnly

// FormatNumber renders f with the fewest digits that parse back to exactly f.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatLogical renders b as TRUE or FALSE.
func FormatLogical(b bool) string {
	if b {
		return "TRUE"
	}

	return "FALSE"
}

// ParseLogical accepts TRUE/FALSE in any case, T/F and the forms accepted by strconv.ParseBool.
func ParseLogical(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "T":
		return true, nil
	case "FALSE", "F":
		return false, nil
	}

	return strconv.ParseBool(strings.TrimSpace(s))
}

// formatElement renders a present value. Coded values render as their label.
func formatElement(v any, layout string) string {
	switch x := v.(type) {
	case float64:
		return FormatNumber(x)
	case time.Time:
		return x.Format(layout)
	case string:
		return x
	case coded.Value:
		return x.Label()
	case bool:
		return FormatLogical(x)
	default:
		return ""
	}
}

// FormatElement renders a value returned by Column.Interface using layout for dates.
func FormatElement(v any, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}

	return formatElement(v, layout)
}
