package reason

import "strings"

// Marker is a Missing Marker Expression: "missing, optionally for a specific
// reason". It is used in comparisons and replacements and is never stored.
type Marker struct {
	forms []Key
}

// Missing builds a marker. Without forms it means "missing for any reason";
// with forms it names one reason, given as any mix of labels and codes.
//
//	reason.Missing()                       // any missing entry
//	reason.Missing(reason.Label("refused")) // entries missing as "refused"
//	reason.Missing(reason.Code(-99))        // entries missing as code -99
func Missing(forms ...Key) Marker {
	return Marker{forms: append([]Key(nil), forms...)}
}

// Any reports whether m matches every missing entry regardless of reason.
func (m Marker) Any() bool {
	return len(m.forms) == 0
}

// Forms returns the reason forms named by m.
func (m Marker) Forms() []Key {
	return append([]Key(nil), m.forms...)
}

// Resolve returns the ordinal that one of m's forms maps to in r.
func (m Marker) Resolve(r *Registry) (Ordinal, bool) {
	for _, f := range m.forms {
		if o, ok := r.Lookup(f); ok {
			return o, true
		}
	}

	return None, false
}

// Matches reports whether an entry with reason ordinal o, recorded against r,
// satisfies m. absent tells whether the entry is missing at all, which lets
// an unspecified marker match reason-less missing entries.
func (m Marker) Matches(r *Registry, o Ordinal, absent bool) bool {
	if !absent {
		return false
	}
	if m.Any() {
		return true
	}
	if o == None {
		return false
	}
	for _, f := range m.forms {
		if got, ok := r.Lookup(f); ok && got == o {
			return true
		}
	}

	return false
}

func (m Marker) String() string {
	if m.Any() {
		return "missing()"
	}
	parts := make([]string, len(m.forms))
	for i, f := range m.forms {
		if f.IsCode() {
			parts[i] = f.String()
		} else {
			parts[i] = `"` + f.String() + `"`
		}
	}

	return "missing(" + strings.Join(parts, ", ") + ")"
}
