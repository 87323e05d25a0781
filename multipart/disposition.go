package multipart

import (
	"fmt"
	"strings"
)

const dispositionType = "form-data"

// A Param is one key="value" group of a Content-Disposition value.
type Param struct {
	Key   string
	Value string
}

// Disposition is the parsed form of a form-data Content-Disposition value:
// the ordered parameter list following the "form-data" type. Parameter values
// are taken verbatim between their quotes; there is no escaping, so a value
// cannot contain a double quote.
//
// Disposition is a read-side view. Parts keep the raw header value they were
// parsed with, so interpreting a disposition never disturbs a body round
// trip.
type Disposition struct {
	params []Param
}

// FormData builds a disposition from ordered parameters, for synthesizing
// headers on the print side.
func FormData(params ...Param) Disposition {
	return Disposition{params: params}
}

// ParseDisposition parses `form-data; key1="v1"; key2="v2"`. Each ";" must be
// followed by at least one space or tab; any longer run is accepted.
func ParseDisposition(value string) (Disposition, error) {
	rest, ok := strings.CutPrefix(value, dispositionType)
	if !ok {
		return Disposition{}, fmt.Errorf("%w: no form-data type in %q", ErrMalformedDisposition, value)
	}
	var d Disposition
	for rest != "" {
		rest, ok = strings.CutPrefix(rest, ";")
		if !ok {
			return Disposition{}, fmt.Errorf("%w: expected \";\" at %q", ErrMalformedDisposition, rest)
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if trimmed == rest {
			return Disposition{}, fmt.Errorf("%w: expected whitespace after \";\" at %q", ErrMalformedDisposition, rest)
		}
		rest = trimmed
		eq := strings.Index(rest, `="`)
		if eq == -1 {
			return Disposition{}, fmt.Errorf(`%w: expected key="value" at %q`, ErrMalformedDisposition, rest)
		}
		key := rest[:eq]
		rest = rest[eq+2:]
		closeQuote := strings.IndexByte(rest, '"')
		if closeQuote == -1 {
			return Disposition{}, fmt.Errorf("%w: unterminated quote at %q", ErrMalformedDisposition, rest)
		}
		d.params = append(d.params, Param{Key: key, Value: rest[:closeQuote]})
		rest = rest[closeQuote+1:]
	}
	return d, nil
}

// Param returns the value of the first parameter recorded under key, folding
// case, and whether one exists.
func (d Disposition) Param(key string) (string, bool) {
	for _, p := range d.params {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns the parameters in order. The slice is shared with the
// disposition; callers must not modify it.
func (d Disposition) Params() []Param { return d.params }

// Name returns the form field name, or "" when absent.
func (d Disposition) Name() string {
	v, _ := d.Param("name")
	return v
}

// Filename returns the filename parameter and whether one exists.
func (d Disposition) Filename() (string, bool) {
	return d.Param("filename")
}

// String prints the canonical form: `form-data; key1="v1"; key2="v2"`.
func (d Disposition) String() string {
	var sb strings.Builder
	sb.WriteString(dispositionType)
	for _, p := range d.params {
		sb.WriteString("; ")
		sb.WriteString(p.Key)
		sb.WriteString(`="`)
		sb.WriteString(p.Value)
		sb.WriteString(`"`)
	}
	return sb.String()
}
