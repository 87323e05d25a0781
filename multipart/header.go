package multipart

import (
	"bytes"
	"errors"
	"strings"
)

const headerSeparator = ": "

var headerSeparatorBytes = []byte(headerSeparator)

// HeaderField is a single name/value pair with its casing preserved exactly
// as parsed or added.
type HeaderField struct {
	Name  string
	Value string
}

// HeaderBlock is the ordered header collection of one part. Fields keep their
// insertion order, repeated names keep the order of their values, and lookups
// fold case.
type HeaderBlock struct {
	fields []HeaderField
}

// Add appends a field, preserving the given casing.
func (h *HeaderBlock) Add(name, value string) {
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// Get returns the first value recorded under name, or "".
func (h *HeaderBlock) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup returns the first value recorded under name and whether one exists.
func (h *HeaderBlock) Lookup(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value recorded under name, in insertion order.
func (h *HeaderBlock) Values(name string) []string {
	var vals []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

// Has reports whether at least one field is recorded under name.
func (h *HeaderBlock) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Len returns the number of fields.
func (h *HeaderBlock) Len() int { return len(h.fields) }

// Fields returns the fields in insertion order. The slice is shared with the
// block; callers must not modify it.
func (h *HeaderBlock) Fields() []HeaderField { return h.fields }

// Equal reports whether both blocks hold identical fields in identical order.
func (h HeaderBlock) Equal(other HeaderBlock) bool {
	if len(h.fields) != len(other.fields) {
		return false
	}
	for i, f := range h.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// parseHeaderLine reads one "Name: Value\r\n" line at pos. A buffer that
// starts with CRLF is the blank end-of-headers line and reports
// errNoHeaderLine with pos unchanged.
func parseHeaderLine(body []byte, pos int) (HeaderField, int, error) {
	rest := body[pos:]
	if bytes.HasPrefix(rest, crlfBytes) {
		return HeaderField{}, pos, errNoHeaderLine
	}
	sep := bytes.Index(rest, headerSeparatorBytes)
	if sep == -1 {
		return HeaderField{}, pos, framingError(ErrHeaderSeparator, pos, "")
	}
	valStart := sep + len(headerSeparatorBytes)
	end := bytes.Index(rest[valStart:], crlfBytes)
	if end == -1 {
		return HeaderField{}, pos, framingError(ErrHeaderTerminator, pos, "")
	}
	f := HeaderField{
		Name:  string(rest[:sep]),
		Value: string(rest[valStart : valStart+end]),
	}
	return f, pos + valStart + end + len(crlf), nil
}

// parseHeaderBlock reads header lines until the blank line and consumes it.
// A block with zero header lines is legal.
func parseHeaderBlock(body []byte, pos int) (HeaderBlock, int, error) {
	var h HeaderBlock
	for {
		f, next, err := parseHeaderLine(body, pos)
		if errors.Is(err, errNoHeaderLine) {
			return h, pos + len(crlf), nil
		}
		if err != nil {
			return HeaderBlock{}, pos, err
		}
		h.Add(f.Name, f.Value)
		pos = next
	}
}

func appendHeaderBlock(dst []byte, h HeaderBlock) []byte {
	for _, f := range h.fields {
		dst = append(dst, f.Name...)
		dst = append(dst, headerSeparator...)
		dst = append(dst, f.Value...)
		dst = append(dst, crlf...)
	}
	return append(dst, crlf...)
}

func headerBlockLen(h HeaderBlock) int {
	n := len(crlf)
	for _, f := range h.fields {
		n += len(f.Name) + len(headerSeparator) + len(f.Value) + len(crlf)
	}
	return n
}
