// Package form interprets parsed multipart parts as named form fields and
// builds field sequences for printing.
package form

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/wireform/wireform/multipart"
)

const dispositionHeader = "Content-Disposition"

// Field is one named form entry: a plain value or an uploaded file.
type Field struct {
	Name     string
	Filename string // "" for plain values
	Header   multipart.HeaderBlock
	Data     []byte
}

// Value returns the field data as a string.
func (f *Field) Value() string { return string(f.Data) }

// IsFile reports whether the field carried a filename parameter.
func (f *Field) IsFile() bool { return f.Filename != "" }

// Form is the ordered field collection of one body. Like header blocks it is
// a case-insensitive multi-map preserving insertion order.
type Form struct {
	fields []*Field
}

// New returns an empty form for building a body to print.
func New() *Form { return &Form{} }

// FromParts interprets each part's Content-Disposition as a named field.
// Every part must carry that header with a name parameter; any failure
// rejects the whole sequence, nothing is skipped.
func FromParts(parts []multipart.Part) (*Form, error) {
	f := New()
	for i, p := range parts {
		v, ok := p.Header.Lookup(dispositionHeader)
		if !ok {
			return nil, fmt.Errorf("form: part %d: missing Content-Disposition header", i)
		}
		d, err := multipart.ParseDisposition(v)
		if err != nil {
			return nil, fmt.Errorf("form: part %d: %w", i, err)
		}
		name, ok := d.Param("name")
		if !ok {
			return nil, fmt.Errorf("form: part %d: no name parameter in %q", i, v)
		}
		filename, _ := d.Filename()
		f.fields = append(f.fields, &Field{
			Name:     name,
			Filename: filename,
			Header:   p.Header,
			Data:     p.Payload,
		})
	}
	return f, nil
}

// Field returns the first field recorded under name, folding case.
func (f *Form) Field(name string) (*Field, bool) {
	for _, fd := range f.fields {
		if strings.EqualFold(fd.Name, name) {
			return fd, true
		}
	}
	return nil, false
}

// All returns every field recorded under name, in insertion order.
func (f *Form) All(name string) []*Field {
	var fields []*Field
	for _, fd := range f.fields {
		if strings.EqualFold(fd.Name, name) {
			fields = append(fields, fd)
		}
	}
	return fields
}

// Value returns the first value recorded under name, or "".
func (f *Form) Value(name string) string {
	fd, ok := f.Field(name)
	if !ok {
		return ""
	}
	return fd.Value()
}

// Fields returns the fields in insertion order. The slice is shared with the
// form; callers must not modify it.
func (f *Form) Fields() []*Field { return f.fields }

// Len returns the number of fields.
func (f *Form) Len() int { return len(f.fields) }

// Names returns the field names in order of first appearance, one entry per
// case-folded name.
func (f *Form) Names() []string {
	var names []string
	for _, fd := range f.fields {
		seen := false
		for _, n := range names {
			if strings.EqualFold(n, fd.Name) {
				seen = true
				break
			}
		}
		if !seen {
			names = append(names, fd.Name)
		}
	}
	return names
}

// AddValue appends a plain value field with a canonical Content-Disposition.
func (f *Form) AddValue(name, value string) {
	var h multipart.HeaderBlock
	h.Add(dispositionHeader, multipart.FormData(
		multipart.Param{Key: "name", Value: name},
	).String())
	f.fields = append(f.fields, &Field{Name: name, Header: h, Data: []byte(value)})
}

// AddFile appends a file field. contentType may be "" to omit the header.
func (f *Form) AddFile(name, filename, contentType string, data []byte) {
	var h multipart.HeaderBlock
	h.Add(dispositionHeader, multipart.FormData(
		multipart.Param{Key: "name", Value: name},
		multipart.Param{Key: "filename", Value: filename},
	).String())
	if contentType != "" {
		h.Add("Content-Type", contentType)
	}
	f.fields = append(f.fields, &Field{Name: name, Filename: filename, Header: h, Data: data})
}

// Parts returns the part sequence for printing. Fields taken from FromParts
// keep their original header blocks, so a parsed form prints back to the
// exact body it came from.
func (f *Form) Parts() []multipart.Part {
	parts := make([]multipart.Part, len(f.fields))
	for i, fd := range f.fields {
		parts[i] = multipart.Part{Header: fd.Header, Payload: fd.Data}
	}
	return parts
}

// Require reports every missing name in a single aggregated error.
func (f *Form) Require(names ...string) error {
	var err error
	for _, name := range names {
		if _, ok := f.Field(name); !ok {
			err = multierr.Append(err, fmt.Errorf("form: missing required field %q", name))
		}
	}
	return err
}
