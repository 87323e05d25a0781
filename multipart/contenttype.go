package multipart

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	contentTypeHeader = "Content-Type"
	formDataType      = "multipart/form-data"
	boundaryParam     = "boundary="
)

// ExtractBoundary reads the boundary token out of hdr's Content-Type and
// deletes the header: once the body is reframed into parts the header is
// spent. The value must begin with the literal "multipart/form-data" and
// carry a "boundary=" parameter; the token is everything after that marker,
// taken verbatim. The token printed later may differ, so parse-side and
// print-side boundaries stay decoupled.
func ExtractBoundary(hdr http.Header) (Boundary, error) {
	values := hdr.Values(contentTypeHeader)
	switch {
	case len(values) == 0:
		return "", ErrMissingContentType
	case len(values) > 1:
		return "", fmt.Errorf("%w: %d Content-Type headers", ErrNotMultipart, len(values))
	}
	v := values[0]
	if !strings.HasPrefix(v, formDataType) {
		return "", fmt.Errorf("%w: %q", ErrNotMultipart, v)
	}
	idx := strings.Index(v, boundaryParam)
	if idx == -1 {
		return "", fmt.Errorf("%w: %q", ErrMissingBoundary, v)
	}
	hdr.Del(contentTypeHeader)
	return Boundary(v[idx+len(boundaryParam):]), nil
}

// SetContentType stamps hdr with the Content-Type a body printed under
// boundary carries, replacing any previous value.
func SetContentType(hdr http.Header, boundary Boundary) {
	hdr.Set(contentTypeHeader, formDataType+"; boundary="+string(boundary))
}

// ParseBody frames a complete request: empty-body check, boundary extraction
// from hdr, then Parse. hdr loses its Content-Type on success.
func ParseBody(hdr http.Header, body []byte) ([]Part, Boundary, error) {
	if len(body) == 0 {
		return nil, "", ErrMissingBody
	}
	boundary, err := ExtractBoundary(hdr)
	if err != nil {
		return nil, "", err
	}
	parts, err := Parse(body, boundary)
	if err != nil {
		return nil, "", err
	}
	return parts, boundary, nil
}

// PrintBody prints parts under boundary and stamps hdr to match.
func PrintBody(hdr http.Header, parts []Part, boundary Boundary) []byte {
	SetContentType(hdr, boundary)
	return Print(parts, boundary)
}
