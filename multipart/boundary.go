package multipart

import (
	"bytes"
	"crypto/rand"
	"fmt"
)

const crlf = "\r\n"

var crlfBytes = []byte(crlf)

// Kind names the three positions a boundary marker takes inside a body.
type Kind int

const (
	// Initial opens the body: "--boundary\r\n".
	Initial Kind = iota
	// Separator sits between two consecutive parts: "\r\n--boundary\r\n".
	Separator
	// Terminator closes the body: "\r\n--boundary--\r\n".
	Terminator
)

func (k Kind) String() string {
	switch k {
	case Initial:
		return "initial"
	case Separator:
		return "separator"
	case Terminator:
		return "terminator"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Boundary is the boundary token of a body, without the leading dashes.
type Boundary string

// NewBoundary returns a random token suitable for printing a new body.
func NewBoundary() Boundary {
	var buf [24]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return Boundary(fmt.Sprintf("%x", buf[:]))
}

// Marker returns the exact byte sequence of marker k for this boundary.
func (b Boundary) Marker(k Kind) []byte {
	return b.markers().bytes(k)
}

// markerSet holds the marker byte sequences of one boundary, built once per
// parse or print. initial and prefix are views into separator, closing is a
// view into terminator.
type markerSet struct {
	initial    []byte // "--boundary\r\n"
	separator  []byte // "\r\n--boundary\r\n"
	terminator []byte // "\r\n--boundary--\r\n"
	prefix     []byte // "\r\n--boundary", the payload lookahead
	closing    []byte // "--boundary--\r\n", the zero-part close
}

func (b Boundary) markers() markerSet {
	sep := []byte(crlf + "--" + string(b) + crlf)
	term := []byte(crlf + "--" + string(b) + "--" + crlf)
	return markerSet{
		initial:    sep[2:],
		separator:  sep,
		terminator: term,
		prefix:     sep[:len(sep)-2],
		closing:    term[2:],
	}
}

func (m markerSet) bytes(k Kind) []byte {
	switch k {
	case Initial:
		return m.initial
	case Separator:
		return m.separator
	case Terminator:
		return m.terminator
	}
	panic(fmt.Sprintf("unknown marker kind %d", int(k)))
}

// consume advances pos past marker k, or reports the mismatch at pos.
func (m markerSet) consume(body []byte, pos int, k Kind) (int, error) {
	next, ok := consumePrefix(body, pos, m.bytes(k))
	if !ok {
		return pos, framingError(ErrBoundaryMismatch, pos, "expected %s marker", k)
	}
	return next, nil
}

func consumePrefix(body []byte, pos int, seq []byte) (int, bool) {
	if !bytes.HasPrefix(body[pos:], seq) {
		return pos, false
	}
	return pos + len(seq), true
}
