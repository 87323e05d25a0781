package multipart

import "bytes"

// Part is one framed unit of a body: an ordered header block followed by a
// raw payload.
//
// A nil Payload records a part whose content ran to the end of the buffer
// with no further boundary marker in sight; an empty non-nil Payload is a
// present, zero-length payload. Print emits nothing for either.
type Part struct {
	Header  HeaderBlock
	Payload []byte
}

// parsePart reads a header block, then scans ahead for the next marker prefix
// without consuming it. The payload is copied out of body. When no prefix
// occurs anywhere later the payload is nil and pos stays at the end of the
// header block, so the caller reports its framing error there.
func parsePart(body []byte, pos int, m markerSet) (Part, int, error) {
	h, pos, err := parseHeaderBlock(body, pos)
	if err != nil {
		return Part{}, pos, err
	}
	end := bytes.Index(body[pos:], m.prefix)
	if end == -1 {
		return Part{Header: h}, pos, nil
	}
	payload := make([]byte, end)
	copy(payload, body[pos:pos+end])
	return Part{Header: h, Payload: payload}, pos + end, nil
}

func appendPart(dst []byte, p Part) []byte {
	dst = appendHeaderBlock(dst, p.Header)
	return append(dst, p.Payload...)
}

func partLen(p Part) int {
	return headerBlockLen(p.Header) + len(p.Payload)
}
