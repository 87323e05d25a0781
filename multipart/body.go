package multipart

// Parse frames body into its ordered parts. The boundary must be the one the
// body was printed with, and every byte of body must be consumed; leftover
// bytes after the terminator are an error, never silently dropped.
func Parse(body []byte, boundary Boundary) ([]Part, error) {
	m := boundary.markers()
	pos, err := m.consume(body, 0, Initial)
	if err != nil {
		return nil, err
	}
	// A zero-part body closes immediately, the terminator sharing the
	// initial marker's CRLF: "--boundary\r\n--boundary--\r\n".
	if next, ok := consumePrefix(body, pos, m.closing); ok {
		if next != len(body) {
			return nil, framingError(ErrTrailingData, next, "")
		}
		return []Part{}, nil
	}
	var parts []Part
	for {
		p, next, err := parsePart(body, pos, m)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
		pos = next
		if next, ok := consumePrefix(body, pos, m.separator); ok {
			pos = next
			continue
		}
		pos, err = m.consume(body, pos, Terminator)
		if err != nil {
			return nil, err
		}
		break
	}
	if pos != len(body) {
		return nil, framingError(ErrTrailingData, pos, "")
	}
	return parts, nil
}

// Print renders parts back into a single body under boundary. Printing the
// result of Parse with the same boundary reproduces the parsed buffer byte
// for byte.
func Print(parts []Part, boundary Boundary) []byte {
	m := boundary.markers()
	return appendBody(make([]byte, 0, printedLen(m, parts)), parts, m)
}

// AppendParts appends the printed body to dst and returns the extended slice.
func AppendParts(dst []byte, parts []Part, boundary Boundary) []byte {
	return appendBody(dst, parts, boundary.markers())
}

func appendBody(dst []byte, parts []Part, m markerSet) []byte {
	dst = append(dst, m.initial...)
	if len(parts) == 0 {
		return append(dst, m.closing...)
	}
	for i, p := range parts {
		if i > 0 {
			dst = append(dst, m.separator...)
		}
		dst = appendPart(dst, p)
	}
	return append(dst, m.terminator...)
}

func printedLen(m markerSet, parts []Part) int {
	if len(parts) == 0 {
		return len(m.initial) + len(m.closing)
	}
	n := len(m.initial) + len(m.terminator) + (len(parts)-1)*len(m.separator)
	for _, p := range parts {
		n += partLen(p)
	}
	return n
}
