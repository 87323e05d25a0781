// Package multipart frames and prints multipart/form-data bodies byte for byte.
//
// Parse maps a complete in-memory body onto an ordered sequence of parts, each
// an ordered header block plus a raw payload. Print is the exact inverse:
// printing a parsed sequence with the same boundary reproduces the original
// buffer byte for byte, and parsing a printed sequence yields equal parts.
// Nothing is normalized, decoded or escaped along the way; header casing,
// repetition and order all survive a round trip.
//
// The payload scan is a raw byte search for CRLF + "--" + boundary. A payload
// that happens to contain that sequence corrupts the framing; boundary
// selection is the caller's responsibility and no escaping mechanism exists.
// Callers are likewise expected to bound the size of untrusted bodies before
// handing them to Parse.
//
// All functions are pure and reentrant. Parsed payloads are owned copies that
// share no memory with the input buffer.
package multipart
