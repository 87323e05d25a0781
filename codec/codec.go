// Package codec provides parse/print pairs for typed part payloads.
package codec

// A Codec parses payload bytes into a value of type T and prints the value
// back into bytes. Parse and Print are expected to be mutual inverses for
// values the codec can represent.
type Codec[T any] interface {
	Parse(data []byte) (T, error)
	Print(v T) ([]byte, error)
}

// Pair adapts a parse function and a print function into a Codec.
type Pair[T any] struct {
	ParseFunc func([]byte) (T, error)
	PrintFunc func(T) ([]byte, error)
}

func (p Pair[T]) Parse(data []byte) (T, error) { return p.ParseFunc(data) }

func (p Pair[T]) Print(v T) ([]byte, error) { return p.PrintFunc(v) }

// Bytes returns the identity codec. Both directions copy, so neither side
// aliases the other's buffer.
func Bytes() Codec[[]byte] {
	copied := func(data []byte) ([]byte, error) {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	return Pair[[]byte]{ParseFunc: copied, PrintFunc: copied}
}

// String converts payloads to and from string.
func String() Codec[string] {
	return Pair[string]{
		ParseFunc: func(data []byte) (string, error) { return string(data), nil },
		PrintFunc: func(v string) ([]byte, error) { return []byte(v), nil },
	}
}
