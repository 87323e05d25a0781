package codec

import "encoding/json"

// JSON codes values of type T as JSON payloads.
func JSON[T any]() Codec[T] {
	return Pair[T]{
		ParseFunc: func(data []byte) (T, error) {
			var v T
			err := json.Unmarshal(data, &v)
			return v, err
		},
		PrintFunc: func(v T) ([]byte, error) {
			return json.Marshal(v)
		},
	}
}
