package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so the same logical value always
// prints to identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR codes values of type T as deterministically encoded CBOR payloads.
func CBOR[T any]() Codec[T] {
	return Pair[T]{
		ParseFunc: func(data []byte) (T, error) {
			var v T
			err := decMode.Unmarshal(data, &v)
			return v, err
		},
		PrintFunc: func(v T) ([]byte, error) {
			return encMode.Marshal(v)
		},
	}
}
