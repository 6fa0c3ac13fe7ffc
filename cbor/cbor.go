// Package cbor provides helper functions for encoding and decoding CBOR
// by wrapping functions provided by github.com/fxamacker/cbor.
//
// 1. CBOR is encoded using Core Deterministic Encoding defined in
//    RFC 8949, which obsoletes Canonical CBOR defined in RFC 7049.
// 2. CBOR decoder detects and rejects duplicate map keys, which is
//    an important requirement in security sensitive applications.
//
// For more info, see:
//   * https://github.com/fxamacker/cbor
//   * https://github.com/x448/safer-cbor
//   * https://tools.ietf.org/html/rfc8949
package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2" // imports as cbor
	"github.com/go-errors/errors"
)

const MaxArrayElements = 1024 * 256
const MaxMapPairs = 1024 * 256

var (
	// encOptions specifies how CBOR should be encoded.
	encOptions = cbor.EncOptions{
		// Enable encoding options required by Core Deterministic Encoding
		// See https://datatracker.ietf.org/doc/html/rfc8949#section-4.2.1
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,

		// We don't use tags
		TagsMd: cbor.TagsForbidden,
	}

	// decOptions specifies how CBOR should be decoded.
	decOptions = cbor.DecOptions{
		// Core Deterministic decoding options
		IndefLength: cbor.IndefLengthForbidden,

		// Sanity checks on maps and arrays
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,

		// We don't use tags
		TagsMd:  cbor.TagsForbidden,
		TimeTag: cbor.DecTagIgnored,

		// Don't set ExtraDecErrorUnknownField: we allow extra fields for forward compatibility
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src into a CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst. Malformed input results in an *EncodingError.
func Unmarshal(data []byte, dst interface{}) error {
	if err := decMode.Unmarshal(data, dst); err != nil {
		return errors.Wrap(&EncodingError{Type: fmt.Sprintf("%T", dst), Err: err}, 0)
	}
	return nil
}

// EncodingError indicates that serialized data was malformed, truncated, or of an
// unsupported version. It is always returned before any cryptographic check is attempted.
type EncodingError struct {
	Type string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("malformed %s encoding: %v", e.Type, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Malformed returns an *EncodingError (with a stack trace) for data of the given type.
func Malformed(typ string, format string, args ...interface{}) error {
	return errors.Wrap(&EncodingError{Type: typ, Err: fmt.Errorf(format, args...)}, 1)
}
