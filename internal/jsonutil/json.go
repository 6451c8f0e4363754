// internal/jsonutil/json.go
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned when a document is followed by anything but
// whitespace.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// Encode writes v as one line of JSON to w, indented when pretty is set.
func Encode(w io.Writer, v any, pretty bool) error {
	if pretty {
		return EncodePretty(w, v)
	}
	return json.NewEncoder(w).Encode(v)
}

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeStrict reads exactly one JSON value from r into v. Unknown object
// keys and trailing values are errors.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTrailingData, err)
		}
		return ErrTrailingData
	}
	return nil
}
