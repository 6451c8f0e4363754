// Package request turns v1 JSON documents into validated domain requests.
//
// Validation happens in a fixed order before any computation: document
// shape (unknown keys, required fields), then model parameters, then
// sequences or alignment rows, then precision.
package request

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tkfalign/internal/alignment"
	"tkfalign/internal/jsonutil"
	"tkfalign/internal/model"
	"tkfalign/internal/precision"
	"tkfalign/pkg/api"
)

// ErrInvalidRequest marks a document that is not a well-formed request.
var ErrInvalidRequest = errors.New("invalid request")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Align is a validated tkf-align request.
type Align struct {
	Wire   *api.ParametersV1
	Params model.Parameters
	A, B   alignment.Sequence
	Mode   precision.Mode
	RTol   float64
}

// Check is a validated tkf-check request.
type Check struct {
	Params     model.Parameters
	RowA, RowB string
}

// Bench is a validated tkf-bench request.
type Bench struct {
	Align
	Samples int
}

// Decode strictly reads one document from r into v and validates its shape.
func Decode(r io.Reader, v any) error {
	if err := jsonutil.DecodeStrict(r, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return Struct(v)
}

// Struct runs the validator tags of v. A missing required field is
// reported as model.ErrMissingField.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRequest, fe.Field(), model.ErrMissingField)
	}
	return fmt.Errorf("%w: %s: failed %q check", ErrInvalidRequest, fe.Field(), fe.Tag())
}

// Parameters converts and validates the wire parameters. An absent object
// is a missing field.
func Parameters(w *api.ParametersV1) (model.Parameters, error) {
	if w == nil {
		return model.Parameters{}, &model.ParamError{Field: "parameters", Err: model.ErrMissingField}
	}
	return model.Validate(model.RawParameters{
		PA: raw(w.PA), PC: raw(w.PC), PG: raw(w.PG), PT: raw(w.PT),
		Lambda: raw(w.Lambda), Mu: raw(w.Mu), Tau: raw(w.Tau),
	})
}

func raw(r *api.RationalV1) *model.RawRational {
	if r == nil {
		return nil
	}
	return &model.RawRational{Num: r.Num, Denom: r.Denom}
}

// ToAlign validates an align request. An empty precision falls back to
// defaultPrecision; when that is empty too the field is missing.
func ToAlign(w api.AlignRequestV1, defaultPrecision string) (Align, error) {
	p, err := Parameters(w.Parameters)
	if err != nil {
		return Align{}, err
	}
	a, err := alignment.ParseSequence(*w.SequenceA)
	if err != nil {
		return Align{}, fmt.Errorf("%w: sequence_a: %w", ErrInvalidRequest, err)
	}
	b, err := alignment.ParseSequence(*w.SequenceB)
	if err != nil {
		return Align{}, fmt.Errorf("%w: sequence_b: %w", ErrInvalidRequest, err)
	}
	name := w.Precision
	if name == "" {
		name = defaultPrecision
	}
	if name == "" {
		return Align{}, fmt.Errorf("%w: precision: %w", ErrInvalidRequest, model.ErrMissingField)
	}
	mode, err := precision.ParseMode(name)
	if err != nil {
		return Align{}, fmt.Errorf("precision: %w", err)
	}
	var rtol float64
	if w.RTol != nil {
		rtol = *w.RTol
	}
	if _, err := precision.NewPolicy(mode, rtol); err != nil {
		return Align{}, fmt.Errorf("rtol: %w", err)
	}
	return Align{Wire: w.Parameters, Params: p, A: a, B: b, Mode: mode, RTol: rtol}, nil
}

// ToCheck validates a check request. The rows themselves are parsed by the
// verifier so that a malformed alignment surfaces as alignment.ErrMalformed.
func ToCheck(w api.CheckRequestV1) (Check, error) {
	p, err := Parameters(w.Parameters)
	if err != nil {
		return Check{}, err
	}
	return Check{Params: p, RowA: *w.SequenceA, RowB: *w.SequenceB}, nil
}

// ToBench validates a bench request. The sample count is checked by the
// bench driver.
func ToBench(w api.BenchRequestV1, defaultPrecision string) (Bench, error) {
	a, err := ToAlign(w.AlignRequestV1, defaultPrecision)
	if err != nil {
		return Bench{}, err
	}
	return Bench{Align: a, Samples: *w.Samples}, nil
}

// ReadAlign decodes and validates one align document.
func ReadAlign(r io.Reader, defaultPrecision string) (Align, error) {
	var w api.AlignRequestV1
	if err := Decode(r, &w); err != nil {
		return Align{}, err
	}
	return ToAlign(w, defaultPrecision)
}

// ReadCheck decodes and validates one check document.
func ReadCheck(r io.Reader) (Check, error) {
	var w api.CheckRequestV1
	if err := Decode(r, &w); err != nil {
		return Check{}, err
	}
	return ToCheck(w)
}

// ReadBench decodes and validates one bench document.
func ReadBench(r io.Reader, defaultPrecision string) (Bench, error) {
	var w api.BenchRequestV1
	if err := Decode(r, &w); err != nil {
		return Bench{}, err
	}
	return ToBench(w, defaultPrecision)
}
