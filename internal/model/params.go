// internal/model/params.go
package model

import (
	"fmt"
	"math/big"
)

// RawParameters is the unvalidated "parameters" object of a request.
type RawParameters struct {
	PA     *RawRational `json:"pa"`
	PC     *RawRational `json:"pc"`
	PG     *RawRational `json:"pg"`
	PT     *RawRational `json:"pt"`
	Lambda *RawRational `json:"lambda"`
	Mu     *RawRational `json:"mu"`
	Tau    *RawRational `json:"tau"`
}

type namedRaw struct {
	name string
	raw  *RawRational
}

// fields lists the parameters in validation order.
func (r RawParameters) fields() []namedRaw {
	return []namedRaw{
		{"pa", r.PA}, {"pc", r.PC}, {"pg", r.PG}, {"pt", r.PT},
		{"lambda", r.Lambda}, {"mu", r.Mu}, {"tau", r.Tau},
	}
}

// Parameters are validated TKF91 parameters. The zero value is not valid;
// obtain one from Validate. Accessors return copies, so a Parameters value
// cannot be mutated after validation.
type Parameters struct {
	pi     [4]*big.Rat // A, C, G, T
	lambda *big.Rat
	mu     *big.Rat
	tau    *big.Rat
}

// Pi returns the equilibrium frequency of nucleotide i (0=A 1=C 2=G 3=T).
func (p Parameters) Pi(i int) *big.Rat { return new(big.Rat).Set(p.pi[i]) }

// Lambda is the insertion (birth) rate.
func (p Parameters) Lambda() *big.Rat { return new(big.Rat).Set(p.lambda) }

// Mu is the deletion (death) rate.
func (p Parameters) Mu() *big.Rat { return new(big.Rat).Set(p.mu) }

// Tau is the divergence time.
func (p Parameters) Tau() *big.Rat { return new(big.Rat).Set(p.tau) }

func (p Parameters) String() string {
	return fmt.Sprintf("pa=%s pc=%s pg=%s pt=%s lambda=%s mu=%s tau=%s",
		p.pi[0].RatString(), p.pi[1].RatString(), p.pi[2].RatString(), p.pi[3].RatString(),
		p.lambda.RatString(), p.mu.RatString(), p.tau.RatString())
}

// Validate turns raw request parameters into Parameters.
//
// Checks, in order: every field present with both num and denom
// (ErrMissingField); every num and denom strictly positive, so a negative
// ratio is rejected whichever slot carries the sign (ErrNonPositiveValue);
// pa+pc+pg+pt == 1 in exact arithmetic (ErrFrequencySum); lambda < mu
// (ErrRateOrdering). tau > 0 follows from positivity.
func Validate(raw RawParameters) (Parameters, error) {
	fields := raw.fields()
	vals := make([]*big.Rat, len(fields))

	for _, f := range fields {
		switch {
		case f.raw == nil:
			return Parameters{}, &ParamError{Field: f.name, Err: ErrMissingField}
		case f.raw.Num == nil:
			return Parameters{}, &ParamError{Field: f.name + ".num", Err: ErrMissingField}
		case f.raw.Denom == nil:
			return Parameters{}, &ParamError{Field: f.name + ".denom", Err: ErrMissingField}
		}
	}
	for i, f := range fields {
		if f.raw.Num.Sign() <= 0 {
			return Parameters{}, &ParamError{Field: f.name + ".num", Err: ErrNonPositiveValue}
		}
		if f.raw.Denom.Sign() <= 0 {
			return Parameters{}, &ParamError{Field: f.name + ".denom", Err: ErrNonPositiveValue}
		}
		vals[i] = new(big.Rat).SetFrac(f.raw.Num, f.raw.Denom)
	}

	p := Parameters{
		pi:     [4]*big.Rat{vals[0], vals[1], vals[2], vals[3]},
		lambda: vals[4],
		mu:     vals[5],
		tau:    vals[6],
	}

	sum := new(big.Rat)
	for _, x := range p.pi {
		sum.Add(sum, x)
	}
	if sum.Cmp(big.NewRat(1, 1)) != 0 {
		return Parameters{}, &ParamError{
			Field: "pa+pc+pg+pt",
			Err:   fmt.Errorf("%w (got %s)", ErrFrequencySum, sum.RatString()),
		}
	}
	if p.lambda.Cmp(p.mu) >= 0 {
		return Parameters{}, &ParamError{
			Field: "lambda",
			Err:   fmt.Errorf("%w (lambda=%s mu=%s)", ErrRateOrdering, p.lambda.RatString(), p.mu.RatString()),
		}
	}
	return p, nil
}
