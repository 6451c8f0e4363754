// Package symbolic represents log-probabilities exactly.
//
// A value is an integer exponent Vector over a Basis of atoms and stands for
// sum(e_k * ln atom_k). Rational atoms are the elements of a coprime basis
// refined from every numerator and denominator the model uses, so two
// products of those rationals are equal exactly when their vectors are.
// Transcendental atoms (quantities built from exponentials) are treated as
// multiplicatively independent of each other and of the rationals.
//
// Vectors are compared with Basis.Compare, which decides ties by vector
// equality and otherwise separates the two values with enclosures of
// increasing precision.
package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"tkfalign/internal/ball"
)

// LogFunc encloses the natural log of an atom at the given precision.
type LogFunc func(prec uint) ball.Ball

// Vector is an exponent vector over a Basis. The nil Vector stands for
// ln 0 = -Inf.
type Vector []int64

// NegInf is the vector of a zero probability.
var NegInf Vector

// IsNegInf reports whether v stands for ln 0.
func (v Vector) IsNegInf() bool { return v == nil }

func (v Vector) Add(w Vector) Vector {
	if v == nil || w == nil {
		return nil
	}
	out := make(Vector, len(v))
	for k := range v {
		out[k] = v[k] + w[k]
	}
	return out
}

// Sub is only meaningful for finite vectors.
func (v Vector) Sub(w Vector) Vector {
	out := make(Vector, len(v))
	for k := range v {
		out[k] = v[k] - w[k]
	}
	return out
}

func (v Vector) Equal(w Vector) bool {
	if v == nil || w == nil {
		return v == nil && w == nil
	}
	if len(v) != len(w) {
		return false
	}
	for k := range v {
		if v[k] != w[k] {
			return false
		}
	}
	return true
}

func (v Vector) IsZero() bool {
	for _, e := range v {
		if e != 0 {
			return false
		}
	}
	return v != nil
}

type atom struct {
	name string
	log  LogFunc
}

// Basis is an immutable set of atoms with cached enclosures of their logs.
// It is safe for concurrent use.
type Basis struct {
	atoms    []atom
	rational []*big.Int

	mu    sync.Mutex
	balls map[uint][]ball.Ball
	fast  []ball.Interval
}

// Len is the number of atoms, i.e. the length of every finite Vector.
func (b *Basis) Len() int { return len(b.atoms) }

// Zero is ln 1.
func (b *Basis) Zero() Vector { return make(Vector, len(b.atoms)) }

// unit is the vector of the k-th atom.
func (b *Basis) unit(k int) Vector {
	v := b.Zero()
	v[k] = 1
	return v
}

func (b *Basis) logs(prec uint) []ball.Ball {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, ok := b.balls[prec]; ok {
		return cached
	}
	out := make([]ball.Ball, len(b.atoms))
	for k, a := range b.atoms {
		out[k] = a.log(prec)
	}
	b.balls[prec] = out
	return out
}

func (b *Basis) intervals() []ball.Interval {
	b.mu.Lock()
	cached := b.fast
	b.mu.Unlock()
	if cached != nil {
		return cached
	}
	logs := b.logs(basePrec)
	out := make([]ball.Interval, len(logs))
	for k, l := range logs {
		out[k] = l.Interval()
	}
	b.mu.Lock()
	b.fast = out
	b.mu.Unlock()
	return out
}

// Ball encloses the value of v at prec bits.
func (b *Basis) Ball(v Vector, prec uint) ball.Ball {
	if v == nil {
		return ball.Whole(prec)
	}
	logs := b.logs(prec)
	sum := ball.FromInt64(0, prec)
	for k, e := range v {
		if e != 0 {
			sum = sum.Add(logs[k].MulInt(e))
		}
	}
	return sum
}

// Interval is a float64 enclosure of v.
func (b *Basis) Interval(v Vector) ball.Interval {
	if v == nil {
		return ball.NegInf()
	}
	ivs := b.intervals()
	sum := ball.Point(0)
	for k, e := range v {
		if e != 0 {
			sum = sum.Add(ivs[k].Scale(e))
		}
	}
	return sum
}

// Float64 approximates v to double precision.
func (b *Basis) Float64(v Vector) float64 {
	if v == nil {
		return ball.NegInf().Lo
	}
	return b.Ball(v, basePrec).Float64()
}

// Format renders v as a product of named atoms, e.g. "beta^2 * 3^-1".
func (b *Basis) Format(v Vector) string {
	if v == nil {
		return "0"
	}
	var parts []string
	for k, e := range v {
		switch e {
		case 0:
		case 1:
			parts = append(parts, b.atoms[k].name)
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", b.atoms[k].name, e))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " * ")
}

// Builder collects the rationals and transcendental atoms of a model and
// produces the Basis spanning them.
type Builder struct {
	rats  []*big.Rat
	trans []atom
}

// RatRef and AtomRef identify values registered with a Builder.
type (
	RatRef  int
	AtomRef int
)

// Rational registers a positive rational.
func (bd *Builder) Rational(r *big.Rat) RatRef {
	bd.rats = append(bd.rats, new(big.Rat).Set(r))
	return RatRef(len(bd.rats) - 1)
}

// Atom registers a transcendental atom.
func (bd *Builder) Atom(name string, log LogFunc) AtomRef {
	bd.trans = append(bd.trans, atom{name: name, log: log})
	return AtomRef(len(bd.trans) - 1)
}

// Build refines the registered rationals and returns the basis together
// with a resolver for the registered references.
func (bd *Builder) Build() (*Basis, *Resolver, error) {
	var ints []*big.Int
	for _, r := range bd.rats {
		if r.Sign() <= 0 {
			return nil, nil, fmt.Errorf("symbolic: rational %s is not positive", r.RatString())
		}
		ints = append(ints, r.Num(), r.Denom())
	}
	primes := Refine(ints)

	b := &Basis{rational: primes, balls: make(map[uint][]ball.Ball)}
	for _, p := range primes {
		p := new(big.Int).Set(p)
		b.atoms = append(b.atoms, atom{
			name: p.String(),
			log:  func(prec uint) ball.Ball { return ball.FromInt(p, prec+8).Log() },
		})
	}
	b.atoms = append(b.atoms, bd.trans...)

	res := &Resolver{basis: b, rats: make([]Vector, len(bd.rats))}
	for i, r := range bd.rats {
		num, err := Factor(r.Num(), primes)
		if err != nil {
			return nil, nil, err
		}
		den, err := Factor(r.Denom(), primes)
		if err != nil {
			return nil, nil, err
		}
		v := b.Zero()
		for k := range primes {
			v[k] = num[k] - den[k]
		}
		res.rats[i] = v
	}
	return b, res, nil
}

// Resolver maps Builder references to vectors.
type Resolver struct {
	basis *Basis
	rats  []Vector
}

func (r *Resolver) Rat(ref RatRef) Vector {
	out := make(Vector, len(r.rats[ref]))
	copy(out, r.rats[ref])
	return out
}

func (r *Resolver) Atom(ref AtomRef) Vector {
	return r.basis.unit(len(r.basis.rational) + int(ref))
}
