// internal/tkf91/expressions.go
package tkf91

import (
	"math"
	"math/big"

	"tkfalign/internal/ball"
	"tkfalign/internal/model"
)

// guard is the extra precision used when evaluating a transcendental atom,
// so that the cancellation in 1-e^x does not eat the caller's precision.
const guard = 32

// rates holds the exact parameters the closed forms are built from.
type rates struct {
	lambda, mu, tau *big.Rat
	pi              [4]*big.Rat
	// d is the substitution distance tau / (1 - sum(pi^2)).
	d *big.Rat
}

func newRates(p model.Parameters) rates {
	r := rates{lambda: p.Lambda(), mu: p.Mu(), tau: p.Tau()}
	sq := new(big.Rat)
	for i := range r.pi {
		r.pi[i] = p.Pi(i)
		sq.Add(sq, new(big.Rat).Mul(r.pi[i], r.pi[i]))
	}
	r.d = new(big.Rat).Quo(r.tau, new(big.Rat).Sub(big.NewRat(1, 1), sq))
	return r
}

func (r rates) ball(x *big.Rat, prec uint) ball.Ball { return ball.FromRat(x, prec) }

// beta = (1 - e^((lambda-mu)tau)) / (mu - lambda e^((lambda-mu)tau)).
func (r rates) beta(prec uint) ball.Ball {
	arg := new(big.Rat).Mul(new(big.Rat).Sub(r.lambda, r.mu), r.tau)
	e := r.ball(arg, prec).Exp()
	one := ball.FromInt64(1, prec)
	num := one.Sub(e)
	den := r.ball(r.mu, prec).Sub(r.ball(r.lambda, prec).Mul(e))
	return num.Quo(den)
}

// oneMinusLambdaBeta is the probability of no insertion after a survivor.
func (r rates) oneMinusLambdaBeta(prec uint) ball.Ball {
	return ball.FromInt64(1, prec).Sub(r.ball(r.lambda, prec).Mul(r.beta(prec)))
}

// logSurvival is ln e^(-mu tau), which is rational.
func (r rates) logSurvival(prec uint) ball.Ball {
	return r.ball(new(big.Rat).Neg(new(big.Rat).Mul(r.mu, r.tau)), prec)
}

// death is 1 - e^(-mu tau) - mu beta: a residue dies and leaves no
// descendant in the first slot.
func (r rates) death(prec uint) ball.Ball {
	surv := r.logSurvival(prec).Exp()
	mb := r.ball(r.mu, prec).Mul(r.beta(prec))
	return ball.FromInt64(1, prec).Sub(surv).Sub(mb)
}

func (r rates) expNegD(prec uint) ball.Ball {
	return r.ball(new(big.Rat).Neg(r.d), prec).Exp()
}

// substituted is 1 - e^(-d).
func (r rates) substituted(prec uint) ball.Ball {
	return ball.FromInt64(1, prec).Sub(r.expNegD(prec))
}

// conserved is e^(-d) + pi (1 - e^(-d)), the chance a residue reads the same
// after time tau.
func (r rates) conserved(pi *big.Rat) func(uint) ball.Ball {
	return func(prec uint) ball.Ball {
		ed := r.expNegD(prec)
		one := ball.FromInt64(1, prec)
		return ed.Add(r.ball(pi, prec).Mul(one.Sub(ed)))
	}
}

// logOf lifts a quantity to the log of its value with guard bits.
func logOf(f func(uint) ball.Ball) func(uint) ball.Ball {
	return func(prec uint) ball.Ball { return f(prec + guard).Log() }
}

// native are the same closed forms in hardware floating point.
type native[T float32 | float64] struct {
	ratio, gamma0, gamma1 T
	lb, mb                T
	zeta1, zeta2          T
	p1, pbar1             T
	pi                    [4]T
	conserved, changed    [4]T
}

func ratTo[T float32 | float64](x *big.Rat) T {
	f, _ := x.Float64()
	return T(f)
}

func exp[T float32 | float64](x T) T { return T(math.Exp(float64(x))) }

func logT[T float32 | float64](x T) T { return T(math.Log(float64(x))) }

func newNative[T float32 | float64](r rates) native[T] {
	lam, mu, tau := ratTo[T](r.lambda), ratTo[T](r.mu), ratTo[T](r.tau)
	var n native[T]
	for i := range n.pi {
		n.pi[i] = ratTo[T](r.pi[i])
	}

	e := exp((lam - mu) * tau)
	beta := (1 - e) / (mu - lam*e)
	n.lb, n.mb = lam*beta, mu*beta
	n.ratio = lam / mu
	n.gamma0 = 1 - n.ratio
	n.gamma1 = n.gamma0 * n.ratio
	n.zeta1 = 1 - n.lb
	n.zeta2 = n.zeta1 * n.lb

	surv := exp(-mu * tau)
	n.p1 = surv * n.zeta1
	n.pbar1 = (1 - surv - n.mb) * n.zeta1

	ed := exp(-ratTo[T](r.d))
	for i := range n.pi {
		n.conserved[i] = ed + n.pi[i]*(1-ed)
		n.changed[i] = n.pi[i] * (1 - ed)
	}
	return n
}
