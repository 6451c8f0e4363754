package tkf91

import (
	"fmt"
	"math/big"

	"tkfalign/internal/model"
	"tkfalign/internal/symbolic"
)

// Generators are the log-probability factors a pair-HMM path multiplies
// together, one per alignment column. Residues index as model.Pi does.
type Generators[T any] struct {
	// Start is the empty alignment and the first column when it is a match
	// at (1,1).
	Start T
	// LeadDel is the deletion of a1 at (1,0); LeadDelExt extends a leading
	// run of deletions along the j=0 edge.
	LeadDel, LeadDelExt [4]T
	// LeadIns is the insertion of b1 at (0,1); LeadInsExt extends a leading
	// run of insertions along the i=0 edge.
	LeadIns, LeadInsExt [4]T

	Del   [4]T
	Match [4][4]T
	Ins   [4]T
}

// Map converts every factor with f.
func Map[A, B any](g Generators[A], f func(A) B) Generators[B] {
	var out Generators[B]
	out.Start = f(g.Start)
	for x := 0; x < 4; x++ {
		out.LeadDel[x] = f(g.LeadDel[x])
		out.LeadDelExt[x] = f(g.LeadDelExt[x])
		out.LeadIns[x] = f(g.LeadIns[x])
		out.LeadInsExt[x] = f(g.LeadInsExt[x])
		out.Del[x] = f(g.Del[x])
		out.Ins[x] = f(g.Ins[x])
		for y := 0; y < 4; y++ {
			out.Match[x][y] = f(g.Match[x][y])
		}
	}
	return out
}

// Native evaluates the generators in hardware floating point.
func Native[T float32 | float64](p model.Parameters) Generators[T] {
	n := newNative[T](newRates(p))
	var g Generators[T]

	g.Start = logT(n.gamma0 * n.zeta1)
	for x := 0; x < 4; x++ {
		g.LeadDel[x] = logT(n.gamma1 * n.zeta1 * n.pi[x] * n.mb)
		g.LeadDelExt[x] = logT(n.ratio * n.lb * n.pi[x] * n.mb)
		g.LeadIns[x] = logT(n.gamma0 * n.zeta2 * n.pi[x])
		g.LeadInsExt[x] = logT(n.lb * n.pi[x])
		g.Del[x] = logT(n.ratio * n.pi[x] * n.mb)
		g.Ins[x] = logT(n.pi[x] * n.lb)

		for y := 0; y < 4; y++ {
			trans := n.changed[y]
			if x == y {
				trans = n.conserved[x]
			}
			survived := trans * n.p1
			died := n.pi[y] * n.pbar1
			pick := died
			if survived > died {
				pick = survived
			}
			g.Match[x][y] = logT(n.ratio * n.pi[x] * pick)
		}
	}
	return g
}

// Exact holds the generators as vectors over the basis of the model.
type Exact struct {
	Basis *symbolic.Basis
	Gen   Generators[symbolic.Vector]
}

// NewExact builds the symbolic generators of p. The match factor takes the
// larger of its two branches; deciding that needs a numeric comparison, and
// NewExact fails with symbolic.ErrUndetermined if it cannot be settled.
func NewExact(p model.Parameters) (*Exact, error) {
	r := newRates(p)

	q := new(big.Rat).Quo(r.lambda, r.mu)

	var bd symbolic.Builder
	ratio := bd.Rational(q)
	gamma0 := bd.Rational(new(big.Rat).Sub(big.NewRat(1, 1), q))
	lambda := bd.Rational(r.lambda)
	mu := bd.Rational(r.mu)
	var pi [4]symbolic.RatRef
	for x := range pi {
		pi[x] = bd.Rational(r.pi[x])
	}

	beta := bd.Atom("beta", logOf(r.beta))
	zeta1 := bd.Atom("(1-lambda*beta)", logOf(r.oneMinusLambdaBeta))
	surv := bd.Atom("exp(-mu*tau)", r.logSurvival)
	death := bd.Atom("(1-exp(-mu*tau)-mu*beta)", logOf(r.death))
	subst := bd.Atom("(1-exp(-d))", logOf(r.substituted))

	// Residues with the same frequency share one conservation atom.
	var conserved [4]symbolic.AtomRef
	seen := map[string]symbolic.AtomRef{}
	for x := range conserved {
		key := r.pi[x].RatString()
		ref, ok := seen[key]
		if !ok {
			ref = bd.Atom(fmt.Sprintf("match(%s)", key), logOf(r.conserved(r.pi[x])))
			seen[key] = ref
		}
		conserved[x] = ref
	}

	basis, res, err := bd.Build()
	if err != nil {
		return nil, fmt.Errorf("tkf91: %w", err)
	}

	rat, atom := res.Rat, res.Atom
	lb := rat(lambda).Add(atom(beta))
	mb := rat(mu).Add(atom(beta))
	z1 := atom(zeta1)
	z2 := z1.Add(lb)
	g0 := rat(gamma0)
	g1 := g0.Add(rat(ratio))
	p1 := atom(surv).Add(z1)
	pbar1 := atom(death).Add(z1)

	var g Generators[symbolic.Vector]
	g.Start = g0.Add(z1)
	for x := 0; x < 4; x++ {
		px := rat(pi[x])
		g.LeadDel[x] = g1.Add(z1).Add(px).Add(mb)
		g.LeadDelExt[x] = rat(ratio).Add(lb).Add(px).Add(mb)
		g.LeadIns[x] = g0.Add(z2).Add(px)
		g.LeadInsExt[x] = lb.Add(px)
		g.Del[x] = rat(ratio).Add(px).Add(mb)
		g.Ins[x] = px.Add(lb)

		for y := 0; y < 4; y++ {
			trans := rat(pi[y]).Add(atom(subst))
			if x == y {
				trans = atom(conserved[x])
			}
			survived := trans.Add(p1)
			died := rat(pi[y]).Add(pbar1)
			pick, _, err := basis.Max(survived, died)
			if err != nil {
				return nil, fmt.Errorf("tkf91: match factor %d->%d: %w", x, y, err)
			}
			g.Match[x][y] = rat(ratio).Add(px).Add(pick)
		}
	}
	return &Exact{Basis: basis, Gen: g}, nil
}
