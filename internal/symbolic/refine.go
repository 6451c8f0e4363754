package symbolic

import (
	"fmt"
	"math/big"
	"sort"
)

var one = big.NewInt(1)

// Refine returns a coprime basis for the given positive integers: a set of
// pairwise coprime integers > 1 such that every input is a product of
// powers of basis elements. No factoring is performed; the basis is built
// by repeated gcd splitting.
func Refine(ns []*big.Int) []*big.Int {
	var work []*big.Int
	for _, n := range ns {
		if n.Cmp(one) > 0 {
			work = append(work, new(big.Int).Set(n))
		}
	}

	for {
		work = dedupe(work)
		i, j, g := splittable(work)
		if g == nil {
			break
		}
		a, b := work[i], work[j]
		next := make([]*big.Int, 0, len(work)+1)
		for k, n := range work {
			if k != i && k != j {
				next = append(next, n)
			}
		}
		next = append(next, g)
		if q := new(big.Int).Quo(a, g); q.Cmp(one) > 0 {
			next = append(next, q)
		}
		if q := new(big.Int).Quo(b, g); q.Cmp(one) > 0 {
			next = append(next, q)
		}
		work = next
	}

	sort.Slice(work, func(i, j int) bool { return work[i].Cmp(work[j]) < 0 })
	return work
}

// splittable finds two distinct entries sharing a factor.
func splittable(ns []*big.Int) (int, int, *big.Int) {
	g := new(big.Int)
	for i := range ns {
		for j := i + 1; j < len(ns); j++ {
			if g.GCD(nil, nil, ns[i], ns[j]).Cmp(one) > 0 {
				return i, j, g
			}
		}
	}
	return 0, 0, nil
}

func dedupe(ns []*big.Int) []*big.Int {
	sort.Slice(ns, func(i, j int) bool { return ns[i].Cmp(ns[j]) < 0 })
	var out []*big.Int
	for _, n := range ns {
		if len(out) == 0 || n.Cmp(out[len(out)-1]) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// Factor writes n > 0 as exponents over a coprime basis produced by Refine.
func Factor(n *big.Int, basis []*big.Int) ([]int64, error) {
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("symbolic: cannot factor non-positive %s", n)
	}
	rest := new(big.Int).Set(n)
	exps := make([]int64, len(basis))
	q, r := new(big.Int), new(big.Int)
	for k, b := range basis {
		for {
			q.QuoRem(rest, b, r)
			if r.Sign() != 0 {
				break
			}
			rest.Set(q)
			exps[k]++
		}
	}
	if rest.Cmp(one) != 0 {
		return nil, fmt.Errorf("symbolic: %s does not factor over the basis (left %s)", n, rest)
	}
	return exps, nil
}
