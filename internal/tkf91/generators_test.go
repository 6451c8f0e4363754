package tkf91

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tkfalign/internal/model"
)

func scenario(t *testing.T) model.Parameters {
	t.Helper()
	p, err := model.Validate(model.RawParameters{
		PA: model.NewRaw(25, 100), PC: model.NewRaw(25, 100),
		PG: model.NewRaw(25, 100), PT: model.NewRaw(25, 100),
		Lambda: model.NewRaw(1, 1), Mu: model.NewRaw(2, 1), Tau: model.NewRaw(1, 10),
	})
	require.NoError(t, err)
	return p
}

func skewed(t *testing.T) model.Parameters {
	t.Helper()
	p, err := model.Validate(model.RawParameters{
		PA: model.NewRaw(1, 10), PC: model.NewRaw(2, 10),
		PG: model.NewRaw(3, 10), PT: model.NewRaw(4, 10),
		Lambda: model.NewRaw(3, 100), Mu: model.NewRaw(7, 100), Tau: model.NewRaw(5, 2),
	})
	require.NoError(t, err)
	return p
}

func TestExact_EdgeIdentities(t *testing.T) {
	ex, err := NewExact(scenario(t))
	require.NoError(t, err)
	g := ex.Gen

	for x := 0; x < 4; x++ {
		// Opening with a deletion or an insertion costs the same as the
		// start factor times the interior column.
		assert.True(t, g.LeadDel[x].Equal(g.Start.Add(g.Del[x])), "LeadDel[%d]", x)
		assert.True(t, g.LeadIns[x].Equal(g.Start.Add(g.Ins[x])), "LeadIns[%d]", x)
		assert.True(t, g.LeadInsExt[x].Equal(g.Ins[x]), "LeadInsExt[%d]", x)
		assert.False(t, g.LeadDelExt[x].Equal(g.Del[x]), "LeadDelExt[%d]", x)
	}
	// Uniform frequencies make every residue interchangeable.
	assert.True(t, g.Match[0][0].Equal(g.Match[3][3]))
	assert.True(t, g.Match[0][1].Equal(g.Match[2][3]))
}

func TestNative_AgreesWithExact(t *testing.T) {
	for name, p := range map[string]model.Parameters{"scenario": scenario(t), "skewed": skewed(t)} {
		t.Run(name, func(t *testing.T) {
			ex, err := NewExact(p)
			require.NoError(t, err)
			want := Map(ex.Gen, ex.Basis.Float64)
			enc := Map(ex.Gen, ex.Basis.Interval)
			got := Native[float64](p)
			single := Native[float32](p)

			check := func(label string, w, g float64, s float32) {
				assert.InDelta(t, w, g, 1e-9*math.Max(1, math.Abs(w)), label)
				assert.InDelta(t, w, float64(s), 1e-3*math.Max(1, math.Abs(w)), label)
			}
			check("start", want.Start, got.Start, single.Start)
			assert.True(t, enc.Start.Contains(want.Start))
			for x := 0; x < 4; x++ {
				check("lead del", want.LeadDel[x], got.LeadDel[x], single.LeadDel[x])
				check("lead del ext", want.LeadDelExt[x], got.LeadDelExt[x], single.LeadDelExt[x])
				check("lead ins", want.LeadIns[x], got.LeadIns[x], single.LeadIns[x])
				check("del", want.Del[x], got.Del[x], single.Del[x])
				check("ins", want.Ins[x], got.Ins[x], single.Ins[x])
				for y := 0; y < 4; y++ {
					check("match", want.Match[x][y], got.Match[x][y], single.Match[x][y])
					assert.True(t, enc.Match[x][y].Contains(want.Match[x][y]))
				}
			}
		})
	}
}

func TestNative_ScenarioValues(t *testing.T) {
	g := Native[float64](scenario(t))

	// gamma0*zeta1 with beta = (1-e^-0.1)/(2-e^-0.1).
	e := math.Exp(-0.1)
	beta := (1 - e) / (2 - e)
	assert.InDelta(t, math.Log(0.5*(1-beta)), g.Start, 1e-12)
	assert.InDelta(t, math.Log(0.5*0.25*2*beta), g.Del[0], 1e-12)
	assert.InDelta(t, math.Log(0.25*beta), g.Ins[2], 1e-12)

	// Conservation beats substitution on the diagonal.
	assert.Greater(t, g.Match[1][1], g.Match[1][2])
}
