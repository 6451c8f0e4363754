package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tkfalign/internal/alignment"
	"tkfalign/internal/engine"
	"tkfalign/internal/model"
	"tkfalign/internal/precision"
)

type countingObserver struct {
	ok, failed int
}

func (c *countingObserver) Observe(string, time.Duration) { c.ok++ }
func (c *countingObserver) Failure(string)                { c.failed++ }

func request(t *testing.T, mode precision.Mode, rtol float64) Request {
	t.Helper()
	p, err := model.Validate(model.RawParameters{
		PA: model.NewRaw(25, 100), PC: model.NewRaw(25, 100),
		PG: model.NewRaw(25, 100), PT: model.NewRaw(25, 100),
		Lambda: model.NewRaw(1, 1), Mu: model.NewRaw(2, 1), Tau: model.NewRaw(1, 10),
	})
	require.NoError(t, err)
	a, err := alignment.ParseSequence("ACGTTGCA")
	require.NoError(t, err)
	b, err := alignment.ParseSequence("ACGTGCA")
	require.NoError(t, err)
	return Request{Params: p, A: a, B: b, Mode: mode, RTol: rtol}
}

func TestSample(t *testing.T) {
	obs := &countingObserver{}
	res, err := Sample(context.Background(), engine.New(engine.Config{}), request(t, precision.Double, 0), 3, obs)
	require.NoError(t, err)
	assert.Len(t, res.Elapsed, 3)
	for _, d := range res.Elapsed {
		assert.GreaterOrEqual(t, int64(d), int64(0))
	}
	assert.Equal(t, 3, obs.ok)
	assert.NotEmpty(t, res.Solution.Alignment)
}

func TestSample_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -2} {
		_, err := Sample(context.Background(), engine.New(engine.Config{}), request(t, precision.Exact, 0), n, nil)
		assert.ErrorIs(t, err, ErrInvalidSamples)
	}
}

func TestSample_FailureAbortsBatch(t *testing.T) {
	obs := &countingObserver{}
	_, err := Sample(context.Background(), engine.New(engine.Config{}), request(t, precision.Single, 1e-15), 5, obs)
	require.Error(t, err)

	var se *SampleError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Index)
	assert.ErrorIs(t, err, precision.ErrPrecisionFailure)
	assert.Equal(t, 1, obs.failed)
	assert.Equal(t, 0, obs.ok)
}
