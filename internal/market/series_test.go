package market_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/axenvault/axenbot/internal/market"
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constRandom float64

func (r constRandom) Float64() float64 {
	return float64(r)
}

func TestWalk_Length(t *testing.T) {
	walk := &market.Walk{Random: market.NewRandom(42)}
	for _, count := range []int{1, 2, 10, 100} {
		series, err := walk.Synthesize(7.127, count)
		require.NoError(t, err)
		assert.Len(t, series.Values, count)
		assert.Len(t, series.Labels, count)
		assert.Equal(t, 7.13, series.Values[0])
		assert.Equal(t, "0:00", series.Labels[0])
		assert.Equal(t, fmt.Sprintf("%d:00", count-1), series.Labels[count-1])
	}
}

func TestWalk_FluctuationBound(t *testing.T) {
	for _, base := range []float64{1.5, 3.01, 4.27, 1234.56} {
		for seed := uint64(1); seed <= 20; seed++ {
			walk := &market.Walk{Random: market.NewRandom(seed)}
			series, err := walk.Synthesize(base, 200)
			require.NoError(t, err)
			for i := 1; i < series.Len(); i++ {
				prev := series.Values[i-1]
				assert.LessOrEqual(t, math.Abs(series.Values[i]-prev)/prev, market.DefaultFluctuation,
					"base %v seed %d step %d", base, seed, i)
			}
		}
	}
}

func TestWalk_RoundsTowardPrevious(t *testing.T) {
	series, err := (&market.Walk{Random: constRandom(0.9999)}).Synthesize(1.5, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.5}, series.Values)

	series, err = (&market.Walk{Random: constRandom(0)}).Synthesize(1.5, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.5}, series.Values)

	series, err = (&market.Walk{Random: constRandom(1)}).Synthesize(3.01, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.01, 3.02}, series.Values)
}

func TestWalk_Compounds(t *testing.T) {
	walk := &market.Walk{Random: constRandom(0.75)}
	series, err := walk.Synthesize(100, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100.25, 100.5, 100.75}, series.Values)
	assert.Equal(t, []string{"0:00", "1:00", "2:00", "3:00"}, series.Labels)

	walk = &market.Walk{Random: constRandom(0)}
	series, err = walk.Synthesize(100, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 99.5, 99.01}, series.Values)
}

func TestWalk_Reproducible(t *testing.T) {
	first, err := (&market.Walk{Random: market.NewRandom(1)}).Synthesize(5.5, 20)
	require.NoError(t, err)
	second, err := (&market.Walk{Random: market.NewRandom(1)}).Synthesize(5.5, 20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWalk_InvalidCount(t *testing.T) {
	_, err := (&market.Walk{}).Synthesize(1, 0)
	assert.True(t, errors.Is(err, strategy.ErrValidation))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.01, market.Round(1.005))
	assert.Equal(t, 2.35, market.Round(2.345))
	assert.Equal(t, -2.35, market.Round(-2.345))
	assert.Equal(t, 3.0, market.Round(3))
}
