package market

import (
	"fmt"
	"math"
	"time"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/rand"
)

// DefaultFluctuation is the maximum relative step of the random walk.
var DefaultFluctuation = 0.005

type Random interface {
	Float64() float64
}

var defaultRandom = NewRandom(uint64(time.Now().UnixNano()))

func NewRandom(seed uint64) *rand.Rand {
	source := new(rand.LockedSource)
	source.Seed(seed)
	return rand.New(source)
}

// Walk synthesizes a price series as a random walk starting at the base price.
// Every step is drawn relative to the previous value, so drift compounds.
type Walk struct {
	Random      Random
	Fluctuation float64
}

func (w *Walk) Synthesize(base float64, count int) (strategy.Series, error) {
	if count < 1 {
		return strategy.Series{}, errors.Wrapf(strategy.ErrValidation, "count must be positive, got %d", count)
	}

	random := w.Random
	if random == nil {
		random = defaultRandom
	}

	fluctuation := w.Fluctuation
	if fluctuation == 0 {
		fluctuation = DefaultFluctuation
	}

	series := strategy.Series{
		Labels: make([]string, count),
		Values: make([]float64, count),
	}

	for i := 0; i < count; i++ {
		series.Labels[i] = fmt.Sprintf("%d:00", i)
		if i == 0 {
			series.Values[i] = Round(base)
			continue
		}

		f := (random.Float64()*2 - 1) * fluctuation
		series.Values[i] = step(series.Values[i-1], f, fluctuation)
	}

	return series, nil
}

// step keeps the rounded value within fluctuation of prev.
func step(prev, f, fluctuation float64) float64 {
	next := prev * (1 + f)
	if value := Round(next); within(prev, value, fluctuation) {
		return value
	}

	value := decimal.NewFromFloat(next)
	if next > prev {
		value = value.RoundFloor(2)
	} else {
		value = value.RoundCeil(2)
	}

	if result := value.InexactFloat64(); within(prev, result, fluctuation) {
		return result
	}

	return prev
}

func within(prev, value, fluctuation float64) bool {
	return prev == 0 || math.Abs(value-prev)/math.Abs(prev) <= fluctuation
}

// Round rounds the value half away from zero to cents.
func Round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
