package demand

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Forecaster projects a history forward by horizon days. Implementations
// return predicted-only points that follow the last history day.
type Forecaster interface {
	Forecast(history Series, horizon int) Series
}

// TrendForecaster scales the historical mean by a per-product trend that
// compounds linearly per day, plus small jitter. It is a display aid, not a
// statistical model.
type TrendForecaster struct{}

func (TrendForecaster) Forecast(history Series, horizon int) Series {
	out := Series{ProductID: history.ProductID, Points: make([]Point, 0, horizon)}
	if horizon <= 0 {
		return out
	}

	mean, err := stats.Mean(history.Actuals())
	if err != nil {
		mean = 0
	}

	// Offset the seed so the trend stream differs from the synthetic history.
	rng := newRand(productSeed(history.ProductID) + 1)
	trend := rng.Float64()*0.4 - 0.2

	last := history.LastDate()
	for day := 1; day <= horizon; day++ {
		jitter := rng.Float64()*4 - 2
		value := int64(math.Round(mean*(1+trend*float64(day)) + jitter))
		if value < 0 {
			value = 0
		}
		out.Points = append(out.Points, Point{
			Date:      last.AddDate(0, 0, day).Format(dateLayout),
			Predicted: &value,
		})
	}
	return out
}
