package demand

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/grocerly/storefront-api/pkg/enums"
)

const (
	recentWindow   = 7
	stockThreshold = 10.0
)

// Stats are the display labels attached to a forecast.
type Stats struct {
	Confidence string           `json:"confidence"`
	Growth     string           `json:"growth"`
	Stock      enums.StockLevel `json:"stock"`
	GrowthDesc string           `json:"growthDesc"`
}

// summarize compares the forecast mean with the mean of the last week of
// history and derives the confidence score from that week's variance.
func summarize(history, forecast Series, horizon int) Stats {
	actuals := history.Actuals()
	if len(actuals) > recentWindow {
		actuals = actuals[len(actuals)-recentWindow:]
	}

	recent, err := stats.Mean(actuals)
	if err != nil {
		recent = 0
	}
	future, err := stats.Mean(forecast.Predictions())
	if err != nil {
		future = 0
	}
	variance, err := stats.PopulationVariance(actuals)
	if err != nil {
		variance = 0
	}

	denominator := recent
	if denominator == 0 {
		denominator = 1
	}
	growth := math.Round((future-recent)/denominator*1000) / 10
	confidence := math.Max(50, math.Min(99, 100-variance*2))

	out := Stats{
		Confidence: fmt.Sprintf("%.0f%%", confidence),
		Growth:     fmt.Sprintf("%.1f%%", growth),
		Stock:      enums.StockLevelMaintain,
		GrowthDesc: "Predicted slight dip",
	}
	if growth > 0 {
		out.Growth = "+" + out.Growth
		out.GrowthDesc = fmt.Sprintf("Predicted increase next %d days", horizon)
	}
	switch {
	case growth > stockThreshold:
		out.Stock = enums.StockLevelHigh
	case growth < -stockThreshold:
		out.Stock = enums.StockLevelLow
	}
	return out
}
