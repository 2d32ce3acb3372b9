package demand

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Point is one day of a demand series. Exactly one of Actual and Predicted is
// set.
type Point struct {
	Date      string `json:"date"`
	Actual    *int64 `json:"actual"`
	Predicted *int64 `json:"predicted"`
}

// Series is a per-day demand series for a single product.
type Series struct {
	ProductID uuid.UUID
	Points    []Point
}

// DailyTotal is the quantity ordered for one product on one UTC day.
type DailyTotal struct {
	Day      time.Time
	Quantity int64
}

// Actuals returns the observed values in order.
func (s Series) Actuals() []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Actual != nil {
			out = append(out, float64(*p.Actual))
		}
	}
	return out
}

// Predictions returns the forecast values in order.
func (s Series) Predictions() []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Predicted != nil {
			out = append(out, float64(*p.Predicted))
		}
	}
	return out
}

// LastDate is the day of the final point, or zero for an empty series.
func (s Series) LastDate() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	day, err := time.Parse(dateLayout, s.Points[len(s.Points)-1].Date)
	if err != nil {
		return time.Time{}
	}
	return day
}

// historyFromTotals folds raw totals into one actual point per distinct day,
// oldest first.
func historyFromTotals(productID uuid.UUID, totals []DailyTotal) Series {
	byDay := make(map[string]int64, len(totals))
	for _, t := range totals {
		byDay[t.Day.UTC().Format(dateLayout)] += t.Quantity
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := Series{ProductID: productID, Points: make([]Point, 0, len(days))}
	for _, day := range days {
		qty := byDay[day]
		series.Points = append(series.Points, Point{Date: day, Actual: &qty})
	}
	return series
}

// syntheticHistory produces a stand-in history ending on today. The same
// product always yields the same values.
func syntheticHistory(productID uuid.UUID, days int, today time.Time) Series {
	seed := productSeed(productID)
	rng := newRand(seed)
	base := int64(seed%20) + 10

	today = today.UTC().Truncate(24 * time.Hour)
	series := Series{ProductID: productID, Points: make([]Point, 0, days)}
	for i := days - 1; i >= 0; i-- {
		qty := base + int64(rng.IntN(10)) - 5
		if qty < 0 {
			qty = 0
		}
		series.Points = append(series.Points, Point{
			Date:   today.AddDate(0, 0, -i).Format(dateLayout),
			Actual: &qty,
		})
	}
	return series
}

func productSeed(productID uuid.UUID) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(productID[:])
	return h.Sum64()
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
