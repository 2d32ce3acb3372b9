package demand

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/config"
	"github.com/grocerly/storefront-api/pkg/db/models"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
)

const (
	SourceHistory   = "history"
	SourceSynthetic = "synthetic"
)

// Report is the forecast payload for one product.
type Report struct {
	Product string  `json:"product"`
	Data    []Point `json:"data"`
	Stats   Stats   `json:"stats"`
}

// Service estimates demand for a product.
type Service interface {
	Forecast(ctx context.Context, productID uuid.UUID, horizon int) (*Report, error)
}

type productLookup interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// forecastRecorder is satisfied by *metrics.OrderMetrics.
type forecastRecorder interface {
	IncForecast(source string)
}

type nopRecorder struct{}

func (nopRecorder) IncForecast(string) {}

// Deps groups the collaborators of the demand service.
type Deps struct {
	History    HistoryLoader
	Products   productLookup
	Forecaster Forecaster
	Config     config.DemandConfig
	Metrics    forecastRecorder
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	history    HistoryLoader
	products   productLookup
	forecaster Forecaster
	cfg        config.DemandConfig
	metrics    forecastRecorder
	logg       *logger.Logger
	now        func() time.Time
}

// NewService validates deps and fills defaults for the forecaster, clock and window sizes.
func NewService(deps Deps) (Service, error) {
	if deps.History == nil {
		return nil, fmt.Errorf("history loader required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if deps.Forecaster == nil {
		deps.Forecaster = TrendForecaster{}
	}
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	cfg := deps.Config
	if cfg.MinHistoryDays <= 0 {
		cfg.MinHistoryDays = 14
	}
	if cfg.SyntheticDays <= 0 {
		cfg.SyntheticDays = 30
	}
	if cfg.DefaultHorizon <= 0 {
		cfg.DefaultHorizon = 7
	}
	if cfg.MaxHorizon < cfg.DefaultHorizon {
		cfg.MaxHorizon = 30
	}
	return &service{
		history:    deps.History,
		products:   deps.Products,
		forecaster: deps.Forecaster,
		cfg:        cfg,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
		now:        deps.Now,
	}, nil
}

// Forecast returns the history followed by horizon predicted days. A zero
// horizon selects the configured default.
func (s *service) Forecast(ctx context.Context, productID uuid.UUID, horizon int) (*Report, error) {
	if horizon == 0 {
		horizon = s.cfg.DefaultHorizon
	}
	if horizon < 1 || horizon > s.cfg.MaxHorizon {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("days must be between 1 and %d", s.cfg.MaxHorizon))
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	totals, err := s.history.DailyTotals(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order history")
	}

	history := historyFromTotals(productID, totals)
	source := SourceHistory
	if len(history.Points) < s.cfg.MinHistoryDays {
		history = syntheticHistory(productID, s.cfg.SyntheticDays, s.now())
		source = SourceSynthetic
	}
	s.metrics.IncForecast(source)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"product_id": productID.String(),
		"source":     source,
		"days":       len(history.Points),
	}), "demand history loaded")

	forecast := s.forecaster.Forecast(history, horizon)

	data := make([]Point, 0, len(history.Points)+len(forecast.Points))
	data = append(data, history.Points...)
	data = append(data, forecast.Points...)

	return &Report{
		Product: product.Name,
		Data:    data,
		Stats:   summarize(history, forecast, horizon),
	}, nil
}
