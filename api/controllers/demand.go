package controllers

import (
	"net/http"

	"github.com/grocerly/storefront-api/api/responses"
	"github.com/grocerly/storefront-api/api/validators"
	"github.com/grocerly/storefront-api/internal/demand"
	"github.com/grocerly/storefront-api/pkg/config"
	"github.com/grocerly/storefront-api/pkg/logger"
)

// DemandForecast reads an optional ?days= horizon.
func DemandForecast(svc demand.Service, cfg config.DemandConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days, err := validators.ParseQueryInt(r, "days", cfg.DefaultHorizon, 1, cfg.MaxHorizon)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Forecast(r.Context(), productID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
