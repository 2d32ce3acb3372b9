package controllers

import (
	"net/http"

	"github.com/grocerly/storefront-api/api/responses"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
)

// CheckoutDeprecated answers the retired cart checkout route.
func CheckoutDeprecated(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "This endpoint is deprecated. Use /api/order/add"))
	}
}
