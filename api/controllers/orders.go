package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly/storefront-api/api/responses"
	"github.com/grocerly/storefront-api/api/validators"
	"github.com/grocerly/storefront-api/internal/orders"
	"github.com/grocerly/storefront-api/pkg/logger"
)

type orderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	Items      []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	AddressID  uuid.UUID          `json:"address_id" validate:"required"`
}

type placeOrderResponse struct {
	Message string `json:"message"`
	orders.PlaceResult
}

func (p placeOrderRequest) toInput() orders.PlaceInput {
	items := make([]orders.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, orders.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return orders.PlaceInput{
		Items:      items,
		TotalPrice: p.TotalPrice,
		AddressID:  p.AddressID,
	}
}

func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Place(r.Context(), actor, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placeOrderResponse{
			Message:     "Order placed successfully",
			PlaceResult: *result,
		})
	}
}

// OrderDetail serves both /order/{id} and /order-confirmation/{id}.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Detail(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func OrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.History(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
