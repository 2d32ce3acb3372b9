package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly/storefront-api/api/responses"
	"github.com/grocerly/storefront-api/api/validators"
	"github.com/grocerly/storefront-api/internal/catalog"
	"github.com/grocerly/storefront-api/pkg/logger"
	"github.com/grocerly/storefront-api/pkg/pagination"
	"github.com/grocerly/storefront-api/pkg/types"
)

const maxSearchLength = 100

type productCreateRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Quantity      int              `json:"quantity"`
	ImageURL      string           `json:"image_url"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	SubCategoryID *uuid.UUID       `json:"sub_category_id"`
}

type productUpdateRequest struct {
	Name          *string            `json:"name"`
	Description   *string            `json:"description"`
	Price         *decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal   `json:"original_price"`
	Quantity      *int               `json:"quantity"`
	ImageURL      *string            `json:"image_url"`
	CategoryID    types.NullableUUID `json:"category_id"`
	SubCategoryID types.NullableUUID `json:"sub_category_id"`
}

type productWriteResponse struct {
	Message   string             `json:"message"`
	ProductID uuid.UUID          `json:"productId"`
	Product   catalog.ProductDTO `json:"product"`
}

type productListResponse struct {
	Total    int                  `json:"total"`
	Products []catalog.ProductDTO `json:"products"`
}

type sellerProductsResponse struct {
	SellerID uuid.UUID            `json:"sellerId"`
	Products []catalog.ProductDTO `json:"products"`
}

// ProductSearch is the public, paginated product listing.
func ProductSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseProductFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parseProductFilter(r *http.Request) (catalog.ProductFilter, error) {
	var filter catalog.ProductFilter
	var err error

	filter.Search = validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength)
	if filter.CategoryID, err = validators.ParseQueryUUID(r, "category"); err != nil {
		return filter, err
	}
	if filter.SubCategoryID, err = validators.ParseQueryUUID(r, "subcategory"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = validators.ParseQueryDecimal(r, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = validators.ParseQueryDecimal(r, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.SortBy, err = validators.ParseQueryEnum(r, "sortBy", "id", "id", "price", "name", "created_at"); err != nil {
		return filter, err
	}
	if filter.SortOrder, err = validators.ParseQueryEnum(r, "sortOrder", "desc", "asc", "desc"); err != nil {
		return filter, err
	}
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
	if err != nil {
		return filter, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filter, err
	}
	filter.Page = pagination.Params{Page: page, Limit: limit}
	return filter, nil
}

func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductListAll(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAllProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{Total: len(products), Products: products})
	}
}

func ProductListMine(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListSellerProducts(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sellerProductsResponse{SellerID: actor.UserID, Products: products})
	}
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateProduct(r.Context(), actor, catalog.CreateProductInput{
			Name:          strings.TrimSpace(payload.Name),
			Description:   payload.Description,
			Price:         payload.Price,
			OriginalPrice: payload.OriginalPrice,
			Quantity:      payload.Quantity,
			ImageURL:      strings.TrimSpace(payload.ImageURL),
			CategoryID:    payload.CategoryID,
			SubCategoryID: payload.SubCategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, productWriteResponse{
			Message:   "Product added successfully",
			ProductID: created.ID,
			Product:   *created,
		})
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateProduct(r.Context(), actor, id, catalog.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Price:         payload.Price,
			OriginalPrice: payload.OriginalPrice,
			Quantity:      payload.Quantity,
			ImageURL:      payload.ImageURL,
			CategoryID:    payload.CategoryID,
			SubCategoryID: payload.SubCategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productWriteResponse{
			Message:   "Product updated successfully",
			ProductID: updated.ID,
			Product:   *updated,
		})
	}
}

func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product deleted successfully")
	}
}
