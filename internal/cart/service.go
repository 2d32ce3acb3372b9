package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly/storefront-api/pkg/db"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
)

// LineDTO is one cart line as returned to the shopper. Price is the current
// catalog price, not a snapshot.
type LineDTO struct {
	CartID      uuid.UUID       `json:"cart_id"`
	ProductID   uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Service exposes cart persistence operations.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (created bool, err error)
	List(ctx context.Context, userID uuid.UUID) ([]LineDTO, error)
	Update(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

// Add increments an existing (user, product) line or creates it, reporting
// whether a new line was inserted.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	if productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if quantity < 1 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !exists {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product not found")
	}

	updated, err := s.repo.IncrementQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	if updated {
		return false, nil
	}

	if err := s.repo.InsertLine(ctx, userID, productID, quantity); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert cart line")
		}
		// A concurrent add created the line first; fold into it.
		if _, err := s.repo.IncrementQuantity(ctx, userID, productID, quantity); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
		}
		return false, nil
	}
	return true, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]LineDTO, error) {
	rows, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	lines := make([]LineDTO, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, LineDTO{
			CartID:      row.CartID,
			ProductID:   row.ProductID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			ImageURL:    row.ImageURL,
			SellerID:    row.SellerID,
			Stock:       row.Stock,
			Quantity:    row.Quantity,
			LineTotal:   row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))),
		})
	}
	return lines, nil
}

// Update sets the quantity of an existing line. Quantities below one are
// rejected; removal goes through Remove.
func (s *service) Update(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	updated, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.DeleteLine(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}
