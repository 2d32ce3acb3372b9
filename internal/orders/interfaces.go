package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/db/models"
)

// Repository defines the persistence surface required by the order service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListContainingSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	SellerHasItem(ctx context.Context, orderID, sellerID uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressLookup interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Address, error)
}

type productLookup interface {
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// placementRecorder is satisfied by *metrics.OrderMetrics.
type placementRecorder interface {
	IncPlaced(total decimal.Decimal)
	IncRejected(code string)
}
