package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	IncrementQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (bool, error)
	InsertLine(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error)
	ListLines(ctx context.Context, userID uuid.UUID) ([]LineRow, error)
	DeleteLine(ctx context.Context, userID, productID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}
