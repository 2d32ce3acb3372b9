package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order header and its items.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.newestFirst(ctx).Where("user_id = ?", userID).Find(&orders).Error
	return orders, err
}

func (r *repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.newestFirst(ctx).Find(&orders).Error
	return orders, err
}

// ListContainingSellerProducts returns whole orders holding at least one of the seller's products.
func (r *repository) ListContainingSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.newestFirst(ctx).
		Where("id IN (?)", r.sellerOrderIDs(ctx, sellerID)).
		Find(&orders).Error
	return orders, err
}

func (r *repository) SellerHasItem(ctx context.Context, orderID, sellerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN products AS p ON p.id = oi.product_id").
		Where("oi.order_id = ? AND p.seller_id = ?", orderID, sellerID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) sellerOrderIDs(ctx context.Context, sellerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("DISTINCT oi.order_id").
		Joins("JOIN products AS p ON p.id = oi.product_id").
		Where("p.seller_id = ?", sellerID)
}

func (r *repository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Order("order_number DESC")
}
