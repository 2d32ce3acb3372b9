package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a seller-owned catalog listing.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Description   string           `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	Quantity      int              `gorm:"column:quantity;not null;default:0"`
	ImageURL      string           `gorm:"column:image_url;not null;default:''"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	SubCategoryID *uuid.UUID       `gorm:"column:sub_category_id;type:uuid"`
	SellerID      uuid.UUID        `gorm:"column:seller_id;type:uuid;not null"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
