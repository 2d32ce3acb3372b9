package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly/storefront-api/pkg/db/models"
	"github.com/grocerly/storefront-api/pkg/pagination"
	"github.com/grocerly/storefront-api/pkg/types"
)

// ProductFilter captures the public product search parameters.
type ProductFilter struct {
	Search        string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	SortBy        string
	SortOrder     string
	Page          pagination.Params
}

// ProductDTO is the public representation of a product.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int              `json:"quantity"`
	ImageURL      string           `json:"image_url"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	SubCategoryID *uuid.UUID       `json:"sub_category_id"`
	SellerID      uuid.UUID        `json:"seller_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductPage is one page of search results.
type ProductPage struct {
	pagination.Meta
	Products []ProductDTO `json:"products"`
}

// CreateProductInput is the payload for new listings.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Quantity      int
	ImageURL      string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
}

// UpdateProductInput carries partial updates; nil fields are left unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Quantity      *int
	ImageURL      *string
	CategoryID    types.NullableUUID
	SubCategoryID types.NullableUUID
}

// CategoryDTO is the public representation of a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryInput is the payload for category writes.
type CategoryInput struct {
	Name     string
	ImageURL *string
}

// SubcategoryDTO keeps the storefront's subcategory_* field names.
type SubcategoryDTO struct {
	ID           uuid.UUID `json:"subcategory_id"`
	Name         string    `json:"subcategory_name"`
	ImageURL     string    `json:"image_url"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName *string   `json:"category_name,omitempty"`
}

// SubcategoryInput is the payload for subcategory writes.
type SubcategoryInput struct {
	Name       string
	CategoryID uuid.UUID
	ImageURL   *string
}

func productFromModel(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      p.Quantity,
		ImageURL:      p.ImageURL,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		SellerID:      p.SellerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func productsFromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for _, item := range items {
		out = append(out, productFromModel(item))
	}
	return out
}

func categoryFromModel(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
	}
}

func subcategoryFromModel(s models.Subcategory, categoryName *string) SubcategoryDTO {
	return SubcategoryDTO{
		ID:           s.ID,
		Name:         s.Name,
		ImageURL:     s.ImageURL,
		CategoryID:   s.CategoryID,
		CategoryName: categoryName,
	}
}
