package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly/storefront-api/internal/address"
	"github.com/grocerly/storefront-api/pkg/db/models"
	"github.com/grocerly/storefront-api/pkg/enums"
)

const unknownProductName = "Unknown Product"

// ItemInput is one submitted line item. Price is taken as submitted.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// PlaceInput is the checkout payload.
type PlaceInput struct {
	Items      []ItemInput
	TotalPrice decimal.Decimal
	AddressID  uuid.UUID
}

// PlaceResult identifies a newly written order.
type PlaceResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
}

// OrderHeader is the order block of a confirmation.
type OrderHeader struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber int64             `json:"order_number"`
	CreatedAt   time.Time         `json:"created_at"`
	Total       decimal.Decimal   `json:"total"`
	Status      enums.OrderStatus `json:"status"`
	Address     *address.DTO      `json:"address"`
}

// DetailItem is a line item resolved against the live catalog for display.
type DetailItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

// Detail is the order confirmation view.
type Detail struct {
	Order OrderHeader  `json:"order"`
	Items []DetailItem `json:"items"`
}

// HistoryItem is a stored line item.
type HistoryItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Summary is one entry in an order history listing.
type Summary struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber int64             `json:"order_number"`
	UserID      uuid.UUID         `json:"user_id"`
	Total       decimal.Decimal   `json:"total"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Address     *address.DTO      `json:"address"`
	Items       []HistoryItem     `json:"items"`
}

func summaryFromModel(o models.Order, addr *address.DTO) Summary {
	items := make([]HistoryItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, HistoryItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return Summary{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Total:       o.Total,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Address:     addr,
		Items:       items,
	}
}
