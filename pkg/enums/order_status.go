package enums

// OrderStatus is free text in storage; these are the values the API writes.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}
