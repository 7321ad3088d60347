package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusAccepted OrderStatus = "ACCEPTED"
	StatusRejected OrderStatus = "REJECTED"
	StatusCanceled OrderStatus = "CANCELED"
)

type Order struct {
	ID          uint
	UserID      uint
	Total       decimal.Decimal
	Currency    string
	Status      OrderStatus
	Description string
	CreatedAt   time.Time
}

// Customer is the buyer and shipping data attached to an order. Nullable
// columns stay nil when the shop never collected them.
type Customer struct {
	Email    *string
	FullName *string
	Language *string
	Street   *string
	Postcode *string
	City     *string
	Country  *string
	Phone    *string
}
