package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew           Status = "new"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusFailed        Status = "failed"
)

// Final reports whether the processor already settled a payment in status s.
func (s Status) Final() bool {
	switch s {
	case StatusPaid, StatusPartiallyPaid, StatusFailed:
		return true
	}
	return false
}

type Payment struct {
	ID          uint
	OrderID     uint
	Amount      decimal.Decimal
	Currency    string
	Status      Status
	AmountPaid  decimal.Decimal
	PaidOn      *time.Time
	ExternalID  string
	Backend     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChangeStatus sets the status in memory; persisting it is the store's job.
func (p *Payment) ChangeStatus(s Status) {
	p.Status = s
}

// Notification is one audited status push received from a processor.
type Notification struct {
	Provider       string
	SessionID      string
	OrderID        string
	Amount         string
	Currency       string
	SignatureValid bool
	Outcome        string
	ReceivedAt     time.Time
}
