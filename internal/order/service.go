package order

import (
	"context"
	"fmt"

	"p24-gateway/internal/logger"
	"p24-gateway/internal/payment"
	"p24-gateway/internal/payment/przelewy24"

	"go.uber.org/zap"
)

const maxDescriptionRunes = 1024

// Service answers the questions a payment backend asks about an order.
type Service interface {
	QueryUserData(ctx context.Context, orderID uint, data *przelewy24.UserData) error
	OrderDescription(ctx context.Context, p *payment.Payment) (string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// QueryUserData overwrites only the fields the shop knows, so defaults set by
// the caller survive.
func (s *service) QueryUserData(ctx context.Context, orderID uint, data *przelewy24.UserData) error {
	c, err := s.repo.GetCustomer(ctx, orderID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load customer for order",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
		return err
	}

	set := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	set(&data.Email, c.Email)
	set(&data.Lang, c.Language)
	set(&data.Client, c.FullName)
	set(&data.Address, c.Street)
	set(&data.Zip, c.Postcode)
	set(&data.City, c.City)
	set(&data.Country, c.Country)
	set(&data.Phone, c.Phone)
	return nil
}

func (s *service) OrderDescription(ctx context.Context, p *payment.Payment) (string, error) {
	if p.Description != "" {
		return truncate(p.Description), nil
	}

	o, err := s.repo.GetByID(ctx, p.OrderID)
	if err != nil {
		return "", err
	}
	if o.Description != "" {
		return truncate(o.Description), nil
	}
	return fmt.Sprintf("Order #%d", o.ID), nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDescriptionRunes {
		return s
	}
	return string(r[:maxDescriptionRunes])
}
