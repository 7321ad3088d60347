package transport

import (
	"context"
	"errors"
	"net/http"

	"p24-gateway/internal/logger"
	"p24-gateway/internal/payment"
	"p24-gateway/internal/payment/przelewy24"
	"p24-gateway/internal/utils"

	"go.uber.org/zap"
)

type TransactionRegistrar interface {
	RegisterTransaction(ctx context.Context, p *payment.Payment) (*przelewy24.Redirect, error)
}

type PaymentLookup interface {
	GetByID(ctx context.Context, id uint) (*payment.Payment, error)
}

type PaymentHandler struct {
	Payments  PaymentLookup
	Registrar TransactionRegistrar
}

func NewPaymentHandler(payments PaymentLookup, registrar TransactionRegistrar) *PaymentHandler {
	return &PaymentHandler{
		Payments:  payments,
		Registrar: registrar,
	}
}

// Register starts a przelewy24 transaction for the payment in the path and
// answers with the redirect the shop front must follow.
func (h *PaymentHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid payment id", http.StatusBadRequest)
		return
	}

	p, err := h.Payments.GetByID(ctx, id)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		utils.WriteJSONError(w, "payment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to load payment", zap.Uint("payment_id", id), zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	redirect, err := h.Registrar.RegisterTransaction(ctx, p)
	if err != nil {
		status, msg := registrationErrorStatus(err)
		log.Warn("transaction registration failed",
			zap.Uint("payment_id", id),
			zap.Int("status", status),
			zap.Error(err),
		)
		utils.WriteJSONError(w, msg, status)
		return
	}

	utils.WriteJSON(w, redirect, http.StatusOK)
}

func registrationErrorStatus(err error) (int, string) {
	var (
		cfgErr *przelewy24.ConfigurationError
		gwErr  *przelewy24.GatewayError
		netErr *przelewy24.NetworkError
		decErr *przelewy24.DecodeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity, cfgErr.Reason
	case errors.As(err, &gwErr):
		return http.StatusBadGateway, "processor rejected the transaction: " + gwErr.Code
	case errors.As(err, &netErr), errors.As(err, &decErr):
		return http.StatusBadGateway, "processor unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}
