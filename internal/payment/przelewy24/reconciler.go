package przelewy24

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"p24-gateway/internal/config"
	"p24-gateway/internal/logger"
	"p24-gateway/internal/metrics"
	"p24-gateway/internal/payment"

	"go.uber.org/zap"
)

const providerName = "PRZELEWY24"

// Notification is the signed status push sent by the processor.
type Notification struct {
	SessionID string
	OrderID   string
	Amount    string
	Currency  string
	Sign      string
}

func (n Notification) values() map[string]string {
	return map[string]string{
		"p24_session_id": n.SessionID,
		"p24_order_id":   n.OrderID,
		"p24_amount":     n.Amount,
		"p24_currency":   n.Currency,
	}
}

type Reconciler struct {
	cfg     config.Przelewy24
	client  *Client
	repo    payment.Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReconciler(cfg config.Przelewy24, client *Client, repo payment.Repository, m *metrics.Metrics) *Reconciler {
	if m == nil {
		m = metrics.Noop()
	}
	return &Reconciler{
		cfg:     cfg,
		client:  client,
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// OnPaymentStatusChange reports whether the notification was accepted. An
// authentic notification whose confirmation could not reach the processor is
// accepted with the payment left unchanged.
func (r *Reconciler) OnPaymentStatusChange(ctx context.Context, n Notification) bool {
	err := r.HandleNotification(ctx, n)
	var netErr *NetworkError
	return err == nil || errors.As(err, &netErr)
}

// HandleNotification verifies n, confirms it with the processor and updates the
// payment. It never mutates anything for a notification it cannot verify.
func (r *Reconciler) HandleNotification(ctx context.Context, n Notification) error {
	sigValid := VerifySignature(SuccessReturnSignatureFields, n.values(), r.cfg.CRC, n.Sign)

	status, err := r.handle(ctx, n, sigValid)

	outcome := notificationOutcome(status, err)
	r.metrics.Notifications.WithLabelValues(outcome).Inc()
	r.audit(ctx, n, sigValid, outcome)

	return err
}

func (r *Reconciler) handle(ctx context.Context, n Notification, sigValid bool) (payment.Status, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("session_id", n.SessionID),
		zap.String("order_id", n.OrderID),
	)

	if !sigValid {
		log.Warn("status notification has wrong signature",
			zap.String("amount", n.Amount),
			zap.String("currency", n.Currency),
		)
		return "", ErrSignatureMismatch
	}

	id, err := ParseSessionID(n.SessionID)
	if err != nil {
		log.Warn("status notification for malformed session", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUnknownPayment, err)
	}

	p, err := r.repo.GetByID(ctx, id)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		log.Warn("status notification for unknown payment", zap.Uint("payment_id", id))
		return "", fmt.Errorf("%w: id %d", ErrUnknownPayment, id)
	}
	if err != nil {
		log.Error("failed to load payment", zap.Uint("payment_id", id), zap.Error(err))
		return "", fmt.Errorf("load payment %d: %w", id, err)
	}

	if err := r.GetPaymentStatus(ctx, p, n.SessionID, n.OrderID, n.Amount); err != nil {
		return "", err
	}
	return p.Status, nil
}

// GetPaymentStatus asks the processor to confirm the transaction and records the
// result on p. The confirmation is signed with the stored amount; the paid amount
// comes from the verified notification. A *NetworkError leaves p untouched.
func (r *Reconciler) GetPaymentStatus(ctx context.Context, p *payment.Payment, sessionID, orderID, amount string) error {
	log := logger.ForPayment(ctx, p.ID, r.cfg.BackendName).With(
		zap.String("session_id", sessionID),
		zap.String("order_id", orderID),
	)

	if p.Status.Final() {
		log.Info("status notification for settled payment", zap.String("status", string(p.Status)))
	}

	params := map[string]string{
		"p24_merchant_id": r.cfg.MerchantID,
		"p24_pos_id":      r.cfg.EffectivePosID(),
		"p24_session_id":  sessionID,
		"p24_amount":      strconv.FormatInt(payment.ToMinorUnits(p.Amount), 10),
		"p24_currency":    p.Currency,
		"p24_order_id":    orderID,
	}
	params["p24_sign"] = ComputeSignature(StatusSignatureFields, params, r.cfg.CRC)

	reply, err := r.client.Post(ctx, r.client.ConfirmURL(), toValues(params))
	if err != nil {
		log.Error("error while confirming payment status, payment left unchanged", zap.Error(err))
		return err
	}
	if _, ok := reply["error"]; !ok {
		log.Error("confirmation reply without error field", zap.String("reply", reply.Encode()))
		return &DecodeError{Endpoint: r.client.ConfirmURL(), Body: reply.Encode(), Err: errors.New("missing error field")}
	}

	if reply.Get("error") == "0" {
		amountPaid, err := payment.ParseMinorUnits(amount)
		if err != nil {
			log.Warn("accepted payment has invalid amount", zap.String("amount", amount))
			return &DecodeError{Endpoint: StatusRoute, Body: amount, Err: err}
		}

		paidOn := r.now().UTC()
		p.ExternalID = orderID
		p.AmountPaid = amountPaid
		p.PaidOn = &paidOn
		if p.AmountPaid.GreaterThanOrEqual(p.Amount) {
			p.ChangeStatus(payment.StatusPaid)
		} else {
			p.ChangeStatus(payment.StatusPartiallyPaid)
		}
		log.Info("payment accepted",
			zap.String("amount_paid", p.AmountPaid.StringFixed(2)),
			zap.String("status", string(p.Status)),
		)
	} else {
		log.Warn("payment rejected", zap.String("reply", reply.Encode()))
		p.ExternalID = orderID
		p.ChangeStatus(payment.StatusFailed)
	}

	if err := r.repo.UpdatePayment(ctx, p); err != nil {
		log.Error("failed to persist payment status", zap.Error(err))
		return fmt.Errorf("persist payment %d: %w", p.ID, err)
	}
	return nil
}

func (r *Reconciler) audit(ctx context.Context, n Notification, sigValid bool, outcome string) {
	_, err := r.repo.SaveNotification(ctx, &payment.Notification{
		Provider:       providerName,
		SessionID:      n.SessionID,
		OrderID:        n.OrderID,
		Amount:         n.Amount,
		Currency:       n.Currency,
		SignatureValid: sigValid,
		Outcome:        outcome,
		ReceivedAt:     r.now().UTC(),
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to record status notification",
			zap.String("session_id", n.SessionID),
			zap.Error(err),
		)
	}
}

func notificationOutcome(status payment.Status, err error) string {
	var (
		netErr *NetworkError
		decErr *DecodeError
	)
	switch {
	case err == nil:
		return string(status)
	case errors.Is(err, ErrSignatureMismatch):
		return "bad_signature"
	case errors.Is(err, ErrUnknownPayment):
		return "unknown_payment"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &decErr):
		return "decode_error"
	}
	return "error"
}
