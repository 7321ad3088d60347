package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"p24-gateway/internal/logger"
	"p24-gateway/internal/payment"
	"p24-gateway/internal/payment/przelewy24"
	"p24-gateway/internal/utils"

	"go.uber.org/zap"
)

// Plain-text bodies the processor expects from the status endpoint.
const (
	replyOK        = "OK"
	replyError     = "ERR"
	replyMalformed = "MALFORMED"
)

var statusFields = []string{
	"p24_session_id",
	"p24_order_id",
	"p24_amount",
	"p24_currency",
	"p24_sign",
}

type StatusReconciler interface {
	OnPaymentStatusChange(ctx context.Context, n przelewy24.Notification) bool
}

type PaymentLookup interface {
	GetByID(ctx context.Context, id uint) (*payment.Payment, error)
}

// Handler serves the two callbacks of a przelewy24 backend: the server-to-server
// status push and the browser return.
type Handler struct {
	Reconciler StatusReconciler
	Payments   PaymentLookup
	SuccessURL string
}

func NewWebhookHandler(reconciler StatusReconciler, payments PaymentLookup, successURL string) *Handler {
	return &Handler{
		Reconciler: reconciler,
		Payments:   payments,
		SuccessURL: successURL,
	}
}

// StatusHandler accepts the processor's status push.
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		log.Warn("cannot parse status notification", zap.Error(err))
		writePlain(w, http.StatusBadRequest, replyMalformed)
		return
	}

	for _, key := range statusFields {
		if _, ok := r.PostForm[key]; !ok {
			log.Warn("status notification missing field", zap.String("field", key))
			writePlain(w, http.StatusBadRequest, replyMalformed)
			return
		}
	}

	n := przelewy24.Notification{
		SessionID: r.PostForm.Get("p24_session_id"),
		OrderID:   r.PostForm.Get("p24_order_id"),
		Amount:    r.PostForm.Get("p24_amount"),
		Currency:  r.PostForm.Get("p24_currency"),
		Sign:      r.PostForm.Get("p24_sign"),
	}

	if !h.Reconciler.OnPaymentStatusChange(r.Context(), n) {
		writePlain(w, http.StatusBadRequest, replyError)
		return
	}
	writePlain(w, http.StatusOK, replyOK)
}

// ReturnHandler sends the customer back to the shop after the hosted page.
func (h *Handler) ReturnHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("pk"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	p, err := h.Payments.GetByID(r.Context(), id)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to load payment for return", zap.Uint("payment_id", id), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	target := strings.ReplaceAll(h.SuccessURL, "{pk}", fmt.Sprint(p.ID))
	http.Redirect(w, r, target, http.StatusFound)
}

func writePlain(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprint(w, body)
}
