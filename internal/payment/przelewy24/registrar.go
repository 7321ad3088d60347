package przelewy24

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"p24-gateway/internal/config"
	"p24-gateway/internal/logger"
	"p24-gateway/internal/metrics"
	"p24-gateway/internal/payment"

	"go.uber.org/zap"
)

const (
	apiVersion     = "3.2"
	defaultCountry = "PL"
)

var (
	acceptedLangs      = []string{"pl", "en", "es", "de", "it"}
	acceptedCurrencies = []string{"PLN", "EUR", "GBP", "CZK"}
)

// UserData is filled by the order side before registration. Nil fields are
// left out of the request.
type UserData struct {
	Email   *string
	Lang    *string
	Client  *string
	Address *string
	Zip     *string
	City    *string
	Country *string
	Phone   *string
}

type UserDataQuery interface {
	QueryUserData(ctx context.Context, orderID uint, data *UserData) error
}

type OrderDescriber interface {
	OrderDescription(ctx context.Context, p *payment.Payment) (string, error)
}

// Redirect tells the caller where to send the customer.
type Redirect struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

type Registrar struct {
	cfg     config.Przelewy24
	domain  string
	client  *Client
	users   UserDataQuery
	orders  OrderDescriber
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRegistrar(
	cfg config.Przelewy24,
	domain string,
	client *Client,
	users UserDataQuery,
	orders OrderDescriber,
	m *metrics.Metrics,
) *Registrar {
	if m == nil {
		m = metrics.Noop()
	}
	return &Registrar{
		cfg:     cfg,
		domain:  domain,
		client:  client,
		users:   users,
		orders:  orders,
		metrics: m,
		now:     time.Now,
	}
}

// RegisterTransaction registers p with the processor and returns the hosted
// payment page the customer must be redirected to.
func (r *Registrar) RegisterTransaction(ctx context.Context, p *payment.Payment) (*Redirect, error) {
	redirect, err := r.register(ctx, p)
	r.metrics.Registrations.WithLabelValues(registrationResult(err)).Inc()
	return redirect, err
}

func (r *Registrar) register(ctx context.Context, p *payment.Payment) (*Redirect, error) {
	log := logger.ForPayment(ctx, p.ID, r.cfg.BackendName)

	if !slices.Contains(acceptedCurrencies, strings.ToUpper(p.Currency)) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("currency %q is not accepted", p.Currency)}
	}

	params, err := r.buildParams(ctx, p)
	if err != nil {
		return nil, err
	}

	reply, err := r.client.Post(ctx, r.client.RegisterURL(), toValues(params))
	if err != nil {
		return nil, err
	}

	if _, ok := reply["error"]; !ok {
		return nil, &DecodeError{Endpoint: r.client.RegisterURL(), Body: reply.Encode(), Err: errors.New("missing error field")}
	}
	if code := reply.Get("error"); code != "0" {
		log.Warn("transaction registration rejected", zap.String("error", code), zap.String("reply", reply.Encode()))
		return nil, &GatewayError{Code: code, Response: reply}
	}

	token := reply.Get("token")
	if token == "" {
		return nil, &DecodeError{Endpoint: r.client.RegisterURL(), Body: reply.Encode(), Err: errors.New("missing token")}
	}

	log.Info("transaction registered", zap.String("session_id", params["p24_session_id"]))

	return &Redirect{
		URL:    r.client.GatewayURL() + token,
		Method: http.MethodGet,
		Params: map[string]string{},
	}, nil
}

func (r *Registrar) buildParams(ctx context.Context, p *payment.Payment) (map[string]string, error) {
	description, err := r.orders.OrderDescription(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("order description for payment %d: %w", p.ID, err)
	}

	params := map[string]string{
		"p24_merchant_id": r.cfg.MerchantID,
		"p24_pos_id":      r.cfg.EffectivePosID(),
		"p24_description": description,
		"p24_session_id":  NewSessionID(p.ID, r.cfg.BackendName, r.now()),
		"p24_amount":      strconv.FormatInt(payment.ToMinorUnits(p.Amount), 10),
		"p24_currency":    p.Currency,
		"p24_encoding":    "UTF-8",
	}

	data := UserData{Country: strPtr(defaultCountry)}
	if err := r.users.QueryUserData(ctx, p.OrderID, &data); err != nil {
		return nil, fmt.Errorf("user data for order %d: %w", p.OrderID, err)
	}

	optional := []struct {
		key   string
		value *string
	}{
		{"p24_client", data.Client},
		{"p24_address", data.Address},
		{"p24_zip", data.Zip},
		{"p24_city", data.City},
		{"p24_country", data.Country},
		{"p24_phone", data.Phone},
	}
	for _, f := range optional {
		if f.value != nil {
			params[f.key] = *f.value
		}
	}

	if data.Email == nil || *data.Email == "" {
		return nil, &ConfigurationError{Reason: "email is required for payment registration (user data query must provide it)"}
	}
	params["p24_email"] = *data.Email

	if lang, ok := r.language(data.Lang); ok {
		params["p24_language"] = lang
	}

	params["p24_sign"] = ComputeSignature(RequestSignatureFields, params, r.cfg.CRC)
	params["p24_api_version"] = apiVersion
	params["p24_url_return"] = absoluteURL(r.cfg.SSLReturn, r.domain, ReturnPath(p.ID))
	params["p24_url_status"] = absoluteURL(r.cfg.SSLReturn, r.domain, StatusRoute)

	return params, nil
}

// language prefers the customer's language, then the configured default.
func (r *Registrar) language(userLang *string) (string, bool) {
	if userLang != nil {
		if l := strings.ToLower(*userLang); slices.Contains(acceptedLangs, l) {
			return l, true
		}
	}
	if l := strings.ToLower(r.cfg.Lang); l != "" && slices.Contains(acceptedLangs, l) {
		return l, true
	}
	return "", false
}

func registrationResult(err error) string {
	var (
		cfgErr *ConfigurationError
		gwErr  *GatewayError
		netErr *NetworkError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &gwErr):
		return "gateway_error"
	case errors.As(err, &netErr):
		return "network_error"
	}
	return "error"
}

func toValues(params map[string]string) url.Values {
	v := make(url.Values, len(params))
	for k, val := range params {
		v.Set(k, val)
	}
	return v
}

func strPtr(s string) *string { return &s }
