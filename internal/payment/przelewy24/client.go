package przelewy24

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"p24-gateway/internal/logger"
	"p24-gateway/internal/metrics"

	"go.uber.org/zap"
)

const (
	registerURL        = "https://secure.przelewy24.pl/trnRegister"
	sandboxRegisterURL = "https://sandbox.przelewy24.pl/trnRegister"

	gatewayURL        = "https://secure.przelewy24.pl/trnRequest/"
	sandboxGatewayURL = "https://sandbox.przelewy24.pl/trnRequest/"

	confirmURL        = "https://secure.przelewy24.pl/trnVerify"
	sandboxConfirmURL = "https://sandbox.przelewy24.pl/trnVerify"

	defaultTimeout = 15 * time.Second
	maxReplyBytes  = 64 << 10
)

// Client talks form-urlencoded HTTP to the processor's sandbox or production hosts.
type Client struct {
	httpClient *http.Client
	sandbox    bool
	metrics    *metrics.Metrics
}

func NewClient(sandbox bool, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		sandbox:    sandbox,
		metrics:    m,
	}
}

func (c *Client) RegisterURL() string {
	if c.sandbox {
		return sandboxRegisterURL
	}
	return registerURL
}

func (c *Client) ConfirmURL() string {
	if c.sandbox {
		return sandboxConfirmURL
	}
	return confirmURL
}

// GatewayURL is the hosted page base; the registration token is appended to it.
func (c *Client) GatewayURL() string {
	if c.sandbox {
		return sandboxGatewayURL
	}
	return gatewayURL
}

// Post sends params as a UTF-8 form and decodes the form-encoded reply.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values) (url.Values, error) {
	name := path.Base(endpoint)
	log := logger.FromCtx(ctx).With(zap.String("endpoint", endpoint))
	timer := metrics.StartTimer()

	reply, err := c.post(ctx, endpoint, params)
	result := "ok"
	if err != nil {
		result = "error"
		log.Error("przelewy24 request failed", zap.Error(err))
	}
	c.metrics.ObserveGateway(name, result, timer.Duration())
	return reply, err
}

func (c *Client) post(ctx context.Context, endpoint string, params url.Values) (url.Values, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept-Charset", "UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read reply: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Body: string(body), Err: err}
	}
	return values, nil
}
