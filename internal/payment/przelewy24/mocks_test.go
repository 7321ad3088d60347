package przelewy24

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"p24-gateway/internal/payment"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func formResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func readForm(t *testing.T, req *http.Request) url.Values {
	t.Helper()
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	return form
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveNotification(ctx context.Context, n *payment.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

// stubUserData fills the fields it was given, like an order-side handler would.
type stubUserData struct {
	data  UserData
	err   error
	calls int
}

func (s *stubUserData) QueryUserData(_ context.Context, _ uint, data *UserData) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.data.Email != nil {
		data.Email = s.data.Email
	}
	if s.data.Lang != nil {
		data.Lang = s.data.Lang
	}
	if s.data.Client != nil {
		data.Client = s.data.Client
	}
	if s.data.Address != nil {
		data.Address = s.data.Address
	}
	if s.data.Zip != nil {
		data.Zip = s.data.Zip
	}
	if s.data.City != nil {
		data.City = s.data.City
	}
	if s.data.Country != nil {
		data.Country = s.data.Country
	}
	if s.data.Phone != nil {
		data.Phone = s.data.Phone
	}
	return nil
}

type stubDescriber struct {
	description string
	err         error
}

func (s stubDescriber) OrderDescription(context.Context, *payment.Payment) (string, error) {
	return s.description, s.err
}
