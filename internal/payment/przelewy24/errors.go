package przelewy24

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrSignatureMismatch = errors.New("przelewy24: signature mismatch")
	ErrUnknownPayment    = errors.New("przelewy24: unknown payment")
)

// ConfigurationError means the transaction cannot be registered as configured.
// Nothing is sent to the processor.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "przelewy24: improperly configured: " + e.Reason
}

// GatewayError carries the processor's reply to a rejected request.
type GatewayError struct {
	Code     string
	Response url.Values
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("przelewy24: gateway error %s: %s", e.Code, e.Response.Encode())
}

type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("przelewy24: request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type DecodeError struct {
	Endpoint string
	Body     string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("przelewy24: cannot decode reply from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
