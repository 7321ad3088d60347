package przelewy24

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errMalformedSession = errors.New("malformed session id")

// NewSessionID builds "{payment_id}:{backend}:{unix_seconds}" with microsecond
// precision on the timestamp.
func NewSessionID(paymentID uint, backend string, now time.Time) string {
	ts := strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', 6, 64)
	return fmt.Sprintf("%d:%s:%s", paymentID, backend, ts)
}

// ParseSessionID returns the payment id, the segment before the first colon.
func ParseSessionID(sessionID string) (uint, error) {
	head, _, found := strings.Cut(sessionID, ":")
	if !found {
		return 0, fmt.Errorf("%w: %q", errMalformedSession, sessionID)
	}

	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMalformedSession, sessionID)
	}
	return uint(id), nil
}
