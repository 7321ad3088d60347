package przelewy24

import "fmt"

// Routes served by the callback boundary.
const (
	StatusRoute        = "/przelewy24/status/"
	ReturnRoutePattern = "/przelewy24/return/{pk}/"
)

func ReturnPath(paymentID uint) string {
	return fmt.Sprintf("/przelewy24/return/%d/", paymentID)
}

func absoluteURL(ssl bool, domain, path string) string {
	scheme := "http://"
	if ssl {
		scheme = "https://"
	}
	return scheme + domain + path
}
