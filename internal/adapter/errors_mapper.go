package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-quote-keeper/models"
)

const maxErrorBody = 256

func mapHTTPError(op string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	var sentinel error
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusTooManyRequests:
		sentinel = ErrTooManyRequests
	case http.StatusBadGateway:
		sentinel = ErrBadGateway
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	case http.StatusInternalServerError:
		sentinel = ErrInternalServerError
	default:
		sentinel = ErrUnexpectedStatus
	}

	return &models.TransportError{
		Op:         op,
		StatusCode: resp.StatusCode(),
		Err:        fmt.Errorf("%w: %s", sentinel, body),
	}
}
