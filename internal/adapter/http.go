package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	opFetch = "fetch remote"
	opPush  = "push local"
)

type httpRemoteAdapter struct {
	// fetch retries on 5xx and network errors; push never retries since the
	// endpoint is not idempotent.
	fetch *utils.HTTPClient
	push  *utils.HTTPClient
	path  string

	logger *logger.Logger
}

// NewHTTPRemoteAdapter constructs an HTTP/REST implementation of
// [RemoteAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the fetch and push clients with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	path := adapterCfg.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fetch := utils.NewHTTPClient().WithRetries(adapterCfg.RetryCount)
	fetch.SetBaseURL(baseURL).SetTimeout(adapterCfg.RequestTimeout)

	push := utils.NewHTTPClient()
	push.SetBaseURL(baseURL).SetTimeout(adapterCfg.RequestTimeout)

	return &httpRemoteAdapter{fetch: fetch, push: push, path: path, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchRemote implements [RemoteAdapter]. It GETs the configured collection
// path and splits the body into raw records.
func (h *httpRemoteAdapter) FetchRemote(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := h.fetch.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(h.path)
	if err != nil {
		return nil, &models.TransportError{Op: opFetch, Err: err}
	}
	if err = mapHTTPError(opFetch, resp); err != nil {
		return nil, err
	}

	records, err := splitRecords(resp.Body())
	if err != nil {
		return nil, &models.TransportError{Op: opFetch, StatusCode: resp.StatusCode(), Err: err}
	}

	h.logger.Debug().
		Str("func", "httpRemoteAdapter.FetchRemote").
		Int("records", len(records)).
		Msg("remote snapshot fetched")

	return records, nil
}

// PushLocal implements [RemoteAdapter]. It POSTs records as a JSON array to
// the configured collection path.
func (h *httpRemoteAdapter) PushLocal(ctx context.Context, records []models.PushRecord) error {
	if records == nil {
		records = []models.PushRecord{}
	}

	resp, err := h.push.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(records).
		Post(h.path)
	if err != nil {
		return &models.TransportError{Op: opPush, Err: err}
	}

	return mapHTTPError(opPush, resp)
}

type wrappedSnapshot struct {
	Quotes *[]json.RawMessage `json:"quotes"`
}

var errUnexpectedBody = errors.New("body is neither a JSON array nor an object with a quotes array")

func splitRecords(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", models.ErrMalformedPayload)
	}

	switch body[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrMalformedPayload, err)
		}
		return records, nil
	case '{':
		var w wrappedSnapshot
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrMalformedPayload, err)
		}
		if w.Quotes == nil {
			return nil, fmt.Errorf("%w: %w", models.ErrMalformedPayload, errUnexpectedBody)
		}
		return *w.Quotes, nil
	default:
		return nil, fmt.Errorf("%w: %w", models.ErrMalformedPayload, errUnexpectedBody)
	}
}
