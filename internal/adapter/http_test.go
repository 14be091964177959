// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// newTestAdapter creates an httpRemoteAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string, retries int) RemoteAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{
		HTTPAddress:    serverURL,
		Path:           "/api/quotes",
		RequestTimeout: 2 * time.Second,
		RetryCount:     retries,
	}

	a, err := NewHTTPRemoteAdapter(adapterCfg, logger.Nop())
	require.NoError(t, err)
	return a
}

// ── FetchRemote ──────────────────────────────────────────────────────────────

func TestFetchRemote_Array(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/quotes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a","text":"t","category":"c"},{"id":"b"}]`))
	}))
	defer srv.Close()

	records, err := newTestAdapter(t, srv.URL, 0).FetchRemote(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"id":"b"}`, string(records[1]))
}

func TestFetchRemote_WrappedObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quotes":[{"id":"a"}]}`))
	}))
	defer srv.Close()

	records, err := newTestAdapter(t, srv.URL, 0).FetchRemote(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchRemote_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	records, err := newTestAdapter(t, srv.URL, 0).FetchRemote(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchRemote_UnexpectedBody(t *testing.T) {
	for name, body := range map[string]string{
		"html":          `<html></html>`,
		"object":        `{"items":[]}`,
		"broken array":  `[{"id":`,
		"empty":         ``,
		"scalar string": `"quotes"`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL, 0).FetchRemote(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrTransport)
			assert.ErrorIs(t, err, models.ErrMalformedPayload)
		})
	}
}

func TestFetchRemote_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusTeapot, ErrUnexpectedStatus},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL, 0).FetchRemote(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, models.ErrTransport)

			var te *models.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.status, te.StatusCode)
			assert.Equal(t, opFetch, te.Op)
		})
	}
}

func TestFetchRemote_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL, 2).FetchRemote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAdapter(t, url, 0).FetchRemote(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestFetchRemote_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestAdapter(t, srv.URL, 0).FetchRemote(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ── PushLocal ────────────────────────────────────────────────────────────────

func TestPushLocal_Success(t *testing.T) {
	var got []models.PushRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quotes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":101}`))
	}))
	defer srv.Close()

	records := []models.PushRecord{{Text: "a", Category: "x"}, {Text: "b", Category: "y"}}
	err := newTestAdapter(t, srv.URL, 0).PushLocal(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestPushLocal_SendsEmptyArray(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		body = raw
	}))
	defer srv.Close()

	require.NoError(t, newTestAdapter(t, srv.URL, 0).PushLocal(context.Background(), nil))
	assert.JSONEq(t, `[]`, string(body))
}

func TestPushLocal_NoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	err := newTestAdapter(t, srv.URL, 3).PushLocal(context.Background(), []models.PushRecord{{Text: "a", Category: "b"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int32(1), calls.Load())
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL(" localhost:8080/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", got)

	got, err = normalizeBaseURL("https://jsonplaceholder.typicode.com")
	require.NoError(t, err)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", got)

	_, err = normalizeBaseURL("")
	assert.Error(t, err)
}

func TestNewHTTPRemoteAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPRemoteAdapter(config.ClientAdapter{}, logger.Nop())
	assert.Error(t, err)
}
