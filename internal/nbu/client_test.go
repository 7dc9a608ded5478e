package nbu

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdResponse = `[{"TimeSign":"0000","StartDate":"05.01.2026","Units":1,"CurrencyCode":"840","CurrencyCodeL":"USD","Amount":41.9654}]`

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{BaseURL: server.URL}, discardLogger())
}

func TestClientSendSuccess(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(usdResponse))
	})

	data, err := c.Send(context.Background(), NewExchangeRateRequest("05.01.2026"))
	require.NoError(t, err)

	assert.Equal(t, "/NBU_Exchange/exchange", gotPath)
	assert.Equal(t, "date=05.01.2026&format=json&json=", gotQuery)

	items, ok := data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestClientSendHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Send(context.Background(), NewExchangeRateRequest("05.01.2026"))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "expected HTTPError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestClientSendDecodeError(t *testing.T) {
	page := "<html><body>" + strings.Repeat("maintenance ", 100) + "</body></html>"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})

	_, err := c.Send(context.Background(), NewExchangeRateRequest("05.01.2026"))

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
	assert.Equal(t, http.StatusOK, decodeErr.StatusCode)
	assert.Equal(t, "text/html", decodeErr.ContentType)
	assert.Len(t, decodeErr.Body, maxLoggedBody)
}

func TestClientSendEmptyResponse(t *testing.T) {
	for _, body := range []string{`[]`, `null`, `{}`, `""`} {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := c.Send(context.Background(), NewExchangeRateRequest("05.01.2026"))

			var emptyErr *EmptyResponseError
			assert.True(t, errors.As(err, &emptyErr), "expected EmptyResponseError, got %v", err)
		})
	}
}

func TestClientSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	c := NewClient(ClientConfig{BaseURL: server.URL}, discardLogger())

	_, err := c.Send(context.Background(), NewExchangeRateRequest("05.01.2026"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nbu: send request")
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, isEmpty(nil))
	assert.True(t, isEmpty([]any{}))
	assert.True(t, isEmpty(false))
	assert.False(t, isEmpty([]any{map[string]any{}}))
	assert.False(t, isEmpty(map[string]any{"a": 1}))
}
