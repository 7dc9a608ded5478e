package nbu

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	data any
	err  error
	got  Request
}

func (s *stubSender) Send(_ context.Context, req Request) (any, error) {
	s.got = req
	return s.data, s.err
}

func TestRepositoryGetRates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(usdResponse))
	})
	repo := NewRepository(c, "")

	rates, err := repo.GetRates(context.Background(), "05.01.2026")
	require.NoError(t, err)
	require.Len(t, rates, 1)

	assert.Equal(t, "USD", rates[0].CurrencyCodeL)
	assert.Equal(t, 41.9654, rates[0].Amount)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), rates[0].StartDate)
}

func TestRepositoryBuildsExchangeRequest(t *testing.T) {
	sender := &stubSender{data: []any{validRaw()}}
	repo := NewRepository(sender, "")

	_, err := repo.GetRates(context.Background(), "05.01.2026")
	require.NoError(t, err)

	req, ok := sender.got.(ExchangeRateRequest)
	require.True(t, ok)
	assert.Equal(t, "05.01.2026", req.Date)
	assert.Equal(t, FormatJSON, req.Format)
}

func TestRepositoryFailsFastOnInvalidRecord(t *testing.T) {
	bad := validRaw()
	bad["CurrencyCodeL"] = "US"
	sender := &stubSender{data: []any{validRaw(), bad, validRaw()}}

	rates, err := NewRepository(sender, "").GetRates(context.Background(), "05.01.2026")

	assert.Nil(t, rates)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "CurrencyCodeL", verr.Field)
}

func TestRepositoryRejectsNonObjects(t *testing.T) {
	sender := &stubSender{data: []any{"USD"}}

	_, err := NewRepository(sender, "").GetRates(context.Background(), "05.01.2026")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, verr.Index)
}

func TestRepositoryRejectsNonArray(t *testing.T) {
	sender := &stubSender{data: map[string]any{"error": "bad date"}}

	_, err := NewRepository(sender, "").GetRates(context.Background(), "05.01.2026")

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.JSONEq(t, `{"error":"bad date"}`, decodeErr.Body)
	assert.Zero(t, decodeErr.StatusCode)
}

func TestRepositoryPropagatesSendErrors(t *testing.T) {
	sendErr := &EmptyResponseError{URL: "https://bank.gov.ua"}
	sender := &stubSender{err: sendErr}

	_, err := NewRepository(sender, "").GetRates(context.Background(), "05.01.2026")
	assert.ErrorIs(t, err, sendErr)
}
