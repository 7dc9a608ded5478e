package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/navid-fn/nbu-rates/internal/nbu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatesBetween(t *testing.T) {
	from := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	dates, err := DatesBetween(from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}, dates)

	dates, err = DatesBetween(from, from)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-30"}, dates)

	_, err = DatesBetween(to, from)
	assert.Error(t, err)
}

func TestBackfill(t *testing.T) {
	extractor := &fakeExtractor{
		rates: map[string][]nbu.ExchangeRate{
			"05.01.2026": {usdRate(5), eurRate(5)},
			"06.01.2026": {usdRate(6), eurRate(6)},
			"08.01.2026": {usdRate(8)},
		},
		err: map[string]error{
			"07.01.2026": &nbu.HTTPError{StatusCode: 502, Status: "502 Bad Gateway"},
		},
	}
	store := newMemoryStore()
	p := New(extractor, store, discardLogger())

	report, err := Backfill(context.Background(), p,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		3, discardLogger())

	require.Error(t, err)
	var httpErr *nbu.HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Contains(t, err.Error(), "1 of 4 dates failed")

	require.Len(t, report.Results, 3)
	assert.Equal(t, "2026-01-05", report.Results[0].LogicalDate)
	assert.Equal(t, "2026-01-08", report.Results[2].LogicalDate)
	assert.Contains(t, report.Failed, "2026-01-07")

	assert.Len(t, store.rows, 5)
}

func TestBackfillRerunDoesNotDuplicate(t *testing.T) {
	extractor := &fakeExtractor{rates: map[string][]nbu.ExchangeRate{
		"05.01.2026": {usdRate(5), eurRate(5)},
		"06.01.2026": {usdRate(6), eurRate(6)},
	}}
	store := newMemoryStore()
	p := New(extractor, store, discardLogger())
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := Backfill(context.Background(), p, from, to, 2, discardLogger())
		require.NoError(t, err)
	}

	assert.Len(t, store.rows, 4)
}

func TestBackfillCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&fakeExtractor{}, newMemoryStore(), discardLogger())
	report, err := Backfill(ctx, p,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		1, discardLogger())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Failed, 2)
}
