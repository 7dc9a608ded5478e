package nbu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Sender sends a request and returns the decoded JSON body.
type Sender interface {
	Send(ctx context.Context, req Request) (any, error)
}

// Repository fetches validated exchange rates.
type Repository struct {
	sender Sender
	format string
}

// NewRepository creates a Repository on top of a Sender. An empty format means JSON.
func NewRepository(sender Sender, format string) *Repository {
	if format == "" {
		format = FormatJSON
	}
	return &Repository{sender: sender, format: format}
}

// GetRates returns the official rates for date (DD.MM.YYYY).
// The first invalid record aborts the whole batch with a *ValidationError
// carrying its index; transport and decode errors are returned as is.
func (r *Repository) GetRates(ctx context.Context, date string) ([]ExchangeRate, error) {
	data, err := r.sender.Send(ctx, NewExchangeRateRequestFormat(date, r.format))
	if err != nil {
		return nil, err
	}

	items, ok := data.([]any)
	if !ok {
		body, _ := json.Marshal(data)
		return nil, &DecodeError{Body: truncate(body), Err: fmt.Errorf("expected a JSON array, got %T", data)}
	}

	rates := make([]ExchangeRate, 0, len(items))
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, &ValidationError{Index: i, Field: "record", Value: item, Reason: "must be an object"}
		}

		rate, err := ParseExchangeRate(raw)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Index = i
			}
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
