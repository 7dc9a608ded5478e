package nbu

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the DD.MM.YYYY form the API uses for dates.
const DateLayout = "02.01.2006"

// ExchangeRate is one validated official rate observation.
type ExchangeRate struct {
	// TimeSign is an upstream timestamp label; passed through unused.
	TimeSign string `json:"TimeSign"`

	// StartDate is the quotation date, at midnight UTC.
	StartDate time.Time `json:"StartDate"`

	// Units is how many units of the foreign currency Amount is quoted for.
	Units int `json:"Units"`

	// CurrencyCode is the numeric currency code, e.g. "840".
	CurrencyCode string `json:"CurrencyCode"`

	// CurrencyCodeL is the three letter currency code, e.g. "USD".
	CurrencyCodeL string `json:"CurrencyCodeL"`

	// Amount is the price in hryvnias of Units units of the currency.
	Amount float64 `json:"Amount"`
}

// ParseExchangeRate validates one raw record decoded from the API.
// Errors are *ValidationError naming the offending field.
func ParseExchangeRate(raw map[string]any) (ExchangeRate, error) {
	var (
		rate ExchangeRate
		err  error
	)

	if rate.TimeSign, err = stringField(raw, "TimeSign"); err != nil {
		return ExchangeRate{}, err
	}
	if rate.StartDate, err = dateField(raw, "StartDate"); err != nil {
		return ExchangeRate{}, err
	}
	if rate.Units, err = intField(raw, "Units"); err != nil {
		return ExchangeRate{}, err
	}
	if rate.Units <= 0 {
		return ExchangeRate{}, invalid("Units", raw["Units"], "must be positive")
	}
	if rate.CurrencyCode, err = stringField(raw, "CurrencyCode"); err != nil {
		return ExchangeRate{}, err
	}
	if rate.CurrencyCodeL, err = stringField(raw, "CurrencyCodeL"); err != nil {
		return ExchangeRate{}, err
	}
	if n := utf8.RuneCountInString(rate.CurrencyCodeL); n != 3 {
		return ExchangeRate{}, invalid("CurrencyCodeL", rate.CurrencyCodeL, "must be exactly 3 characters")
	}
	if rate.Amount, err = floatField(raw, "Amount"); err != nil {
		return ExchangeRate{}, err
	}

	return rate, nil
}

func invalid(field string, value any, reason string) *ValidationError {
	return &ValidationError{Index: -1, Field: field, Value: value, Reason: reason}
}

func lookup(raw map[string]any, field string) (any, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, invalid(field, nil, "field required")
	}
	return v, nil
}

func stringField(raw map[string]any, field string) (string, error) {
	v, err := lookup(raw, field)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, v, "must be a string")
	}
	return s, nil
}

// dateField accepts a DD.MM.YYYY string or an already parsed time.Time.
func dateField(raw map[string]any, field string) (time.Time, error) {
	v, err := lookup(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	switch d := v.(type) {
	case string:
		t, err := time.Parse(DateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, invalid(field, d, "must match DD.MM.YYYY")
		}
		return t, nil
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, invalid(field, v, "must be a DD.MM.YYYY string")
	}
}

// intField coerces JSON numbers, integral floats and numeric strings to int.
func intField(raw map[string]any, field string) (int, error) {
	v, err := lookup(raw, field)
	if err != nil {
		return 0, err
	}

	var f float64
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		if f, err = n.Float64(); err != nil {
			return 0, invalid(field, v, "must be an integer")
		}
	case float64:
		f = n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, nil
		}
		return 0, invalid(field, v, "must be an integer")
	default:
		return 0, invalid(field, v, "must be an integer")
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, invalid(field, v, "must be an integer")
	}
	return int(f), nil
}

// floatField coerces JSON numbers and numeric strings to float64.
func floatField(raw map[string]any, field string) (float64, error) {
	v, err := lookup(raw, field)
	if err != nil {
		return 0, err
	}

	var (
		f    float64
		perr error
	)
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, perr = n.Float64()
	case string:
		f, perr = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, invalid(field, v, "must be a number")
	}
	if perr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(field, v, "must be a number")
	}
	return f, nil
}
