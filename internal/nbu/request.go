package nbu

import (
	"net/http"
	"net/url"
)

const (
	// FormatJSON selects JSON output from the API.
	FormatJSON = "json"

	exchangePath = "/NBU_Exchange/exchange"
)

// Request describes one outbound API call.
type Request interface {
	Method() string
	Path() string
	Payload() url.Values
}

// BaseRequest carries the parameters every API request shares.
type BaseRequest struct {
	Format string
}

// NewBaseRequest returns a request for the given format, defaulting to JSON.
func NewBaseRequest(format string) BaseRequest {
	if format == "" {
		format = FormatJSON
	}
	return BaseRequest{Format: format}
}

func (r BaseRequest) Method() string { return http.MethodGet }

func (r BaseRequest) Path() string { return "/" }

func (r BaseRequest) Payload() url.Values {
	return url.Values{"format": {r.Format}}
}

// ExchangeRateRequest asks for all official rates of one date.
type ExchangeRateRequest struct {
	BaseRequest

	// Date is the quotation date in DD.MM.YYYY form.
	Date string
}

// NewExchangeRateRequest builds an exchange-rate request in JSON format.
func NewExchangeRateRequest(date string) ExchangeRateRequest {
	return NewExchangeRateRequestFormat(date, FormatJSON)
}

// NewExchangeRateRequestFormat builds an exchange-rate request in the given format.
func NewExchangeRateRequestFormat(date, format string) ExchangeRateRequest {
	return ExchangeRateRequest{BaseRequest: NewBaseRequest(format), Date: date}
}

func (r ExchangeRateRequest) Path() string { return exchangePath }

// Payload adds the date and, for JSON, an empty "json" key: the API switches
// to JSON on the presence of that key, not its value.
func (r ExchangeRateRequest) Payload() url.Values {
	payload := r.BaseRequest.Payload()
	payload.Set("date", r.Date)
	if r.Format == FormatJSON {
		payload.Set("json", "")
	}
	return payload
}
