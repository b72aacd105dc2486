package flights

import (
	"encoding/json"
	"errors"

	"flightchat/internal/ai"
)

var (
	ErrBadRequest         = errors.New("conversation must contain at least one user message")
	ErrNoToolCall         = errors.New("model did not return a tool call")
	ErrMalformedArguments = errors.New("malformed tool call arguments")
	ErrUpstream           = errors.New("language model request failed")
	ErrMissingArrivalDate = errors.New("arrival date could not be determined")
	ErrTransport          = errors.New("flight provider request failed")
)

// Turn is one entry of the inbound conversation.
type Turn = ai.Message

// QueryParams are the flight fields extracted by the model.
// ArrivalDate is nil when the model returned null or an empty value.
type QueryParams struct {
	DepartureID   string  `json:"departure_id"`
	DepartureDate string  `json:"departure_date"`
	ArrivalID     string  `json:"arrival_id"`
	ArrivalDate   *string `json:"arrival_date"`
}

// ProviderQuery is the search the flight provider receives.
type ProviderQuery struct {
	DepartureID  string
	ArrivalID    string
	OutboundDate string
	ReturnDate   string
	Currency     string
	Locale       string
}

// RawResponse is the provider body, unmodified.
type RawResponse json.RawMessage

// Summary is one surfaced flight leg.
type Summary struct {
	Price                json.RawMessage `json:"price"`
	AirlineLogo          string          `json:"airline_logo"`
	ArrivalAirportName   string          `json:"arrival_airport_name"`
	ArrivalAirportTime   string          `json:"arrival_airport_time"`
	DepartureAirportName string          `json:"departure_airport_name"`
	DepartureAirportTime string          `json:"departure_airport_time"`
}

// Result is the response body of a resolved conversation.
type Result struct {
	Flights []Summary `json:"flights"`
	Error   string    `json:"error,omitempty"`
}
