package flights

import (
	"encoding/json"
	"fmt"
	"log"
)

const (
	itinerariesKey = "best_flights"

	// MaxLegsPerItinerary caps how many legs of one itinerary are surfaced.
	MaxLegsPerItinerary = 3

	msgNoFlights = "No flights found for the specified route and date"
)

// Policy selects how a malformed itinerary is handled.
type Policy string

const (
	// PolicyStrict discards every flight when any field is missing.
	PolicyStrict Policy = "strict"
	// PolicySkip drops only the malformed itinerary.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a configured policy name. Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown normalize policy %q", s)
	}
}

// Normalizer projects provider payloads into Result.
type Normalizer struct {
	policy Policy
}

func NewNormalizer(policy Policy) *Normalizer {
	if policy == "" {
		policy = PolicyStrict
	}
	return &Normalizer{policy: policy}
}

// missingFieldError names the provider key that could not be read.
type missingFieldError struct {
	key string
}

func (e *missingFieldError) Error() string {
	return fmt.Sprintf("Error processing flight data: '%s'", e.key)
}

type object = map[string]json.RawMessage

// Normalize walks itineraries in provider order. It never fails: absence and
// malformation are reported through Result.Error with no flights.
func (n *Normalizer) Normalize(raw RawResponse) Result {
	var root object
	if err := json.Unmarshal(raw, &root); err != nil {
		return Result{Flights: []Summary{}, Error: "Error processing flight data: invalid JSON"}
	}
	itRaw, ok := root[itinerariesKey]
	if !ok || isNull(itRaw) {
		return Result{Flights: []Summary{}, Error: msgNoFlights}
	}

	var itineraries []json.RawMessage
	if err := json.Unmarshal(itRaw, &itineraries); err != nil {
		return Result{Flights: []Summary{}, Error: (&missingFieldError{key: itinerariesKey}).Error()}
	}

	out := []Summary{}
	for i, it := range itineraries {
		legs, err := projectItinerary(it)
		if err != nil {
			if n.policy == PolicySkip {
				log.Printf("[NORMALIZE] skipping itinerary %d: %v", i, err)
				continue
			}
			return Result{Flights: []Summary{}, Error: err.Error()}
		}
		out = append(out, legs...)
	}
	return Result{Flights: out}
}

func projectItinerary(raw json.RawMessage) ([]Summary, error) {
	var it object
	if err := json.Unmarshal(raw, &it); err != nil || it == nil {
		return nil, &missingFieldError{key: "flights"}
	}
	legsRaw, ok := it["flights"]
	if !ok {
		return nil, &missingFieldError{key: "flights"}
	}
	var legs []json.RawMessage
	if err := json.Unmarshal(legsRaw, &legs); err != nil {
		return nil, &missingFieldError{key: "flights"}
	}
	if len(legs) > MaxLegsPerItinerary {
		legs = legs[:MaxLegsPerItinerary]
	}

	out := make([]Summary, 0, len(legs))
	for _, l := range legs {
		s, err := projectLeg(it, l)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// projectLeg reads fields in response-shape order so the first missing key is reported.
func projectLeg(itinerary object, raw json.RawMessage) (Summary, error) {
	var s Summary
	price, ok := itinerary["price"]
	if !ok {
		return s, &missingFieldError{key: "price"}
	}
	s.Price = price

	var leg object
	if err := json.Unmarshal(raw, &leg); err != nil || leg == nil {
		return s, &missingFieldError{key: "airline_logo"}
	}

	var err error
	if s.AirlineLogo, err = stringField(leg, "airline_logo"); err != nil {
		return s, err
	}
	if s.ArrivalAirportName, s.ArrivalAirportTime, err = airport(leg, "arrival_airport"); err != nil {
		return s, err
	}
	if s.DepartureAirportName, s.DepartureAirportTime, err = airport(leg, "departure_airport"); err != nil {
		return s, err
	}
	return s, nil
}

func airport(leg object, key string) (name, at string, err error) {
	v, ok := leg[key]
	if !ok {
		return "", "", &missingFieldError{key: key}
	}
	var a object
	if err := json.Unmarshal(v, &a); err != nil || a == nil {
		return "", "", &missingFieldError{key: key}
	}
	if name, err = stringField(a, "name"); err != nil {
		return "", "", err
	}
	if at, err = stringField(a, "time"); err != nil {
		return "", "", err
	}
	return name, at, nil
}

func stringField(o object, key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", &missingFieldError{key: key}
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &missingFieldError{key: key}
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}
