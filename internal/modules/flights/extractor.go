package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"flightchat/internal/ai"
)

const (
	systemPreamble = "You are a helpful assistant with access to functions. Use them if required."

	// Low temperature keeps extraction close to deterministic.
	extractionTemperature = 0.1
)

// Extractor turns a conversation into QueryParams through one tool call.
type Extractor struct {
	llm ai.ToolCaller
	now func() time.Time
}

// NewExtractor creates an Extractor. A nil now defaults to time.Now.
func NewExtractor(llm ai.ToolCaller, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{llm: llm, now: now}
}

// Extract sends the system preamble plus the last turn of conv to the model
// and decodes the first tool invocation it returns.
func (e *Extractor) Extract(ctx context.Context, conv []Turn) (*QueryParams, error) {
	if !hasUserTurn(conv) {
		return nil, ErrBadRequest
	}

	full := make([]Turn, 0, len(conv)+1)
	full = append(full, Turn{Role: ai.RoleSystem, Content: systemPreamble})
	full = append(full, conv...)

	today := e.now().UTC().Format(time.DateOnly)
	calls, err := e.llm.CallTool(ctx, ai.ToolRequest{
		Messages:    []Turn{full[0], full[len(full)-1]},
		Tool:        FlightTool(today),
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(calls) == 0 {
		return nil, ErrNoToolCall
	}
	if len(calls) > 1 {
		log.Printf("[EXTRACT] model returned %d tool calls, using the first", len(calls))
	}

	params, err := DecodeArguments(calls[0].Arguments)
	if err != nil {
		return nil, err
	}
	log.Printf("[EXTRACT] departure=%s/%s arrival=%s/%s",
		params.DepartureID, params.DepartureDate, params.ArrivalID, derefOr(params.ArrivalDate, "none"))
	return params, nil
}

// DecodeArguments validates a tool argument payload and decodes it into QueryParams.
// All four keys must be present. arrival_date alone may be null or empty.
func DecodeArguments(raw json.RawMessage) (*QueryParams, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: arguments are not a JSON object", ErrMalformedArguments)
	}

	var p QueryParams
	var err error
	if p.DepartureID, err = requiredString(fields, fieldDepartureID); err != nil {
		return nil, err
	}
	if p.DepartureDate, err = requiredDate(fields, fieldDepartureDate); err != nil {
		return nil, err
	}
	if p.ArrivalID, err = requiredString(fields, fieldArrivalID); err != nil {
		return nil, err
	}

	v, ok := fields[fieldArrivalDate]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedArguments, fieldArrivalDate)
	}
	var arrival *string
	if err := json.Unmarshal(v, &arrival); err != nil {
		return nil, fmt.Errorf("%w: %s is not a string", ErrMalformedArguments, fieldArrivalDate)
	}
	if arrival != nil && strings.TrimSpace(*arrival) != "" {
		d := strings.TrimSpace(*arrival)
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return nil, fmt.Errorf("%w: %s %q is not YYYY-MM-DD", ErrMalformedArguments, fieldArrivalDate, d)
		}
		p.ArrivalDate = &d
	}
	return &p, nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedArguments, key)
	}
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformedArguments, key)
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", fmt.Errorf("%w: empty %s", ErrMalformedArguments, key)
	}
	return strings.TrimSpace(*s), nil
}

func requiredDate(fields map[string]json.RawMessage, key string) (string, error) {
	s, err := requiredString(fields, key)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", fmt.Errorf("%w: %s %q is not YYYY-MM-DD", ErrMalformedArguments, key, s)
	}
	return s, nil
}

func hasUserTurn(conv []Turn) bool {
	for _, t := range conv {
		if t.Role == ai.RoleUser {
			return true
		}
	}
	return false
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
