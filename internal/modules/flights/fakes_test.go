package flights

import (
	"context"
	"encoding/json"
	"time"

	"flightchat/internal/ai"
)

// stubLLM is a test double for ai.ToolCaller that records every request.
type stubLLM struct {
	calls    []ai.ToolInvocation
	err      error
	requests []ai.ToolRequest
}

func (s *stubLLM) CallTool(_ context.Context, req ai.ToolRequest) ([]ai.ToolInvocation, error) {
	s.requests = append(s.requests, req)
	return s.calls, s.err
}

func toolCall(args string) []ai.ToolInvocation {
	return []ai.ToolInvocation{{Name: ToolName, Arguments: json.RawMessage(args)}}
}

// stubSearcher is a test double for Searcher.
type stubSearcher struct {
	raw     RawResponse
	err     error
	queries []ProviderQuery
}

func (s *stubSearcher) Search(_ context.Context, q ProviderQuery) (RawResponse, error) {
	s.queries = append(s.queries, q)
	return s.raw, s.err
}

func fixedClock(v string) func() time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func userTurn(content string) Turn {
	return Turn{Role: ai.RoleUser, Content: content}
}

const parisZurichArgs = `{"departure_id":"CDG","departure_date":"2024-10-21","arrival_id":"ZRH","arrival_date":"2024-10-21"}`

const parisZurichResponse = `{
  "search_metadata": {"status": "Success"},
  "best_flights": [
    {
      "price": "$200",
      "flights": [
        {
          "airline_logo": "https://logo.png",
          "departure_airport": {"name": "Charles de Gaulle Airport", "id": "CDG", "time": "10:00 AM"},
          "arrival_airport": {"name": "Zurich Airport", "id": "ZRH", "time": "12:00 PM"}
        }
      ]
    }
  ]
}`
