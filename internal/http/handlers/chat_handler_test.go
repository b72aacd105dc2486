// README: Handler tests for POST /chat status and body mapping.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightchat/internal/ai"
	"flightchat/internal/http/handlers"
	"flightchat/internal/modules/flights"
)

// stubLLM is a test double for ai.ToolCaller.
type stubLLM struct {
	args  string
	err   error
	wait  bool
	calls int
}

func (s *stubLLM) CallTool(ctx context.Context, _ ai.ToolRequest) ([]ai.ToolInvocation, error) {
	s.calls++
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.args == "" {
		return nil, nil
	}
	return []ai.ToolInvocation{{Name: flights.ToolName, Arguments: json.RawMessage(s.args)}}, nil
}

// stubSearcher is a test double for flights.Searcher.
type stubSearcher struct {
	body  string
	err   error
	calls int
}

func (s *stubSearcher) Search(_ context.Context, _ flights.ProviderQuery) (flights.RawResponse, error) {
	s.calls++
	return flights.RawResponse(s.body), s.err
}

const roundTripArgs = `{"departure_id":"CDG","departure_date":"2024-10-21","arrival_id":"ZRH","arrival_date":"2024-10-21"}`

const providerBody = `{"best_flights":[{"price":"$200","flights":[{"airline_logo":"https://logo.png",
	"departure_airport":{"name":"Charles de Gaulle Airport","time":"10:00 AM"},
	"arrival_airport":{"name":"Zurich Airport","time":"12:00 PM"}}]}]}`

func buildTestRouter(llm *stubLLM, searcher *stubSearcher, timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := flights.NewService(flights.NewExtractor(llm, nil), searcher, flights.NewNormalizer(flights.PolicyStrict))
	r := gin.New()
	h := handlers.NewChatHandler(svc, timeout)
	r.POST("/chat", h.Chat)
	return r
}

func doRequest(r *gin.Engine, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func userMessages(content string) map[string]any {
	return map[string]any{"messages": []map[string]string{{"role": "user", "content": content}}}
}

type chatResp struct {
	Flights []map[string]any `json:"flights"`
	Error   *string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) chatResp {
	t.Helper()
	var r chatResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r), w.Body.String())
	return r
}

func TestChat_Success(t *testing.T) {
	llm, searcher := &stubLLM{args: roundTripArgs}, &stubSearcher{body: providerBody}
	w := doRequest(buildTestRouter(llm, searcher, time.Second), userMessages("Tell me flights from Paris to Zurich on 21st Oct 2024"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"flights":[{
		"price":"$200",
		"airline_logo":"https://logo.png",
		"arrival_airport_name":"Zurich Airport",
		"arrival_airport_time":"12:00 PM",
		"departure_airport_name":"Charles de Gaulle Airport",
		"departure_airport_time":"10:00 AM"
	}]}`, w.Body.String())
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, searcher.calls)
}

func TestChat_NoFlightsIs200WithError(t *testing.T) {
	w := doRequest(buildTestRouter(&stubLLM{args: roundTripArgs}, &stubSearcher{body: `{}`}, time.Second), userMessages("x"))
	require.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Empty(t, r.Flights)
	require.NotNil(t, r.Error)
	assert.Equal(t, "No flights found for the specified route and date", *r.Error)
}

func TestChat_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "not json", body: "{"},
		{name: "no messages", body: map[string]any{}},
		{name: "empty messages", body: map[string]any{"messages": []any{}}},
		{name: "bad role", body: map[string]any{"messages": []map[string]string{{"role": "tool", "content": "x"}}}},
		{name: "missing content", body: map[string]any{"messages": []map[string]string{{"role": "user"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{args: roundTripArgs}
			w := doRequest(buildTestRouter(llm, &stubSearcher{}, time.Second), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			r := decode(t, w)
			assert.NotNil(t, r.Flights)
			assert.NotNil(t, r.Error)
			assert.Zero(t, llm.calls)
		})
	}
}

func TestChat_NoUserTurn(t *testing.T) {
	body := map[string]any{"messages": []map[string]string{{"role": "assistant", "content": "hello"}}}
	w := doRequest(buildTestRouter(&stubLLM{args: roundTripArgs}, &stubSearcher{}, time.Second), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_ExtractionFailuresAre422(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "no tool call", args: ""},
		{name: "malformed arguments", args: `{"departure_id":"CDG"}`},
		{name: "missing arrival date", args: `{"departure_id":"CDG","departure_date":"2024-10-21","arrival_id":"ZRH","arrival_date":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{body: providerBody}
			w := doRequest(buildTestRouter(&stubLLM{args: tt.args}, searcher, time.Second), userMessages("x"))
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			r := decode(t, w)
			assert.Empty(t, r.Flights)
			assert.NotNil(t, r.Error)
			assert.Zero(t, searcher.calls)
		})
	}
}

func TestChat_UpstreamFailuresAre502(t *testing.T) {
	w := doRequest(buildTestRouter(&stubLLM{err: errors.New("dial tcp: refused")}, &stubSearcher{}, time.Second), userMessages("x"))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	searcher := &stubSearcher{err: flights.ErrTransport}
	w = doRequest(buildTestRouter(&stubLLM{args: roundTripArgs}, searcher, time.Second), userMessages("x"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 1, searcher.calls)
}

func TestChat_TimeoutIs504(t *testing.T) {
	w := doRequest(buildTestRouter(&stubLLM{wait: true}, &stubSearcher{}, 20*time.Millisecond), userMessages("x"))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
