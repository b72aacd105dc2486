package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuery = ProviderQuery{
	DepartureID:  "CDG",
	ArrivalID:    "ZRH",
	OutboundDate: "2024-10-21",
	ReturnDate:   "2024-10-21",
	Currency:     "USD",
	Locale:       "en",
}

func TestGatewaySearchReturnsBodyUnmodified(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "google_flights", q.Get("engine"))
		assert.Equal(t, "CDG", q.Get("departure_id"))
		assert.Equal(t, "ZRH", q.Get("arrival_id"))
		assert.Equal(t, "key-2", q.Get("api_key"))
		_, _ = w.Write([]byte(parisZurichResponse))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL+"/search.json", "key-2", srv.Client())
	raw, err := g.Search(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, parisZurichResponse, string(raw))
	assert.Equal(t, 1, hits)
}

func TestGatewaySearchProviderError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := NewGateway(srv.URL, "bad", nil).Search(context.Background(), testQuery)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "Invalid API key.")
	assert.Equal(t, 1, hits, "no retries")
}

func TestGatewaySearchNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	_, err := NewGateway(srv.URL, "k", nil).Search(context.Background(), testQuery)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGatewaySearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewGateway(url, "k", nil).Search(context.Background(), testQuery)
	assert.ErrorIs(t, err, ErrTransport)
}
