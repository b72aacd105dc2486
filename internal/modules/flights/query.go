package flights

import "net/url"

const (
	providerEngine  = "google_flights"
	defaultCurrency = "USD"
	defaultLocale   = "en"
)

// BuildQuery maps extracted params to a round-trip provider query.
// It reports false when no arrival date was resolved; one-way searches are
// never issued.
func BuildQuery(p QueryParams) (ProviderQuery, bool) {
	if p.ArrivalDate == nil || *p.ArrivalDate == "" {
		return ProviderQuery{}, false
	}
	return ProviderQuery{
		DepartureID:  p.DepartureID,
		ArrivalID:    p.ArrivalID,
		OutboundDate: p.DepartureDate,
		ReturnDate:   *p.ArrivalDate,
		Currency:     defaultCurrency,
		Locale:       defaultLocale,
	}, true
}

// Values renders the query as provider URL parameters.
func (q ProviderQuery) Values(apiKey string) url.Values {
	v := url.Values{}
	v.Set("engine", providerEngine)
	v.Set("hl", q.Locale)
	v.Set("currency", q.Currency)
	v.Set("departure_id", q.DepartureID)
	v.Set("arrival_id", q.ArrivalID)
	v.Set("outbound_date", q.OutboundDate)
	v.Set("return_date", q.ReturnDate)
	v.Set("api_key", apiKey)
	return v
}
