// Package flights resolves free-text travel requests into normalized flight results.
package flights

import (
	"context"
	"log"
)

// Service runs the extraction → query → search → normalize pipeline.
type Service struct {
	extractor  *Extractor
	searcher   Searcher
	normalizer *Normalizer
}

func NewService(extractor *Extractor, searcher Searcher, normalizer *Normalizer) *Service {
	return &Service{extractor: extractor, searcher: searcher, normalizer: normalizer}
}

// Resolve short-circuits on the first failing stage. Normalization outcomes are
// carried in Result; every other failure is returned as an error.
func (s *Service) Resolve(ctx context.Context, conv []Turn) (Result, error) {
	params, err := s.extractor.Extract(ctx, conv)
	if err != nil {
		return Result{}, err
	}

	q, ok := BuildQuery(*params)
	if !ok {
		return Result{}, ErrMissingArrivalDate
	}

	raw, err := s.searcher.Search(ctx, q)
	if err != nil {
		return Result{}, err
	}

	res := s.normalizer.Normalize(raw)
	log.Printf("[FLIGHTS] %s->%s %s/%s flights=%d error=%q",
		q.DepartureID, q.ArrivalID, q.OutboundDate, q.ReturnDate, len(res.Flights), res.Error)
	return res, nil
}
