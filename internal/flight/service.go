package flight

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/cache"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/logger"
	"travelbooking/pkg/metrics"
	"travelbooking/pkg/refdata"
)

// GDSClient is the subset of the provider adapter used for search and pricing.
type GDSClient interface {
	SearchLocations(ctx context.Context, keyword string) ([]gds.Location, error)
	SearchAirports(ctx context.Context, keyword string) ([]gds.Location, error)
	SearchOffers(ctx context.Context, params gds.SearchParams) (*gds.OfferBatch, error)
	ConfirmPricing(ctx context.Context, offer gds.FlightOffer) (*gds.PricedOffer, error)
}

type Options struct {
	CacheTTL    time.Duration
	LocationTTL time.Duration
	QuoteTTL    time.Duration
}

type Service struct {
	client   GDSClient
	cache    cache.Cache
	enricher *Enricher
	opts     Options
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(client GDSClient, c cache.Cache, enricher *Enricher, opts Options, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		client:   client,
		cache:    c,
		enricher: enricher,
		opts:     opts,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// generateCacheKey creates a deterministic key from search parameters
func (s *Service) generateCacheKey(req SearchRequest) string {
	key := fmt.Sprintf("flight:%s:%s:%s:%s:%d",
		strings.ToUpper(req.Origin),
		strings.ToUpper(req.Destination),
		req.DepartureDate,
		req.ReturnDate,
		req.Adults,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("flight:search:%x", hash[:16])
}

func (s *Service) SearchLocations(ctx context.Context, keyword string) ([]gds.Location, error) {
	return s.cachedLocations(ctx, "locations", keyword, s.client.SearchLocations)
}

func (s *Service) SearchAirports(ctx context.Context, keyword string) ([]gds.Location, error) {
	return s.cachedLocations(ctx, "airports", keyword, s.client.SearchAirports)
}

func (s *Service) cachedLocations(ctx context.Context, kind, keyword string,
	fetch func(context.Context, string) ([]gds.Location, error)) ([]gds.Location, error) {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil, apperror.Validation("keyword is required")
	}
	cacheKey := fmt.Sprintf("flight:%s:%s", kind, keyword)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var locs []gds.Location
		if err := json.Unmarshal([]byte(cached), &locs); err == nil {
			return locs, nil
		}
	}

	locs, err := fetch(ctx, keyword)
	if err != nil {
		return nil, err
	}
	for i := range locs {
		if locs[i].Address.CountryName == "" && locs[i].Address.CountryCode != "" {
			locs[i].Address.CountryName = refdata.CountryName(locs[i].Address.CountryCode)
		}
	}

	s.store(ctx, cacheKey, locs, s.opts.LocationTTL)
	return locs, nil
}

// SearchFlights returns the classified and enriched batch, then applies the
// caller's filters and sort. Classification always covers the full batch.
func (s *Service) SearchFlights(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	cacheKey := s.generateCacheKey(req)

	response, hit := s.cachedSearch(ctx, cacheKey)
	s.metrics.CacheLookup(hit)

	if !hit {
		s.logger.Info("Cache miss for search", logger.Field{Key: "cache_key", Value: cacheKey})

		var err error
		response, err = s.search(ctx, req)
		if apperror.HasCode(err, apperror.CodeNoResults) {
			appErr, _ := apperror.As(err)
			return &SearchResponse{
				Metadata: Metadata{Message: appErr.Message, CacheKey: cacheKey},
				Data:     []gds.FlightOffer{},
			}, nil
		}
		if err != nil {
			return nil, err
		}
		response.Metadata.CacheKey = cacheKey
		s.store(ctx, cacheKey, response, s.opts.CacheTTL)
	}

	offers := response.Data
	if req.FilterOptions.active() {
		offers = applyFilters(offers, req.FilterOptions)
	}
	offers = s.applySorting(offers, req.SortOptions)

	response.Data = offers
	response.Metadata.TotalResults = len(offers)
	response.Metadata.CacheHit = hit
	return response, nil
}

func (s *Service) cachedSearch(ctx context.Context, cacheKey string) (*SearchResponse, bool) {
	cached, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Cache read failed", logger.Field{Key: "err", Value: err})
		}
		return nil, false
	}

	var response SearchResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		s.logger.Error("Failed to unmarshal cached data", logger.Field{Key: "err", Value: err})
		return nil, false
	}
	s.logger.Info("Cache hit for search", logger.Field{Key: "cache_key", Value: cacheKey})
	return &response, true
}

func (s *Service) search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := s.now()
	batch, err := s.client.SearchOffers(ctx, req.params())
	if err != nil {
		return nil, err
	}

	offers := Classify(batch.Data)
	s.metrics.OffersClassified(len(offers))

	if err := s.enricher.EnrichBatch(ctx, offers, batch.Dictionaries); err != nil {
		return nil, fmt.Errorf("flight: failed to enrich offers: %w", err)
	}

	return &SearchResponse{
		Metadata: Metadata{
			TotalResults: len(offers),
			SearchTimeMs: s.now().Sub(startTime).Milliseconds(),
		},
		Data:         offers,
		Dictionaries: batch.Dictionaries,
	}, nil
}

// store caches v; failures are logged and otherwise ignored.
func (s *Service) store(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to marshal response", logger.Field{Key: "err", Value: err})
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		s.logger.Error("Failed to cache response",
			logger.Field{Key: "err", Value: err},
			logger.Field{Key: "cache_key", Value: key},
		)
	}
}
