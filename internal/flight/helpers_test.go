package flight

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/cache"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/logger"
)

type mockGDS struct {
	mock.Mock
}

func (m *mockGDS) SearchLocations(ctx context.Context, keyword string) ([]gds.Location, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gds.Location), args.Error(1)
}

func (m *mockGDS) SearchAirports(ctx context.Context, keyword string) ([]gds.Location, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gds.Location), args.Error(1)
}

func (m *mockGDS) SearchOffers(ctx context.Context, params gds.SearchParams) (*gds.OfferBatch, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gds.OfferBatch), args.Error(1)
}

func (m *mockGDS) ConfirmPricing(ctx context.Context, offer gds.FlightOffer) (*gds.PricedOffer, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gds.PricedOffer), args.Error(1)
}

func newTestService(t *testing.T, client GDSClient) (*Service, *cache.MemoryCache) {
	t.Helper()
	mem := cache.NewMemoryCache()
	svc := NewService(client, mem, NewEnricher(""), Options{
		CacheTTL:    10 * time.Minute,
		LocationTTL: time.Hour,
		QuoteTTL:    15 * time.Minute,
	}, logger.NewWithWriter("test", io.Discard), nil)
	return svc, mem
}

// offer builds a one-way, one-segment offer.
func offer(id, price, duration string) gds.FlightOffer {
	return gds.FlightOffer{
		Type:   "flight-offer",
		ID:     id,
		Source: "GDS",
		OneWay: true,
		Itineraries: []gds.Itinerary{{
			Duration: duration,
			Segments: []gds.Segment{{
				ID:          id + "-1",
				Departure:   gds.Endpoint{IataCode: "LHR", Terminal: "5", At: "2024-06-01T09:30:00"},
				Arrival:     gds.Endpoint{IataCode: "JFK", Terminal: "7", At: "2024-06-01T12:30:00"},
				CarrierCode: "BA",
				Number:      "117",
				Aircraft:    gds.Aircraft{Code: "744"},
				Operating:   &gds.Operating{CarrierCode: "AA"},
				Duration:    duration,
			}},
		}},
		Price:                  gds.Price{Currency: "EUR", Total: price, Base: price, GrandTotal: price},
		ValidatingAirlineCodes: []string{"BA"},
	}
}

func lhrJfkDictionaries() gds.Dictionaries {
	return gds.Dictionaries{
		Locations: map[string]gds.LocationEntry{
			"LHR": {CityCode: "LON", CountryCode: "GB"},
			"JFK": {CityCode: "NYC", CountryCode: "US"},
		},
		Aircraft: map[string]string{"744": "BOEING 747-400"},
		Carriers: map[string]string{"BA": "BRITISH AIRWAYS", "AA": "AMERICAN AIRLINES"},
	}
}

// pricingRejection is what the gds client returns for a provider error body.
func pricingRejection(status int, title string) error {
	pe := &gds.ProviderError{Status: status, Issues: []gds.Issue{{Status: status, Title: title}}}
	return apperror.Upstream("price confirmation failed").
		WithDetail(pe.Summary()).
		WithProviderStatus(status).
		WithErr(pe)
}
