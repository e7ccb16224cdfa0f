package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/cache"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/logger"
)

func quoteKey(id string) string {
	return "flight:quote:" + id
}

// ConfirmPricing re-prices the selected offer. A provider refusal becomes
// FARE_UNAVAILABLE so the caller can send the user back to the offer list.
func (s *Service) ConfirmPricing(ctx context.Context, selected gds.FlightOffer) (*PricingResponse, error) {
	priced, err := s.client.ConfirmPricing(ctx, selected)
	if err != nil {
		return nil, fareError(err)
	}

	confirmed := priced.Data.FlightOffers[0]
	inheritNames(&confirmed, selected)
	s.enricher.Enrich(&confirmed, priced.Dictionaries)
	confirmed.TotalDurationMinutes = TotalDurationMinutes(confirmed)
	confirmed.OfferClassification = selected.OfferClassification
	confirmed.IsCheapest = selected.IsCheapest
	confirmed.IsFastest = selected.IsFastest

	resp := &PricingResponse{
		Data: PricingData{
			Type:                priced.Data.Type,
			FlightOffers:        []gds.FlightOffer{confirmed},
			BookingRequirements: priced.Data.BookingRequirements,
		},
		PriceChanged: OfferPrice(confirmed) != OfferPrice(selected),
	}

	quote, err := s.saveQuote(ctx, confirmed)
	if err != nil {
		s.logger.Error("Failed to store quote",
			logger.Field{Key: "offer_id", Value: confirmed.ID},
			logger.Field{Key: "err", Value: err},
		)
		return resp, nil
	}
	resp.QuoteID = quote.ID
	return resp, nil
}

func (s *Service) saveQuote(ctx context.Context, offer gds.FlightOffer) (*Quote, error) {
	now := s.now().UTC()
	quote := &Quote{
		ID:        uuid.NewString(),
		Offer:     offer,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.QuoteTTL),
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return nil, fmt.Errorf("flight: marshal quote: %w", err)
	}
	if err := s.cache.Set(ctx, quoteKey(quote.ID), string(raw), s.opts.QuoteTTL); err != nil {
		return nil, fmt.Errorf("flight: store quote: %w", err)
	}
	return quote, nil
}

// LoadQuote returns a previously confirmed offer.
func (s *Service) LoadQuote(ctx context.Context, id string) (*Quote, error) {
	raw, err := s.cache.Get(ctx, quoteKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, apperror.NotFound("price quote expired or not found")
	}
	if err != nil {
		return nil, fmt.Errorf("flight: load quote: %w", err)
	}

	var quote Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return nil, fmt.Errorf("flight: decode quote: %w", err)
	}
	return &quote, nil
}

func fareError(err error) error {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Code != apperror.CodeUpstream {
		return err
	}
	var pe *gds.ProviderError
	if !errors.As(err, &pe) || !pe.IsClientError() {
		return err
	}
	return apperror.FareUnavailable("this fare is no longer available, please choose another offer").
		WithDetail(appErr.Detail).
		WithProviderStatus(pe.Status).
		WithErr(err)
}
