package flight

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/gds"
)

func TestConfirmPricing_StoresQuote(t *testing.T) {
	client := new(mockGDS)
	svc, _ := newTestService(t, client)

	selected := Classify([]gds.FlightOffer{offer("1", "300.00", "PT7H")})[0]
	NewEnricher("").Enrich(&selected, lhrJfkDictionaries())

	client.On("ConfirmPricing", mock.Anything, selected).Return(&gds.PricedOffer{
		Data: gds.PricingData{Type: "flight-offers-pricing", FlightOffers: []gds.FlightOffer{offer("1", "312.40", "PT7H")}},
	}, nil)

	resp, err := svc.ConfirmPricing(context.Background(), selected)
	require.NoError(t, err)
	require.Len(t, resp.Data.FlightOffers, 1)

	confirmed := resp.Data.FlightOffers[0]
	assert.Equal(t, "312.40", confirmed.Price.GrandTotal)
	assert.True(t, resp.PriceChanged)
	assert.Equal(t, "British Airways", confirmed.Itineraries[0].Segments[0].CarrierName)
	assert.Equal(t, ClassificationCheapest, confirmed.OfferClassification)
	require.NotEmpty(t, resp.QuoteID)

	quote, err := svc.LoadQuote(context.Background(), resp.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, confirmed, quote.Offer)
}

func TestConfirmPricing_RejectionIsFareUnavailable(t *testing.T) {
	client := new(mockGDS)
	svc, _ := newTestService(t, client)

	client.On("ConfirmPricing", mock.Anything, mock.Anything).
		Return(nil, pricingRejection(http.StatusBadRequest, "PRICE DISCREPANCY"))

	_, err := svc.ConfirmPricing(context.Background(), offer("1", "300.00", "PT7H"))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeFareUnavailable, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "PRICE DISCREPANCY", appErr.Detail)
}

func TestConfirmPricing_ServerErrorStaysUpstream(t *testing.T) {
	client := new(mockGDS)
	svc, _ := newTestService(t, client)

	client.On("ConfirmPricing", mock.Anything, mock.Anything).
		Return(nil, pricingRejection(http.StatusServiceUnavailable, "SYSTEM ERROR HAS OCCURRED"))

	_, err := svc.ConfirmPricing(context.Background(), offer("1", "300.00", "PT7H"))
	assert.True(t, apperror.HasCode(err, apperror.CodeUpstream))
}

func TestConfirmPricing_TransportErrorStaysUpstream(t *testing.T) {
	client := new(mockGDS)
	svc, _ := newTestService(t, client)

	// no provider body behind it, so nothing says the fare was refused
	client.On("ConfirmPricing", mock.Anything, mock.Anything).
		Return(nil, apperror.Upstream("price confirmation failed").WithErr(errors.New("connection reset by peer")))

	_, err := svc.ConfirmPricing(context.Background(), offer("1", "300.00", "PT7H"))
	assert.True(t, apperror.HasCode(err, apperror.CodeUpstream))
}

func TestLoadQuote_Missing(t *testing.T) {
	svc, _ := newTestService(t, new(mockGDS))

	_, err := svc.LoadQuote(context.Background(), "nope")
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}
