package gds

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter("test", io.Discard)
}

func sampleOffer(id, total, duration string) FlightOffer {
	return FlightOffer{
		Type:   "flight-offer",
		ID:     id,
		Source: "GDS",
		Itineraries: []Itinerary{{
			Duration: duration,
			Segments: []Segment{{
				ID:          "1",
				Departure:   Endpoint{IataCode: "LHR", At: "2024-06-01T10:00:00"},
				Arrival:     Endpoint{IataCode: "JFK", At: "2024-06-01T13:00:00"},
				CarrierCode: "BA",
				Number:      "117",
				Aircraft:    Aircraft{Code: "744"},
				Duration:    duration,
			}},
		}},
		Price: Price{Currency: "EUR", Total: total, Base: total, GrandTotal: total},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClientWithHTTP(srv.Client(), Config{BaseURL: srv.URL, MaxOffers: 5}, testLogger(), nil)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_ClientCredentials(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenCalls.Add(1)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "id-123", r.PostForm.Get("client_id"))
			assert.Equal(t, "secret-456", r.PostForm.Get("client_secret"))
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "tok-abc",
				"token_type":   "Bearer",
				"expires_in":   1799,
			})
		case locationsPath:
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []Location{{ID: "CLON", IataCode: "LON", Name: "LONDON"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, ClientID: "id-123", ClientSecret: "secret-456", Timeout: 2 * time.Second}, testLogger(), nil)

	for i := 0; i < 2; i++ {
		locs, err := c.SearchLocations(context.Background(), "lon")
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, "LON", locs[0].IataCode)
	}
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestSearchLocations(t *testing.T) {
	t.Run("empty keyword never reaches provider", func(t *testing.T) {
		var hits atomic.Int32
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

		_, err := c.SearchLocations(context.Background(), "   ")
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		assert.Zero(t, hits.Load())
	})

	t.Run("city and airport subtypes", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "CITY,AIRPORT", r.URL.Query().Get("subType"))
			assert.Equal(t, "PAR", r.URL.Query().Get("keyword"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
		})

		locs, err := c.SearchLocations(context.Background(), "par")
		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("airports only", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "AIRPORT", r.URL.Query().Get("subType"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []Location{{IataCode: "MRU"}}})
		})

		locs, err := c.SearchAirports(context.Background(), "mru")
		require.NoError(t, err)
		assert.Len(t, locs, 1)
	})

	t.Run("provider failure propagates status", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Errors: []Issue{{Status: 500, Code: 141, Title: "SYSTEM ERROR HAS OCCURRED"}}})
		})

		_, err := c.SearchLocations(context.Background(), "lon")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUpstream, appErr.Code)
		assert.Equal(t, http.StatusInternalServerError, appErr.ProviderStatus)
		assert.Equal(t, "SYSTEM ERROR HAS OCCURRED", appErr.Detail)
	})
}

func TestSearchOffers(t *testing.T) {
	valid := SearchParams{Origin: "lhr", Destination: "jfk", DepartureDate: "2024-06-01", Adults: 1}

	t.Run("missing fields are rejected locally", func(t *testing.T) {
		var hits atomic.Int32
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

		_, err := c.SearchOffers(context.Background(), SearchParams{Origin: "LHR"})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Detail, "destinationLocationCode")
		assert.Contains(t, appErr.Detail, "departureDate")
		assert.Contains(t, appErr.Detail, "adults")
		assert.Zero(t, hits.Load())
	})

	t.Run("empty result is NO_RESULTS", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, OfferBatch{Data: []FlightOffer{}})
		})

		_, err := c.SearchOffers(context.Background(), valid)
		assert.True(t, apperror.HasCode(err, apperror.CodeNoResults))
	})

	t.Run("query and malformed offers", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "LHR", q.Get("originLocationCode"))
			assert.Equal(t, "JFK", q.Get("destinationLocationCode"))
			assert.Equal(t, "1", q.Get("adults"))
			assert.Equal(t, "5", q.Get("max"))
			assert.Empty(t, q.Get("returnDate"))

			broken := sampleOffer("2", "", "PT7H")
			broken.Price = Price{}
			writeJSON(w, http.StatusOK, OfferBatch{
				Data:         []FlightOffer{sampleOffer("1", "300.00", "PT7H"), broken},
				Dictionaries: Dictionaries{Carriers: map[string]string{"BA": "BRITISH AIRWAYS"}},
			})
		})

		batch, err := c.SearchOffers(context.Background(), valid)
		require.NoError(t, err)
		require.Len(t, batch.Data, 1)
		assert.Equal(t, "1", batch.Data[0].ID)
		assert.Equal(t, 1, batch.Meta.Count)
		assert.Equal(t, "BRITISH AIRWAYS", batch.Dictionaries.Carriers["BA"])
	})
}

func TestConfirmPricing(t *testing.T) {
	t.Run("sends a single stripped offer", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, pricingPath, r.URL.Path)

			var body struct {
				Data struct {
					Type         string           `json:"type"`
					FlightOffers []map[string]any `json:"flightOffers"`
				} `json:"data"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "flight-offers-pricing", body.Data.Type)
			if assert.Len(t, body.Data.FlightOffers, 1) {
				assert.NotContains(t, body.Data.FlightOffers[0], "offerClassification")
			}

			confirmed := sampleOffer("1", "310.00", "PT7H")
			writeJSON(w, http.StatusOK, PricedOffer{Data: PricingData{Type: "flight-offers-pricing", FlightOffers: []FlightOffer{confirmed}}})
		})

		offer := sampleOffer("1", "300.00", "PT7H")
		offer.OfferClassification = "Cheapest"
		offer.Itineraries[0].Segments[0].CarrierName = "British Airways"

		priced, err := c.ConfirmPricing(context.Background(), offer)
		require.NoError(t, err)
		assert.Equal(t, "310.00", priced.Data.FlightOffers[0].Price.Total)
		assert.Equal(t, "Cheapest", offer.OfferClassification)
	})

	t.Run("provider rejection keeps status and detail", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Errors: []Issue{{
				Status: 400, Code: 37200, Title: "PRICE DISCREPANCY", Detail: "Current grandTotal price is different",
			}}})
		})

		_, err := c.ConfirmPricing(context.Background(), sampleOffer("1", "300.00", "PT7H"))
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUpstream, appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.ProviderStatus)
		assert.Equal(t, "PRICE DISCREPANCY: Current grandTotal price is different", appErr.Detail)
	})

	t.Run("invalid offer is not sent", func(t *testing.T) {
		var hits atomic.Int32
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

		_, err := c.ConfirmPricing(context.Background(), FlightOffer{})
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		assert.Zero(t, hits.Load())
	})
}

func TestCreateOrder(t *testing.T) {
	travelers := []Traveler{{ID: "1", DateOfBirth: "1990-01-01", Gender: "MALE", Name: TravelerName{FirstName: "JOHN", LastName: "DOE"}}}
	contacts := []Contact{{EmailAddress: "john@example.com", Address: Address{Lines: AddressLines{"1 Main St"}}}}

	t.Run("success", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, ordersPath, r.URL.Path)
			var body struct {
				Data orderRequest `json:"data"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "flight-order", body.Data.Type)
			assert.Len(t, body.Data.Travelers, 1)
			assert.Equal(t, AddressLines{"1 Main St"}, body.Data.Contacts[0].Address.Lines)

			writeJSON(w, http.StatusCreated, map[string]any{"data": Order{
				Type: "flight-order", ID: "eJzTd9f3NjIJdzUGAAp%2fAiY=",
				AssociatedRecords: []AssociatedRecord{{Reference: "KDHCZW"}},
			}})
		})

		order, err := c.CreateOrder(context.Background(), sampleOffer("1", "300.00", "PT7H"), travelers, contacts)
		require.NoError(t, err)
		assert.Equal(t, "eJzTd9f3NjIJdzUGAAp%2fAiY=", order.ID)
		assert.Equal(t, "KDHCZW", order.AssociatedRecords[0].Reference)
	})

	t.Run("rejection is BOOKING_ERROR", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Errors: []Issue{{Status: 400, Code: 34651, Title: "SEGMENT SELL FAILURE", Detail: "Could not sell segment 1"}}})
		})

		_, err := c.CreateOrder(context.Background(), sampleOffer("1", "300.00", "PT7H"), travelers, contacts)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeBooking, appErr.Code)
		assert.True(t, appErr.Attempted)
		assert.Contains(t, appErr.Detail, "SEGMENT SELL FAILURE")
	})

	t.Run("unreachable provider", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		c := NewClientWithHTTP(http.DefaultClient, Config{BaseURL: srv.URL}, testLogger(), nil)

		_, err := c.SearchAirports(context.Background(), "lhr")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUpstream, appErr.Code)
		assert.Zero(t, appErr.ProviderStatus)
	})
}
