package flight

import (
	"encoding/json"
	"time"

	"travelbooking/pkg/gds"
)

const (
	ClassificationCheapest = "Cheapest"
	ClassificationFastest  = "Fastest"
	ClassificationNormal   = "Normal"
)

type SearchRequest struct {
	Origin        string `form:"originLocationCode" json:"originLocationCode"`
	Destination   string `form:"destinationLocationCode" json:"destinationLocationCode"`
	DepartureDate string `form:"departureDate" json:"departureDate"`
	ReturnDate    string `form:"returnDate" json:"returnDate,omitempty"`
	Adults        int    `form:"adults" json:"adults"`

	FilterOptions
	SortOptions
}

func (r SearchRequest) params() gds.SearchParams {
	return gds.SearchParams{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
		Adults:        r.Adults,
	}
}

type FilterOptions struct {
	MaxPrice      *float64 `form:"maxPrice" json:"maxPrice,omitempty"`
	MaxStops      *int     `form:"maxStops" json:"maxStops,omitempty"`
	MaxDuration   *int     `form:"maxDuration" json:"maxDuration,omitempty"` // minutes
	Airlines      []string `form:"airlines" json:"airlines,omitempty"`
	DepartureFrom string   `form:"departureFrom" json:"departureFrom,omitempty"` // HH:MM
	DepartureTo   string   `form:"departureTo" json:"departureTo,omitempty"`
}

func (f FilterOptions) active() bool {
	return f.MaxPrice != nil || f.MaxStops != nil || f.MaxDuration != nil ||
		len(f.Airlines) > 0 || f.DepartureFrom != "" || f.DepartureTo != ""
}

type SortOptions struct {
	SortBy string `form:"sortBy" json:"sortBy,omitempty"` // price, duration, departure_time, best_value
	Order  string `form:"order" json:"order,omitempty"`   // asc, desc
}

type Metadata struct {
	TotalResults int    `json:"totalResults"`
	SearchTimeMs int64  `json:"searchTimeMs"`
	CacheHit     bool   `json:"cacheHit"`
	CacheKey     string `json:"cacheKey,omitempty"`
	Message      string `json:"message,omitempty"`
}

type SearchResponse struct {
	Metadata     Metadata          `json:"meta"`
	Data         []gds.FlightOffer `json:"data"`
	Dictionaries gds.Dictionaries  `json:"dictionaries"`
}

type PricingRequest struct {
	FlightOffers []gds.FlightOffer `json:"flightOffers"`
}

type PricingData struct {
	Type                string            `json:"type"`
	FlightOffers        []gds.FlightOffer `json:"flightOffers"`
	BookingRequirements json.RawMessage   `json:"bookingRequirements,omitempty"`
}

type PricingResponse struct {
	Data         PricingData `json:"data"`
	QuoteID      string      `json:"quoteId,omitempty"`
	PriceChanged bool        `json:"priceChanged"`
}

// Quote is a confirmed offer held server-side between pricing and checkout.
type Quote struct {
	ID        string          `json:"id"`
	Offer     gds.FlightOffer `json:"offer"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}
