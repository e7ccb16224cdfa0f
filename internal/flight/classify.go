package flight

import (
	"math"
	"strconv"

	"travelbooking/pkg/gds"
)

// Classify tags the cheapest and fastest offer of a batch. Ties go to the
// first offer in input order. Both flags are kept; the surfaced
// classification prefers Cheapest when one offer holds both.
func Classify(offers []gds.FlightOffer) []gds.FlightOffer {
	out := make([]gds.FlightOffer, len(offers))
	copy(out, offers)
	if len(out) == 0 {
		return out
	}

	cheapest, fastest := 0, 0
	minPrice := math.Inf(1)
	minDuration := math.MaxInt

	for i := range out {
		duration := TotalDurationMinutes(out[i])
		out[i].TotalDurationMinutes = duration
		out[i].IsCheapest = false
		out[i].IsFastest = false

		if price := OfferPrice(out[i]); price < minPrice {
			minPrice = price
			cheapest = i
		}
		if duration < minDuration {
			minDuration = duration
			fastest = i
		}
	}

	out[cheapest].IsCheapest = true
	out[fastest].IsFastest = true

	for i := range out {
		switch {
		case out[i].IsCheapest:
			out[i].OfferClassification = ClassificationCheapest
		case out[i].IsFastest:
			out[i].OfferClassification = ClassificationFastest
		default:
			out[i].OfferClassification = ClassificationNormal
		}
	}
	return out
}

// OfferPrice reads grandTotal, falling back to total. Unparseable prices sort
// last.
func OfferPrice(o gds.FlightOffer) float64 {
	raw := o.Price.GrandTotal
	if raw == "" {
		raw = o.Price.Total
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// Stops is the highest connection count across the offer's itineraries.
func Stops(o gds.FlightOffer) int {
	most := 0
	for _, it := range o.Itineraries {
		stops := 0
		if len(it.Segments) > 1 {
			stops = len(it.Segments) - 1
		}
		for _, seg := range it.Segments {
			stops += seg.NumberOfStops
		}
		most = max(most, stops)
	}
	return most
}
