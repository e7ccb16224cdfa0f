package flight

import (
	"math"
	"sort"

	"travelbooking/pkg/gds"
	"travelbooking/pkg/logger"
)

const (
	priceWeight    = 0.45
	durationWeight = 0.35
	stopsWeight    = 0.20
)

func (s *Service) applySorting(offers []gds.FlightOffer, sortOpt SortOptions) []gds.FlightOffer {
	if len(offers) <= 1 || sortOpt.SortBy == "" {
		return offers
	}

	sorted := make([]gds.FlightOffer, len(offers))
	copy(sorted, offers)

	desc := sortOpt.Order == "desc"
	switch sortOpt.SortBy {
	case "price":
		sortByKey(sorted, desc, OfferPrice)
	case "duration":
		sortByKey(sorted, desc, func(o gds.FlightOffer) float64 { return float64(TotalDurationMinutes(o)) })
	case "departure_time":
		sortByKey(sorted, desc, departureKey)
	case "best_value":
		sortByBestValue(sorted, desc)
	default:
		s.logger.Warn("invalid_sort_criteria", logger.Field{Key: "sort_by", Value: sortOpt.SortBy})
	}

	return sorted
}

func sortByKey(offers []gds.FlightOffer, desc bool, key func(gds.FlightOffer) float64) {
	keys := make([]float64, len(offers))
	for i, o := range offers {
		keys[i] = key(o)
	}
	sortByKeys(offers, keys, desc)
}

// Using Sort Stable to prevent UI jumping when values are equal
func sortByKeys(offers []gds.FlightOffer, keys []float64, desc bool) {
	type keyed struct {
		offer gds.FlightOffer
		key   float64
	}
	tmp := make([]keyed, len(offers))
	for i, o := range offers {
		tmp[i] = keyed{offer: o, key: keys[i]}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if desc {
			return tmp[i].key > tmp[j].key
		}
		return tmp[i].key < tmp[j].key
	})
	for i := range tmp {
		offers[i] = tmp[i].offer
	}
}

func departureKey(o gds.FlightOffer) float64 {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return math.Inf(1)
	}
	t, err := parseOfferTime(o.Itineraries[0].Segments[0].Departure.At)
	if err != nil {
		return math.Inf(1)
	}
	return float64(t.Unix())
}

// sortByBestValue ranks by a weighted score where 1.0 is best on every axis,
// so "asc" puts the best value first.
func sortByBestValue(offers []gds.FlightOffer, desc bool) {
	sortByKeys(offers, bestValueScores(offers), !desc)
}

func bestValueScores(offers []gds.FlightOffer) []float64 {
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minDuration, maxDuration := math.Inf(1), math.Inf(-1)
	minStops, maxStops := math.Inf(1), math.Inf(-1)

	// 1. Determine Ranges
	for _, o := range offers {
		price, duration, stops := OfferPrice(o), float64(TotalDurationMinutes(o)), float64(Stops(o))
		minPrice, maxPrice = math.Min(minPrice, price), math.Max(maxPrice, price)
		minDuration, maxDuration = math.Min(minDuration, duration), math.Max(maxDuration, duration)
		minStops, maxStops = math.Min(minStops, stops), math.Max(maxStops, stops)
	}

	// 2. Normalize and Score
	scores := make([]float64, len(offers))
	for i, o := range offers {
		normPrice := normalize(OfferPrice(o), minPrice, maxPrice)
		normDuration := normalize(float64(TotalDurationMinutes(o)), minDuration, maxDuration)
		normStops := normalize(float64(Stops(o)), minStops, maxStops)
		scores[i] = (priceWeight * normPrice) + (durationWeight * normDuration) + (stopsWeight * normStops)
	}
	return scores
}

func normalize(val, min, max float64) float64 {
	if max > min && !math.IsInf(max, 0) {
		// Invert so that Lower (Price/Duration) = Higher Score (1.0)
		return 1.0 - (val-min)/(max-min)
	}
	return 1.0
}
