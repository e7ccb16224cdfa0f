package flight

import (
	"strings"
	"time"

	"travelbooking/pkg/gds"
)

const offerTimeLayout = "2006-01-02T15:04:05"

// filterContext holds parsed data so we don't re-parse inside the loop
type filterContext struct {
	opts     FilterOptions
	airlines []string
	depFrom  int64
	depTo    int64
}

func newFilterContext(opts FilterOptions) *filterContext {
	fc := &filterContext{opts: opts, depFrom: 0, depTo: 24*3600 - 1}

	for _, a := range opts.Airlines {
		for _, code := range strings.Split(a, ",") {
			if code = strings.TrimSpace(code); code != "" {
				fc.airlines = append(fc.airlines, code)
			}
		}
	}
	if opts.DepartureFrom != "" {
		fc.depFrom = parseTimeToSeconds(opts.DepartureFrom, fc.depFrom)
	}
	if opts.DepartureTo != "" {
		fc.depTo = parseTimeToSeconds(opts.DepartureTo, fc.depTo)
	}
	return fc
}

// applyFilters runs after classification so badges reflect the full batch.
func applyFilters(offers []gds.FlightOffer, opts FilterOptions) []gds.FlightOffer {
	fc := newFilterContext(opts)

	filtered := make([]gds.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if fc.matches(o) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// matches returns true only if ALL active filters pass
func (fc *filterContext) matches(o gds.FlightOffer) bool {
	if fc.opts.MaxPrice != nil && OfferPrice(o) > *fc.opts.MaxPrice {
		return false
	}

	if fc.opts.MaxStops != nil && Stops(o) > *fc.opts.MaxStops {
		return false
	}

	if fc.opts.MaxDuration != nil && TotalDurationMinutes(o) > *fc.opts.MaxDuration {
		return false
	}

	if fc.opts.DepartureFrom != "" || fc.opts.DepartureTo != "" {
		depSec, ok := firstDepartureSeconds(o)
		if !ok || depSec < fc.depFrom || depSec > fc.depTo {
			return false
		}
	}

	// Airlines (String comparison is heaviest, do last)
	if len(fc.airlines) > 0 {
		matched := false
		for _, airline := range fc.airlines {
			if offerFlies(o, airline) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func offerFlies(o gds.FlightOffer, airline string) bool {
	for _, code := range o.ValidatingAirlineCodes {
		if strings.EqualFold(code, airline) {
			return true
		}
	}
	for _, it := range o.Itineraries {
		for _, s := range it.Segments {
			if strings.EqualFold(s.CarrierCode, airline) || strings.EqualFold(s.CarrierName, airline) {
				return true
			}
		}
	}
	return false
}

func firstDepartureSeconds(o gds.FlightOffer) (int64, bool) {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return 0, false
	}
	t, err := parseOfferTime(o.Itineraries[0].Segments[0].Departure.At)
	if err != nil {
		return 0, false
	}
	return getSecondsFromMidnight(t), true
}

// Provider timestamps are local to the airport and carry no offset.
func parseOfferTime(s string) (time.Time, error) {
	return time.Parse(offerTimeLayout, s)
}

// Helper functions for time conversion
func parseTimeToSeconds(timeStr string, fallback int64) int64 {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return fallback
	}
	return int64(t.Hour()*3600 + t.Minute()*60)
}

func getSecondsFromMidnight(dt time.Time) int64 {
	return int64(dt.Hour()*3600 + dt.Minute()*60 + dt.Second())
}
