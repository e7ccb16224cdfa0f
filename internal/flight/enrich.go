package flight

import (
	"context"

	"golang.org/x/sync/errgroup"

	"travelbooking/pkg/gds"
	"travelbooking/pkg/refdata"
)

const enrichConcurrency = 8

type Enricher struct {
	logoTemplate string
}

func NewEnricher(logoTemplate string) *Enricher {
	if logoTemplate == "" {
		logoTemplate = refdata.DefaultLogoTemplate
	}
	return &Enricher{logoTemplate: logoTemplate}
}

// EnrichBatch enriches every offer concurrently and joins before returning.
// Offers are modified in place; dict is only read.
func (e *Enricher) EnrichBatch(ctx context.Context, offers []gds.FlightOffer, dict gds.Dictionaries) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i := range offers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Enrich(&offers[i], dict)
			return nil
		})
	}
	return g.Wait()
}

// Enrich fills display names, logos and country data on every segment.
// Applying it twice yields the same offer.
func (e *Enricher) Enrich(o *gds.FlightOffer, dict gds.Dictionaries) {
	for i := range o.Itineraries {
		segs := o.Itineraries[i].Segments
		for j := range segs {
			e.enrichSegment(&segs[j], dict)
		}
	}
}

func (e *Enricher) enrichSegment(s *gds.Segment, dict gds.Dictionaries) {
	s.CarrierName = prefer(s.CarrierName, refdata.CarrierName(s.CarrierCode, dict.Carriers), s.CarrierCode)
	if s.Operating != nil && s.Operating.CarrierCode != "" {
		s.OperatingCarrierName = prefer(s.OperatingCarrierName,
			refdata.CarrierName(s.Operating.CarrierCode, dict.Carriers), s.Operating.CarrierCode)
	}
	s.AircraftName = prefer(s.AircraftName, refdata.AircraftName(s.Aircraft.Code, dict.Aircraft), s.Aircraft.Code)
	if s.CarrierCode != "" {
		s.AirlineLogo = refdata.LogoURL(e.logoTemplate, s.CarrierCode)
	}
	enrichEndpoint(&s.Departure, dict)
	enrichEndpoint(&s.Arrival, dict)
}

func enrichEndpoint(ep *gds.Endpoint, dict gds.Dictionaries) {
	if loc, ok := dict.Locations[ep.IataCode]; ok {
		if ep.CityCode == "" {
			ep.CityCode = loc.CityCode
		}
		if ep.CountryCode == "" {
			ep.CountryCode = loc.CountryCode
		}
	}
	if ep.CountryCode != "" {
		ep.CountryName = prefer(ep.CountryName, refdata.CountryName(ep.CountryCode), ep.CountryCode)
	}
}

// prefer keeps current unless the lookup found something richer than the
// bare code.
func prefer(current, looked, code string) string {
	if current == "" {
		return looked
	}
	if looked == code {
		return current
	}
	return looked
}

// inheritNames copies display data from the offer the user selected onto the
// re-priced offer for segments that still fly the same carrier and flight.
func inheritNames(confirmed *gds.FlightOffer, selected gds.FlightOffer) {
	type key struct{ carrier, number, from, to string }
	known := make(map[key]gds.Segment)
	for _, it := range selected.Itineraries {
		for _, s := range it.Segments {
			known[key{s.CarrierCode, s.Number, s.Departure.IataCode, s.Arrival.IataCode}] = s
		}
	}

	for i := range confirmed.Itineraries {
		segs := confirmed.Itineraries[i].Segments
		for j := range segs {
			s := &segs[j]
			prev, ok := known[key{s.CarrierCode, s.Number, s.Departure.IataCode, s.Arrival.IataCode}]
			if !ok {
				continue
			}
			if s.CarrierName == "" {
				s.CarrierName = prev.CarrierName
			}
			if s.OperatingCarrierName == "" {
				s.OperatingCarrierName = prev.OperatingCarrierName
			}
			if s.AircraftName == "" && s.Aircraft.Code == prev.Aircraft.Code {
				s.AircraftName = prev.AircraftName
			}
			inheritEndpoint(&s.Departure, prev.Departure)
			inheritEndpoint(&s.Arrival, prev.Arrival)
		}
	}
}

func inheritEndpoint(dst *gds.Endpoint, src gds.Endpoint) {
	if dst.CityCode == "" {
		dst.CityCode = src.CityCode
	}
	if dst.CountryCode == "" {
		dst.CountryCode = src.CountryCode
	}
	if dst.CountryName == "" {
		dst.CountryName = src.CountryName
	}
}
