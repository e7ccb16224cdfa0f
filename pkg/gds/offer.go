package gds

import (
	"errors"
	"fmt"
)

// Validate checks the fields every downstream step relies on.
func (o FlightOffer) Validate() error {
	var errs []error
	if o.ID == "" {
		errs = append(errs, errors.New("id is missing"))
	}
	if o.Price.Total == "" && o.Price.GrandTotal == "" {
		errs = append(errs, errors.New("price.total is missing"))
	}
	if len(o.Itineraries) == 0 {
		errs = append(errs, errors.New("no itineraries"))
	}
	for i, it := range o.Itineraries {
		if len(it.Segments) == 0 {
			errs = append(errs, fmt.Errorf("itinerary %d has no segments", i))
		}
	}
	return errors.Join(errs...)
}

// Upstream returns a copy with locally computed fields cleared, suitable for
// sending back to the provider.
func (o FlightOffer) Upstream() FlightOffer {
	out := o
	out.OfferClassification = ""
	out.IsCheapest = false
	out.IsFastest = false
	out.TotalDurationMinutes = 0

	out.Itineraries = make([]Itinerary, len(o.Itineraries))
	for i, it := range o.Itineraries {
		segs := make([]Segment, len(it.Segments))
		for j, s := range it.Segments {
			s.CarrierName = ""
			s.OperatingCarrierName = ""
			s.AircraftName = ""
			s.AirlineLogo = ""
			s.Departure = s.Departure.upstream()
			s.Arrival = s.Arrival.upstream()
			segs[j] = s
		}
		out.Itineraries[i] = Itinerary{Duration: it.Duration, Segments: segs}
	}
	return out
}

func (e Endpoint) upstream() Endpoint {
	return Endpoint{IataCode: e.IataCode, Terminal: e.Terminal, At: e.At}
}
