package gdsmock

import (
	"fmt"
	"strings"
	"time"

	"travelbooking/pkg/gds"
)

var locations = []gds.Location{
	airport("LHR", "HEATHROW", "LONDON", "LON", "GB", "UNITED KINGDOM", 51.47, -0.45),
	airport("LGW", "GATWICK", "LONDON", "LON", "GB", "UNITED KINGDOM", 51.15, -0.18),
	city("LON", "LONDON", "GB", "UNITED KINGDOM", 51.50, -0.12),
	airport("JFK", "JOHN F KENNEDY INTL", "NEW YORK", "NYC", "US", "UNITED STATES OF AMERICA", 40.64, -73.78),
	city("NYC", "NEW YORK", "US", "UNITED STATES OF AMERICA", 40.71, -74.00),
	airport("CDG", "CHARLES DE GAULLE", "PARIS", "PAR", "FR", "FRANCE", 49.01, 2.55),
	airport("DXB", "DUBAI INTL", "DUBAI", "DXB", "AE", "UNITED ARAB EMIRATES", 25.25, 55.36),
	airport("MRU", "SIR SEEWOOSAGUR RAMGOOLAM", "MAURITIUS", "MRU", "MU", "MAURITIUS", -20.43, 57.68),
}

func airport(iata, name, cityName, cityCode, country, countryName string, lat, lon float64) gds.Location {
	return gds.Location{
		Type:         "location",
		SubType:      "AIRPORT",
		ID:           "A" + iata,
		Name:         name,
		DetailedName: cityName + "/" + country + ":" + name,
		IataCode:     iata,
		GeoCode:      gds.GeoCode{Latitude: lat, Longitude: lon},
		Address: gds.LocationAddress{
			CityName:    cityName,
			CityCode:    cityCode,
			CountryName: countryName,
			CountryCode: country,
		},
	}
}

func city(iata, name, country, countryName string, lat, lon float64) gds.Location {
	return gds.Location{
		Type:         "location",
		SubType:      "CITY",
		ID:           "C" + iata,
		Name:         name,
		DetailedName: name + "/" + country,
		IataCode:     iata,
		GeoCode:      gds.GeoCode{Latitude: lat, Longitude: lon},
		Address: gds.LocationAddress{
			CityName:    name,
			CityCode:    iata,
			CountryName: countryName,
			CountryCode: country,
		},
	}
}

func findLocations(keyword string, subTypes []string) []gds.Location {
	keyword = strings.ToUpper(keyword)
	out := []gds.Location{}
	for _, l := range locations {
		if !contains(subTypes, l.SubType) {
			continue
		}
		if strings.HasPrefix(l.IataCode, keyword) || strings.HasPrefix(l.Name, keyword) || strings.HasPrefix(l.Address.CityName, keyword) {
			out = append(out, l)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func airportByCode(code string) (gds.Location, bool) {
	for _, l := range locations {
		if l.SubType == "AIRPORT" && l.IataCode == code {
			return l, true
		}
	}
	return gds.Location{}, false
}

type leg struct {
	carrier  string
	number   int
	aircraft string
	via      string
	depart   time.Duration // after midnight
	minutes  []int         // per segment
	layover  int
	total    string
	base     string
}

var schedule = []leg{
	{carrier: "BA", number: 117, aircraft: "744", depart: 10 * time.Hour, minutes: []int{470}, total: "612.40", base: "402.00"},
	{carrier: "AF", number: 1281, aircraft: "320", via: "CDG", depart: 7*time.Hour + 15*time.Minute, minutes: []int{75, 500}, layover: 110, total: "455.10", base: "301.00"},
	{carrier: "EK", number: 2, aircraft: "388", via: "DXB", depart: 21*time.Hour + 40*time.Minute, minutes: []int{415, 835}, layover: 165, total: "455.10", base: "280.00"},
}

// offersFor builds a deterministic batch for any pair of known airports.
func offersFor(origin, destination, date, currency string, adults int) ([]gds.FlightOffer, gds.Dictionaries, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, gds.Dictionaries{}, fmt.Errorf("departureDate %q is not YYYY-MM-DD", date)
	}
	from, okFrom := airportByCode(origin)
	to, okTo := airportByCode(destination)
	if !okFrom || !okTo || origin == destination {
		return []gds.FlightOffer{}, gds.Dictionaries{}, nil
	}

	offers := make([]gds.FlightOffer, 0, len(schedule))
	for i, l := range schedule {
		if l.via == origin || l.via == destination {
			continue
		}
		offers = append(offers, buildOffer(fmt.Sprint(i+1), day, from.IataCode, to.IataCode, l, currency, adults))
	}

	dict := gds.Dictionaries{
		Locations:  map[string]gds.LocationEntry{},
		Aircraft:   map[string]string{"744": "BOEING 747-400", "320": "AIRBUS A320", "388": "AIRBUS A380-800"},
		Currencies: map[string]string{currency: currency},
		Carriers:   map[string]string{"BA": "BRITISH AIRWAYS", "AF": "AIR FRANCE", "EK": "EMIRATES"},
	}
	for _, l := range locations {
		if l.SubType == "AIRPORT" {
			dict.Locations[l.IataCode] = gds.LocationEntry{CityCode: l.Address.CityCode, CountryCode: l.Address.CountryCode}
		}
	}
	return offers, dict, nil
}

func buildOffer(id string, day time.Time, origin, destination string, l leg, currency string, adults int) gds.FlightOffer {
	at := day.Add(l.depart)

	stops := []string{origin, destination}
	if l.via != "" {
		stops = []string{origin, l.via, destination}
	}

	segments := make([]gds.Segment, 0, len(l.minutes))
	total := 0
	for i, minutes := range l.minutes {
		arrive := at.Add(time.Duration(minutes) * time.Minute)
		segments = append(segments, gds.Segment{
			ID:          fmt.Sprintf("%s%d", id, i+1),
			Departure:   gds.Endpoint{IataCode: stops[i], At: at.Format("2006-01-02T15:04:05")},
			Arrival:     gds.Endpoint{IataCode: stops[i+1], At: arrive.Format("2006-01-02T15:04:05")},
			CarrierCode: l.carrier,
			Number:      fmt.Sprint(l.number + i),
			Aircraft:    gds.Aircraft{Code: l.aircraft},
			Duration:    isoDuration(minutes),
		})
		total += minutes
		at = arrive.Add(time.Duration(l.layover) * time.Minute)
		if i < len(l.minutes)-1 {
			total += l.layover
		}
	}

	price := gds.Price{Currency: currency, Total: l.total, Base: l.base, GrandTotal: l.total}
	pricings := make([]gds.TravelerPricing, 0, adults)
	for t := 1; t <= adults; t++ {
		pricings = append(pricings, gds.TravelerPricing{
			TravelerID:   fmt.Sprint(t),
			FareOption:   "STANDARD",
			TravelerType: "ADULT",
			Price:        gds.Price{Currency: currency, Total: l.total, Base: l.base},
		})
	}

	return gds.FlightOffer{
		Type:                   "flight-offer",
		ID:                     id,
		Source:                 "GDS",
		OneWay:                 true,
		LastTicketingDate:      day.Format("2006-01-02"),
		NumberOfBookableSeats:  9,
		Itineraries:            []gds.Itinerary{{Duration: isoDuration(total), Segments: segments}},
		Price:                  price,
		PricingOptions:         &gds.PricingOptions{FareType: []string{"PUBLISHED"}, IncludedCheckedBagsOnly: true},
		ValidatingAirlineCodes: []string{l.carrier},
		TravelerPricings:       pricings,
	}
}

func isoDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case m == 0:
		return fmt.Sprintf("PT%dH", h)
	case h == 0:
		return fmt.Sprintf("PT%dM", m)
	}
	return fmt.Sprintf("PT%dH%dM", h, m)
}
