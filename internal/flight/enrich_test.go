package flight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbooking/pkg/gds"
)

func TestEnrich_Segment(t *testing.T) {
	e := NewEnricher("")
	o := offer("1", "300.00", "PT7H")

	e.Enrich(&o, lhrJfkDictionaries())

	seg := o.Itineraries[0].Segments[0]
	assert.Equal(t, "British Airways", seg.CarrierName)
	assert.Equal(t, "American Airlines", seg.OperatingCarrierName)
	assert.Equal(t, "Boeing 747-400", seg.AircraftName)
	assert.Equal(t, "https://pics.avs.io/200/80/BA.png", seg.AirlineLogo)
	assert.Equal(t, "LON", seg.Departure.CityCode)
	assert.Equal(t, "United Kingdom", seg.Departure.CountryName)
	assert.Equal(t, "United States", seg.Arrival.CountryName)
}

func TestEnrich_UnknownCodesFallBack(t *testing.T) {
	e := NewEnricher("https://logos.test/%s.png")
	o := offer("1", "300.00", "PT7H")
	o.Itineraries[0].Segments[0].CarrierCode = "Q9"
	o.Itineraries[0].Segments[0].Aircraft.Code = "ZZZ"

	e.Enrich(&o, gds.Dictionaries{})

	seg := o.Itineraries[0].Segments[0]
	assert.Equal(t, "Q9", seg.CarrierName)
	assert.Equal(t, "ZZZ", seg.AircraftName)
	assert.Equal(t, "https://logos.test/Q9.png", seg.AirlineLogo)
	assert.Empty(t, seg.Departure.CountryName)
}

func TestEnrich_Idempotent(t *testing.T) {
	e := NewEnricher("")
	dict := lhrJfkDictionaries()

	once := offer("1", "300.00", "PT7H")
	e.Enrich(&once, dict)

	twice := offer("1", "300.00", "PT7H")
	e.Enrich(&twice, dict)
	e.Enrich(&twice, dict)

	assert.Equal(t, once, twice)
}

func TestEnrich_KeepsRicherNameWithSparseDictionary(t *testing.T) {
	e := NewEnricher("")
	o := offer("1", "300.00", "PT7H")
	o.Itineraries[0].Segments[0].CarrierCode = "Q9"

	e.Enrich(&o, gds.Dictionaries{Carriers: map[string]string{"Q9": "QUEST AIR"}})
	require.Equal(t, "Quest Air", o.Itineraries[0].Segments[0].CarrierName)

	e.Enrich(&o, gds.Dictionaries{})
	assert.Equal(t, "Quest Air", o.Itineraries[0].Segments[0].CarrierName)
}

func TestEnrichBatch(t *testing.T) {
	e := NewEnricher("")
	offers := make([]gds.FlightOffer, 40)
	for i := range offers {
		offers[i] = offer("x", "100.00", "PT1H")
	}

	require.NoError(t, e.EnrichBatch(context.Background(), offers, lhrJfkDictionaries()))
	for _, o := range offers {
		assert.Equal(t, "British Airways", o.Itineraries[0].Segments[0].CarrierName)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.EnrichBatch(ctx, offers, gds.Dictionaries{}), context.Canceled)
}

func TestInheritNames(t *testing.T) {
	e := NewEnricher("")
	selected := offer("1", "300.00", "PT7H")
	e.Enrich(&selected, lhrJfkDictionaries())

	confirmed := offer("1", "310.00", "PT7H")
	inheritNames(&confirmed, selected)
	e.Enrich(&confirmed, gds.Dictionaries{})

	seg := confirmed.Itineraries[0].Segments[0]
	assert.Equal(t, "British Airways", seg.CarrierName)
	assert.Equal(t, "Boeing 747-400", seg.AircraftName)
	assert.Equal(t, "United Kingdom", seg.Departure.CountryName)
}
