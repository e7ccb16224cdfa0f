package gds

import "encoding/json"

type Location struct {
	Type         string          `json:"type,omitempty"`
	SubType      string          `json:"subType,omitempty"`
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DetailedName string          `json:"detailedName,omitempty"`
	IataCode     string          `json:"iataCode"`
	GeoCode      GeoCode         `json:"geoCode"`
	Address      LocationAddress `json:"address"`
}

type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationAddress struct {
	CityName    string `json:"cityName,omitempty"`
	CityCode    string `json:"cityCode,omitempty"`
	CountryName string `json:"countryName,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	RegionCode  string `json:"regionCode,omitempty"`
}

type SearchParams struct {
	Origin        string `json:"originLocationCode" validate:"required,len=3,alpha"`
	Destination   string `json:"destinationLocationCode" validate:"required,len=3,alpha"`
	DepartureDate string `json:"departureDate" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults        int    `json:"adults" validate:"required,min=1,max=9"`
	CurrencyCode  string `json:"currencyCode,omitempty" validate:"omitempty,len=3"`
}

// FlightOffer mirrors the provider's offer. Fields after TravelerPricings are
// computed locally and stripped before the offer is sent back upstream.
type FlightOffer struct {
	Type                     string            `json:"type,omitempty"`
	ID                       string            `json:"id"`
	Source                   string            `json:"source,omitempty"`
	InstantTicketingRequired bool              `json:"instantTicketingRequired"`
	NonHomogeneous           bool              `json:"nonHomogeneous"`
	OneWay                   bool              `json:"oneWay"`
	IsUpsellOffer            bool              `json:"isUpsellOffer,omitempty"`
	LastTicketingDate        string            `json:"lastTicketingDate,omitempty"`
	LastTicketingDateTime    string            `json:"lastTicketingDateTime,omitempty"`
	NumberOfBookableSeats    int               `json:"numberOfBookableSeats,omitempty"`
	Itineraries              []Itinerary       `json:"itineraries"`
	Price                    Price             `json:"price"`
	PricingOptions           *PricingOptions   `json:"pricingOptions,omitempty"`
	ValidatingAirlineCodes   []string          `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings         []TravelerPricing `json:"travelerPricings,omitempty"`

	OfferClassification  string `json:"offerClassification,omitempty"`
	IsCheapest           bool   `json:"isCheapest,omitempty"`
	IsFastest            bool   `json:"isFastest,omitempty"`
	TotalDurationMinutes int    `json:"totalDurationMinutes,omitempty"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	ID              string     `json:"id"`
	Departure       Endpoint   `json:"departure"`
	Arrival         Endpoint   `json:"arrival"`
	CarrierCode     string     `json:"carrierCode"`
	Number          string     `json:"number"`
	Aircraft        Aircraft   `json:"aircraft"`
	Operating       *Operating `json:"operating,omitempty"`
	Duration        string     `json:"duration,omitempty"`
	NumberOfStops   int        `json:"numberOfStops"`
	BlacklistedInEU bool       `json:"blacklistedInEU"`

	CarrierName          string `json:"carrierName,omitempty"`
	OperatingCarrierName string `json:"operatingCarrierName,omitempty"`
	AircraftName         string `json:"aircraftName,omitempty"`
	AirlineLogo          string `json:"airlineLogo,omitempty"`
}

type Endpoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`

	CityCode    string `json:"cityCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	CountryName string `json:"countryName,omitempty"`
}

type Aircraft struct {
	Code string `json:"code"`
}

type Operating struct {
	CarrierCode string `json:"carrierCode,omitempty"`
}

type Price struct {
	Currency        string `json:"currency"`
	Total           string `json:"total"`
	Base            string `json:"base"`
	Fees            []Fee  `json:"fees,omitempty"`
	GrandTotal      string `json:"grandTotal,omitempty"`
	BillingCurrency string `json:"billingCurrency,omitempty"`
}

type Fee struct {
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

type PricingOptions struct {
	FareType                []string `json:"fareType,omitempty"`
	IncludedCheckedBagsOnly bool     `json:"includedCheckedBagsOnly"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareOption           string       `json:"fareOption"`
	TravelerType         string       `json:"travelerType"`
	Price                Price        `json:"price"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

type FareDetail struct {
	SegmentID           string       `json:"segmentId"`
	Cabin               string       `json:"cabin,omitempty"`
	FareBasis           string       `json:"fareBasis,omitempty"`
	BrandedFare         string       `json:"brandedFare,omitempty"`
	Class               string       `json:"class,omitempty"`
	IncludedCheckedBags *CheckedBags `json:"includedCheckedBags,omitempty"`
}

type CheckedBags struct {
	Quantity   int    `json:"quantity,omitempty"`
	Weight     int    `json:"weight,omitempty"`
	WeightUnit string `json:"weightUnit,omitempty"`
}

type Dictionaries struct {
	Locations  map[string]LocationEntry `json:"locations,omitempty"`
	Aircraft   map[string]string        `json:"aircraft,omitempty"`
	Currencies map[string]string        `json:"currencies,omitempty"`
	Carriers   map[string]string        `json:"carriers,omitempty"`
}

type LocationEntry struct {
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}

// Merge fills gaps in d from other without overwriting existing entries.
func (d *Dictionaries) Merge(other Dictionaries) {
	if d.Locations == nil {
		d.Locations = map[string]LocationEntry{}
	}
	for k, v := range other.Locations {
		if _, ok := d.Locations[k]; !ok {
			d.Locations[k] = v
		}
	}
	d.Aircraft = mergeStrings(d.Aircraft, other.Aircraft)
	d.Currencies = mergeStrings(d.Currencies, other.Currencies)
	d.Carriers = mergeStrings(d.Carriers, other.Carriers)
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

type Meta struct {
	Count int `json:"count"`
}

type OfferBatch struct {
	Meta         Meta          `json:"meta"`
	Data         []FlightOffer `json:"data"`
	Dictionaries Dictionaries  `json:"dictionaries"`
}

type PricedOffer struct {
	Data         PricingData  `json:"data"`
	Dictionaries Dictionaries `json:"dictionaries,omitempty"`
}

type PricingData struct {
	Type                string          `json:"type"`
	FlightOffers        []FlightOffer   `json:"flightOffers"`
	BookingRequirements json.RawMessage `json:"bookingRequirements,omitempty"`
}

type Traveler struct {
	ID          string          `json:"id" validate:"required"`
	DateOfBirth string          `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Name        TravelerName    `json:"name"`
	Gender      string          `json:"gender" validate:"required,oneof=MALE FEMALE"`
	Contact     TravelerContact `json:"contact"`
	Documents   []Document      `json:"documents,omitempty" validate:"omitempty,dive"`
}

type TravelerName struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type TravelerContact struct {
	EmailAddress string  `json:"emailAddress" validate:"required,email"`
	Phones       []Phone `json:"phones" validate:"required,min=1,dive"`
}

type Phone struct {
	DeviceType         string `json:"deviceType" validate:"required,oneof=MOBILE LANDLINE FAX"`
	CountryCallingCode string `json:"countryCallingCode" validate:"required,numeric"`
	Number             string `json:"number" validate:"required,numeric"`
}

type Document struct {
	DocumentType     string `json:"documentType" validate:"required"`
	BirthPlace       string `json:"birthPlace,omitempty"`
	IssuanceLocation string `json:"issuanceLocation,omitempty"`
	IssuanceDate     string `json:"issuanceDate,omitempty"`
	Number           string `json:"number" validate:"required"`
	ExpiryDate       string `json:"expiryDate" validate:"required,datetime=2006-01-02"`
	IssuanceCountry  string `json:"issuanceCountry" validate:"required,len=2"`
	ValidityCountry  string `json:"validityCountry,omitempty"`
	Nationality      string `json:"nationality" validate:"required,len=2"`
	Holder           bool   `json:"holder"`
}

type Contact struct {
	AddresseeName ContactName `json:"addresseeName"`
	CompanyName   string      `json:"companyName,omitempty"`
	Purpose       string      `json:"purpose,omitempty" validate:"omitempty,oneof=STANDARD INVOICE STANDARD_WITHOUT_TRANSMISSION"`
	Phones        []Phone     `json:"phones" validate:"required,min=1,dive"`
	EmailAddress  string      `json:"emailAddress" validate:"required,email"`
	Address       Address     `json:"address"`
}

type ContactName struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type Address struct {
	Lines       AddressLines `json:"lines" validate:"required,min=1"`
	PostalCode  string       `json:"postalCode" validate:"required"`
	CityName    string       `json:"cityName" validate:"required"`
	CountryCode string       `json:"countryCode" validate:"required,len=2"`
}

type Order struct {
	Type              string             `json:"type"`
	ID                string             `json:"id"`
	QueuingOfficeID   string             `json:"queuingOfficeId,omitempty"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords,omitempty"`
	FlightOffers      []FlightOffer      `json:"flightOffers,omitempty"`
	Travelers         []Traveler         `json:"travelers,omitempty"`
}

type AssociatedRecord struct {
	Reference        string `json:"reference"`
	CreationDate     string `json:"creationDate,omitempty"`
	OriginSystemCode string `json:"originSystemCode,omitempty"`
	FlightOfferID    string `json:"flightOfferId,omitempty"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type pricingRequest struct {
	Type         string        `json:"type"`
	FlightOffers []FlightOffer `json:"flightOffers"`
}

type orderRequest struct {
	Type         string        `json:"type"`
	FlightOffers []FlightOffer `json:"flightOffers"`
	Travelers    []Traveler    `json:"travelers"`
	Contacts     []Contact     `json:"contacts"`
}
