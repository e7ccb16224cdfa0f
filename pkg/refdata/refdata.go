// Package refdata maps provider codes (ISO country, IATA carrier, aircraft)
// to display names. Every lookup falls back to the code it was given.
package refdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLogoTemplate takes the carrier code as its single verb.
const DefaultLogoTemplate = "https://pics.avs.io/200/80/%s.png"

//go:embed data/carriers.json
var carriersJSON []byte

//go:embed data/aircraft.json
var aircraftJSON []byte

type entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	carrierByCode  map[string]string
	aircraftByCode map[string]string
	regionNamer    = display.English.Regions()
)

func init() {
	carrierByCode = mustLoad(carriersJSON, "carriers")
	aircraftByCode = mustLoad(aircraftJSON, "aircraft")
}

func mustLoad(raw []byte, key string) map[string]string {
	var doc map[string][]entry
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("refdata: parse %s table: %v", key, err))
	}
	out := make(map[string]string, len(doc[key]))
	for _, e := range doc[key] {
		out[strings.ToUpper(e.Code)] = e.Name
	}
	return out
}

// CountryName returns the English name for an ISO 3166 alpha-2 code.
// Groupings (001, EU, QO) and codes without an ISO alpha-3 (ZZ, UN) are not
// countries.
func CountryName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return code
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() || region.ISO3() == "ZZZ" {
		return code
	}
	name := regionNamer.Name(region)
	if name == "" {
		return code
	}
	return name
}

// LogoURL builds the logo address for a carrier. Reachability is not checked.
func LogoURL(template, carrierCode string) string {
	if template == "" {
		template = DefaultLogoTemplate
	}
	return fmt.Sprintf(template, strings.ToUpper(carrierCode))
}

// CarrierName prefers the response dictionary, then the built-in table.
func CarrierName(code string, dict map[string]string) string {
	return lookup(code, dict, carrierByCode)
}

// AircraftName prefers the response dictionary, then the built-in table.
func AircraftName(code string, dict map[string]string) string {
	return lookup(code, dict, aircraftByCode)
}

func lookup(code string, dict, builtin map[string]string) string {
	if code == "" {
		return code
	}
	if name, ok := dict[code]; ok && name != "" {
		return titleCase(name)
	}
	if name, ok := builtin[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// Provider dictionaries arrive upper-cased ("BRITISH AIRWAYS"). A Caser is
// stateful, so each call gets its own.
func titleCase(s string) string {
	if s != strings.ToUpper(s) {
		return s
	}
	return cases.Title(language.English).String(s)
}
