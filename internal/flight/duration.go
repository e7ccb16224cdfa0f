package flight

import (
	"regexp"
	"strconv"

	"travelbooking/pkg/gds"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?`)

// ParseDurationMinutes converts the provider's ISO-8601 duration ("PT2H30M")
// to minutes. Missing components count as zero; seconds are ignored.
func ParseDurationMinutes(s string) int {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	days := atoi(m[1])
	hours := atoi(m[2])
	minutes := atoi(m[3])
	return days*24*60 + hours*60 + minutes
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// TotalDurationMinutes sums every itinerary. An itinerary without its own
// duration falls back to the sum of its segments.
func TotalDurationMinutes(o gds.FlightOffer) int {
	total := 0
	for _, it := range o.Itineraries {
		if it.Duration != "" {
			total += ParseDurationMinutes(it.Duration)
			continue
		}
		for _, seg := range it.Segments {
			total += ParseDurationMinutes(seg.Duration)
		}
	}
	return total
}
