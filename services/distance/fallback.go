package distance

import "strings"

// cityDistances holds road miles between metro pairs we serve most often.
// Keys are alphabetized "cityA|cityB" in lowercase.
var cityDistances = map[string]float64{
	"austin|dallas":        195,
	"austin|houston":       165,
	"austin|san antonio":   80,
	"dallas|fort worth":    32,
	"dallas|houston":       239,
	"dallas|oklahoma city": 206,
	"dallas|san antonio":   274,
	"fort worth|houston":   262,
	"houston|san antonio":  197,
}

// knownCities is derived from cityDistances for substring matching against
// free-form addresses.
var knownCities = func() []string {
	seen := map[string]bool{}
	var cities []string
	for pair := range cityDistances {
		for _, c := range strings.SplitN(pair, "|", 2) {
			if !seen[c] {
				seen[c] = true
				cities = append(cities, c)
			}
		}
	}
	return cities
}()

const defaultLocalMiles = 18 // same-metro or unrecognized moves

// fallbackEstimate answers from the city-pair table when the geocoding
// service is unreachable. Unrecognized pairs are treated as local moves.
func fallbackEstimate(pickup, delivery string) Result {
	from := matchCity(pickup)
	to := matchCity(delivery)

	miles := float64(defaultLocalMiles)
	if from != "" && to != "" && from != to {
		if d, ok := cityDistances[pairKey(from, to)]; ok {
			miles = d
		}
	}
	return Result{
		Miles:           miles,
		DriveTimeMinute: int(miles * 1.5), // rough highway-speed estimate
		Estimated:       true,
	}
}

func matchCity(address string) string {
	lower := strings.ToLower(address)
	for _, c := range knownCities {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return ""
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
