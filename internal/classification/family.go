package classification

import "strings"

var familyClimates = map[string]string{
	"cactaceae": "Arid",
	"pinaceae":  "Temperate to Boreal",
	"arecaceae": "Tropical to Subtropical",
	"fagaceae":  "Temperate",
	"ericaceae": "Temperate to Arctic",
	"poaceae":   "Various (worldwide)",
}

// ClimateForFamily returns the climate descriptor for a taxonomic family.
// The boolean is false for families without a table entry.
func ClimateForFamily(family string) (string, bool) {
	climate, ok := familyClimates[strings.ToLower(strings.TrimSpace(family))]
	return climate, ok
}
