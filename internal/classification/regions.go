package classification

import "strings"

// DefaultDescriptor is the placeholder used when no table entry applies.
const DefaultDescriptor = "Various"

type regionEntry struct {
	name     string
	habitats []string
	climates []string
}

// regionTable order decides which canonical region a free-text string matches first.
var regionTable = []regionEntry{
	{name: "North America", habitats: []string{"Forests", "Prairies", "Mountains"}, climates: []string{"Temperate", "Continental"}},
	{name: "Europe", habitats: []string{"Deciduous Forests", "Grasslands", "Mediterranean"}, climates: []string{"Temperate", "Mediterranean"}},
	{name: "Asia", habitats: []string{"Tropical Forests", "Temperate Forests", "Mountains"}, climates: []string{"Temperate", "Tropical", "Continental"}},
	{name: "South America", habitats: []string{"Rainforests", "Mountains", "Grasslands"}, climates: []string{"Tropical", "Temperate"}},
	{name: "Africa", habitats: []string{"Savannas", "Deserts", "Rainforests"}, climates: []string{"Tropical", "Arid", "Mediterranean"}},
	{name: "Australia", habitats: []string{"Deserts", "Mediterranean Scrub", "Forests"}, climates: []string{"Arid", "Mediterranean", "Tropical"}},
}

// CanonicalRegions lists the region names recognised by the derivation tables.
func CanonicalRegions() []string {
	names := make([]string, len(regionTable))
	for i, entry := range regionTable {
		names[i] = entry.name
	}
	return names
}

// matchRegion returns the index of the first canonical region contained in region, or -1.
func matchRegion(region string) int {
	if region == "" {
		return -1
	}
	for i, entry := range regionTable {
		if strings.Contains(region, entry.name) {
			return i
		}
	}
	return -1
}

// HabitatsForRegion returns the habitat descriptors of the canonical region that
// region contains, or nil when none matches.
func HabitatsForRegion(region string) []string {
	idx := matchRegion(region)
	if idx < 0 {
		return nil
	}
	return append([]string(nil), regionTable[idx].habitats...)
}

// ClimatesForRegion returns the climate descriptors of the canonical region that
// region contains, or nil when none matches.
func ClimatesForRegion(region string) []string {
	idx := matchRegion(region)
	if idx < 0 {
		return nil
	}
	return append([]string(nil), regionTable[idx].climates...)
}

// DeriveHabitatFromRegions unions the habitat descriptors of every matched
// region and joins them with ", ". Returns "Various" when nothing matched.
func DeriveHabitatFromRegions(regions []string) string {
	return deriveFromRegions(regions, func(e regionEntry) []string { return e.habitats })
}

// DeriveClimateFromRegions is DeriveHabitatFromRegions over the climate table.
func DeriveClimateFromRegions(regions []string) string {
	return deriveFromRegions(regions, func(e regionEntry) []string { return e.climates })
}

// deriveFromRegions emits descriptors in table order so the result depends only
// on which canonical regions matched, not on input order.
func deriveFromRegions(regions []string, pick func(regionEntry) []string) string {
	matched := make([]bool, len(regionTable))
	found := false
	for _, region := range regions {
		if idx := matchRegion(region); idx >= 0 {
			matched[idx] = true
			found = true
		}
	}
	if !found {
		return DefaultDescriptor
	}

	seen := make(map[string]struct{})
	var out []string
	for i, entry := range regionTable {
		if !matched[i] {
			continue
		}
		for _, descriptor := range pick(entry) {
			if _, ok := seen[descriptor]; ok {
				continue
			}
			seen[descriptor] = struct{}{}
			out = append(out, descriptor)
		}
	}
	return strings.Join(out, ", ")
}
