package classification

import "strings"

// GenericGuide is the stewardship advice used when a status code is unknown.
const GenericGuide = "Practice general conservation principles: maintain natural habitat, avoid overharvesting, and support local biodiversity."

// DefaultStatusDescription is returned for unrecognized or not-evaluated codes.
const DefaultStatusDescription = "Conservation status not yet evaluated"

// DefaultStatusColor is the neutral severity token.
const DefaultStatusColor = "gray-500"

type statusEntry struct {
	description string
	color       string
	guide       string
}

// statusTable is keyed by lower-cased IUCN codes and their full-word synonyms.
var statusTable = func() map[string]statusEntry {
	rows := []struct {
		codes []string
		entry statusEntry
	}{
		{[]string{"ex", "extinct"}, statusEntry{
			description: "This species is no longer found on Earth",
			color:       "black",
			guide:       "Record historical information and analyze causes to prevent similar extinctions.",
		}},
		{[]string{"ew", "extinct in the wild"}, statusEntry{
			description: "Only surviving in captivity or cultivation",
			color:       "red-900",
			guide:       "Support captive breeding programs and habitat restoration efforts.",
		}},
		{[]string{"cr", "critically endangered"}, statusEntry{
			description: "Extremely high risk of extinction in the wild",
			color:       "red-600",
			guide:       "Urgent conservation action needed. Report sightings, support protected areas, and avoid disturbing habitat.",
		}},
		{[]string{"en", "endangered"}, statusEntry{
			description: "High risk of extinction in the wild",
			color:       "red-500",
			guide:       "Support conservation programs, avoid collection, and promote habitat protection.",
		}},
		{[]string{"vu", "vulnerable"}, statusEntry{
			description: "High risk of endangerment in the wild",
			color:       "orange-500",
			guide:       "Practice sustainable interactions, promote suitable habitat, and support monitoring programs.",
		}},
		{[]string{"nt", "near threatened"}, statusEntry{
			description: "Likely to become endangered in the near future",
			color:       "yellow-600",
			guide:       "Monitor populations, maintain habitat, and follow sustainable practices.",
		}},
		{[]string{"lc", "least concern"}, statusEntry{
			description: "Widespread and abundant",
			color:       "green-600",
			guide:       "Continue sustainable practices and monitor for changes in population.",
		}},
		{[]string{"dd", "data deficient"}, statusEntry{
			description: "Not enough data to determine risk level",
			color:       "blue-500",
			guide:       "Support research and documentation efforts to better understand this species.",
		}},
	}
	table := make(map[string]statusEntry, len(rows)*2)
	for _, row := range rows {
		for _, code := range row.codes {
			table[code] = row.entry
		}
	}
	return table
}()

var defaultStatus = statusEntry{
	description: DefaultStatusDescription,
	color:       DefaultStatusColor,
	guide:       GenericGuide,
}

// NormalizeStatusCode lower-cases and trims a registry category code.
func NormalizeStatusCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func lookupStatus(code string) statusEntry {
	if entry, ok := statusTable[NormalizeStatusCode(code)]; ok {
		return entry
	}
	// "ne", "not evaluated", and anything unrecognized land here.
	return defaultStatus
}

// StatusDescription maps a conservation status code to a one-sentence severity description.
func StatusDescription(code string) string {
	return lookupStatus(code).description
}

// StatusColor maps a conservation status code to a severity color token.
func StatusColor(code string) string {
	return lookupStatus(code).color
}

// StatusGuide maps a conservation status code to a stewardship action sentence.
func StatusGuide(code string) string {
	return lookupStatus(code).guide
}

// KnownStatusCode reports whether code has a dedicated table entry.
func KnownStatusCode(code string) bool {
	_, ok := statusTable[NormalizeStatusCode(code)]
	return ok
}
