package plantnet

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Response models the subset of the identify payload the application reads.
type Response struct {
	Query                           Query    `json:"query"`
	Language                        string   `json:"language"`
	PreferredReferential            string   `json:"preferedReferential"`
	BestMatch                       string   `json:"bestMatch"`
	Results                         []Result `json:"results"`
	Version                         string   `json:"version"`
	RemainingIdentificationRequests int      `json:"remainingIdentificationRequests"`
}

// Query echoes the request parameters the service used.
type Query struct {
	Project              string   `json:"project"`
	Organs               []string `json:"organs"`
	IncludeRelatedImages bool     `json:"includeRelatedImages"`
}

// Result is one ranked species candidate.
type Result struct {
	Score   float64    `json:"score"`
	Species Species    `json:"species"`
	Images  []Image    `json:"images"`
	GBIF    *Reference `json:"gbif,omitempty"`
	POWO    *Reference `json:"powo,omitempty"`
	IUCN    *Reference `json:"iucn,omitempty"`
}

// Species carries naming and taxonomy for a candidate.
type Species struct {
	ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
	ScientificNameAuthorship    string   `json:"scientificNameAuthorship"`
	ScientificName              string   `json:"scientificName"`
	Genus                       Taxon    `json:"genus"`
	Family                      Taxon    `json:"family"`
	CommonNames                 []string `json:"commonNames"`
}

// Taxon is a named rank above species.
type Taxon struct {
	ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
	ScientificNameAuthorship    string `json:"scientificNameAuthorship"`
	ScientificName              string `json:"scientificName"`
}

// Image is a related reference photo.
type Image struct {
	Organ    string   `json:"organ"`
	Author   string   `json:"author"`
	License  string   `json:"license"`
	Citation string   `json:"citation"`
	URL      ImageURL `json:"url"`
}

// ImageURL lists the original, medium, and small renditions.
type ImageURL struct {
	Original string `json:"o"`
	Medium   string `json:"m"`
	Small    string `json:"s"`
}

// Reference points at the same taxon in another registry.
type Reference struct {
	ID       ID     `json:"id"`
	Category string `json:"category,omitempty"`
}

// ID accepts registry identifiers encoded as either JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int64 parses the identifier as a positive integer key.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ServiceStatus is the health payload from GET /_status.
type ServiceStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Language is an identification result language offered by the service.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either a bare language code or an object.
func (l *Language) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Code)
	}
	type plain Language
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Language(p)
	return nil
}

// errorBody is the JSON shape returned with non-2xx statuses.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}
