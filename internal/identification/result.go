package identification

import (
	"sort"

	"florafinder/internal/services/plantnet"
)

// Image is a reference photograph returned with a candidate.
type Image struct {
	Organ        string `json:"organ,omitempty"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Author       string `json:"author,omitempty"`
	License      string `json:"license,omitempty"`
}

// Candidate is one ranked species match.
type Candidate struct {
	ScientificName              string   `json:"scientific_name"`
	ScientificNameWithoutAuthor string   `json:"scientific_name_without_author"`
	Authorship                  string   `json:"authorship,omitempty"`
	Family                      string   `json:"family,omitempty"`
	Genus                       string   `json:"genus,omitempty"`
	CommonNames                 []string `json:"common_names"`
	Score                       float64  `json:"score"`
	Images                      []Image  `json:"images,omitempty"`
	GBIFID                      string   `json:"gbif_id,omitempty"`
	IUCNID                      string   `json:"iucn_id,omitempty"`
	IUCNCategory                string   `json:"iucn_category,omitempty"`
}

// LookupName is the name used for registry lookups.
func (c Candidate) LookupName() string {
	if c.ScientificNameWithoutAuthor != "" {
		return c.ScientificNameWithoutAuthor
	}
	return c.ScientificName
}

// Failure describes why identification produced no candidates. HTTPStatus is
// zero when no HTTP response was received.
type Failure struct {
	HTTPStatus int    `json:"http_status"`
	Message    string `json:"message"`
	RawBody    []byte `json:"raw_body,omitempty"`
}

// Result holds either Candidates or a Failure, never both.
type Result struct {
	Candidates        []Candidate `json:"candidates,omitempty"`
	Failure           *Failure    `json:"failure,omitempty"`
	RemainingRequests int         `json:"remaining_requests,omitempty"`
}

// Succeeded reports whether the result carries candidates.
func (r Result) Succeeded() bool {
	return r.Failure == nil
}

// Best returns the highest-ranked candidate.
func (r Result) Best() (Candidate, bool) {
	if !r.Succeeded() || len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

func newResult(resp *plantnet.Response) Result {
	candidates := make([]Candidate, 0, len(resp.Results))
	for _, item := range resp.Results {
		candidates = append(candidates, newCandidate(item))
	}
	// The service already ranks by score; keep its order for ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return Result{Candidates: candidates, RemainingRequests: resp.RemainingIdentificationRequests}
}

func newCandidate(item plantnet.Result) Candidate {
	species := item.Species
	candidate := Candidate{
		ScientificName:              species.ScientificName,
		ScientificNameWithoutAuthor: species.ScientificNameWithoutAuthor,
		Authorship:                  species.ScientificNameAuthorship,
		Family:                      species.Family.ScientificNameWithoutAuthor,
		Genus:                       species.Genus.ScientificNameWithoutAuthor,
		CommonNames:                 append([]string{}, species.CommonNames...),
		Score:                       item.Score,
	}
	if candidate.ScientificName == "" {
		candidate.ScientificName = candidate.ScientificNameWithoutAuthor
	}
	for _, img := range item.Images {
		url := img.URL.Original
		if url == "" {
			url = img.URL.Medium
		}
		if url == "" {
			continue
		}
		candidate.Images = append(candidate.Images, Image{
			Organ:        img.Organ,
			URL:          url,
			ThumbnailURL: img.URL.Small,
			Author:       img.Author,
			License:      img.License,
		})
	}
	if item.GBIF != nil {
		candidate.GBIFID = item.GBIF.ID.String()
	}
	if item.IUCN != nil {
		candidate.IUCNID = item.IUCN.ID.String()
		candidate.IUCNCategory = item.IUCN.Category
	}
	return candidate
}
