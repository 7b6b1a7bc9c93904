package api

import (
	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
)

// Candidate is the transport form of an identification candidate.
type Candidate struct {
	ScientificName string   `json:"scientificName"`
	BareName       string   `json:"scientificNameWithoutAuthor"`
	Authorship     string   `json:"authorship,omitempty"`
	Family         string   `json:"family,omitempty"`
	Genus          string   `json:"genus,omitempty"`
	CommonNames    []string `json:"commonNames"`
	Score          float64  `json:"score"`
	Images         []Image  `json:"images,omitempty"`
	GBIFID         string   `json:"gbifId,omitempty"`
	IUCNID         string   `json:"iucnId,omitempty"`
	IUCNCategory   string   `json:"iucnCategory,omitempty"`
}

// Image is a reference photo attached to a candidate.
type Image struct {
	Organ     string `json:"organ,omitempty"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnailUrl,omitempty"`
	Author    string `json:"author,omitempty"`
	License   string `json:"license,omitempty"`
}

// IdentifyResponse is the 200 body of POST /api/identify.
type IdentifyResponse struct {
	Candidates        []Candidate         `json:"candidates"`
	RemainingRequests int                 `json:"remainingRequests,omitempty"`
	Enrichment        *EnrichmentResponse `json:"enrichment,omitempty"`
}

// Conservation is the transport form of enrichment.ConservationInfo.
type Conservation struct {
	Status      string `json:"status"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Guide       string `json:"guide"`
}

// Habitat is the transport form of enrichment.HabitatInfo.
type Habitat struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Climate     string `json:"climate"`
}

// EnrichmentResponse is the body of GET /api/enrich.
type EnrichmentResponse struct {
	ScientificName string       `json:"scientificName"`
	Conservation   Conservation `json:"conservation"`
	Habitat        Habitat      `json:"habitat"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Reachable bool     `json:"reachable"`
	Status    string   `json:"status,omitempty"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error          string `json:"error"`
	RequestID      string `json:"requestId,omitempty"`
	UpstreamStatus *int   `json:"upstreamStatus,omitempty"`
	UpstreamBody   string `json:"upstreamBody,omitempty"`
}

// FromCandidate converts an identification candidate.
func FromCandidate(c identification.Candidate) Candidate {
	out := Candidate{
		ScientificName: c.ScientificName,
		BareName:       c.ScientificNameWithoutAuthor,
		Authorship:     c.Authorship,
		Family:         c.Family,
		Genus:          c.Genus,
		CommonNames:    c.CommonNames,
		Score:          c.Score,
		GBIFID:         c.GBIFID,
		IUCNID:         c.IUCNID,
		IUCNCategory:   c.IUCNCategory,
	}
	if out.CommonNames == nil {
		out.CommonNames = []string{}
	}
	for _, img := range c.Images {
		out.Images = append(out.Images, Image{
			Organ:     img.Organ,
			URL:       img.URL,
			Thumbnail: img.ThumbnailURL,
			Author:    img.Author,
			License:   img.License,
		})
	}
	return out
}

// FromResult converts a successful identification result.
func FromResult(r identification.Result) IdentifyResponse {
	out := IdentifyResponse{
		Candidates:        make([]Candidate, 0, len(r.Candidates)),
		RemainingRequests: r.RemainingRequests,
	}
	for _, c := range r.Candidates {
		out.Candidates = append(out.Candidates, FromCandidate(c))
	}
	return out
}

// FromConservation converts conservation info.
func FromConservation(info enrichment.ConservationInfo) Conservation {
	return Conservation(info)
}

// FromHabitat converts habitat info.
func FromHabitat(info enrichment.HabitatInfo) Habitat {
	return Habitat(info)
}

// FromEnrichment converts a merged enrichment result.
func FromEnrichment(r enrichment.Result) EnrichmentResponse {
	return EnrichmentResponse{
		ScientificName: r.ScientificName,
		Conservation:   FromConservation(r.Conservation),
		Habitat:        FromHabitat(r.Habitat),
	}
}

// FromServiceStatus converts an identification service status.
func FromServiceStatus(s identification.ServiceStatus) StatusResponse {
	return StatusResponse(s)
}
