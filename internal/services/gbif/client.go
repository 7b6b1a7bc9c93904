package gbif

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"florafinder/internal/services"
)

const (
	DefaultBaseURL        = "https://api.gbif.org/v1"
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	serviceName   = "gbif"
	matchTypeNone = "NONE"
)

// Species is the subset of a GBIF species record used for habitat enrichment.
type Species struct {
	Key            int64    `json:"key"`
	ScientificName string   `json:"scientificName"`
	CanonicalName  string   `json:"canonicalName"`
	VernacularName string   `json:"vernacularName"`
	Kingdom        string   `json:"kingdom"`
	Family         string   `json:"family"`
	Genus          string   `json:"genus"`
	Rank           string   `json:"rank"`
	Habitats       []string `json:"habitats"`
	ThreatStatus   string   `json:"threatStatus"`
}

// HasHabitats reports whether the record carries at least one non-blank habitat.
func (s *Species) HasHabitats() bool {
	if s == nil {
		return false
	}
	for _, h := range s.Habitats {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	return false
}

type matchResponse struct {
	UsageKey   int64  `json:"usageKey"`
	MatchType  string `json:"matchType"`
	Confidence int    `json:"confidence"`
}

// Config holds the registry connection settings. GBIF needs no credentials.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client queries the GBIF species API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   services.Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithObserver reports each upstream call to observer.
func WithObserver(observer services.Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a GBIF client.
func New(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: services.NewHTTPClient(cfg.ConnectTimeout, cfg.RequestTimeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Species fetches a record by its numeric key. Records without habitats are Empty.
func (c *Client) Species(ctx context.Context, key int64) services.Outcome[*Species] {
	const op = "species"
	if key <= 0 {
		return services.Failed[*Species](services.Wrap(services.ErrValidation, serviceName, op, "positive species key required", nil))
	}
	var record Species
	if err := c.getJSON(ctx, op, "/species/"+strconv.FormatInt(key, 10), nil, &record); err != nil {
		return services.Failed[*Species](err)
	}
	if !record.HasHabitats() {
		return services.Empty[*Species]()
	}
	return services.OK(&record)
}

// Match resolves a scientific name to a usage key.
func (c *Client) Match(ctx context.Context, name string) services.Outcome[int64] {
	const op = "match"
	name = strings.TrimSpace(name)
	if name == "" {
		return services.Failed[int64](services.Wrap(services.ErrValidation, serviceName, op, "name required", nil))
	}
	params := url.Values{}
	params.Set("name", name)
	var match matchResponse
	if err := c.getJSON(ctx, op, "/species/match", params, &match); err != nil {
		return services.Failed[int64](err)
	}
	if match.UsageKey <= 0 || strings.EqualFold(match.MatchType, matchTypeNone) {
		return services.Empty[int64]()
	}
	return services.OK(match.UsageKey)
}

// SpeciesByName matches name to a key and then fetches that record.
func (c *Client) SpeciesByName(ctx context.Context, name string) services.Outcome[*Species] {
	match := c.Match(ctx, name)
	switch match.Kind {
	case services.OutcomeOK:
		return c.Species(ctx, match.Value)
	case services.OutcomeEmpty:
		return services.Empty[*Species]()
	default:
		return services.Failed[*Species](match.Err)
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("gbif: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	opts := services.CallOptions{Service: serviceName, Operation: op, Observer: c.observer}
	resp, err := services.Call(ctx, c.httpClient, req, opts)
	if err != nil {
		return err
	}
	return services.DecodeJSON(resp, opts, out)
}
