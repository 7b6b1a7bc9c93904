package iucn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"florafinder/internal/services"
)

const (
	DefaultBaseURL        = "https://apiv3.iucnredlist.org/api/v3"
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	serviceName = "iucn"
)

// Assessment is one Red List record for a species.
type Assessment struct {
	TaxonID              int64    `json:"taxonid"`
	ScientificName       string   `json:"scientific_name"`
	Family               string   `json:"family"`
	Genus                string   `json:"genus"`
	Category             string   `json:"category"`
	MainCommonName       string   `json:"main_common_name"`
	PopulationTrend      string   `json:"population_trend"`
	Criteria             string   `json:"criteria"`
	AssessmentDate       string   `json:"assessment_date"`
	ConservationMeasures Measures `json:"conservation_measures"`
}

// Measures is the free-text conservation measure list. The registry sends it
// either as one string or as an array of strings.
type Measures []string

func (m *Measures) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*m = nil
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s != "" {
			*m = Measures{s}
		} else {
			*m = nil
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Measures, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*m = out
	return nil
}

type response struct {
	Name   string       `json:"name"`
	Result []Assessment `json:"result"`
	Error  string       `json:"error"`
}

// Config holds the registry connection settings.
type Config struct {
	APIKey         string
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client queries the IUCN Red List API.
type Client struct {
	token      string
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

// New creates a registry client. A missing token is a configuration error.
func New(cfg Config, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.APIKey)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new", "api token required", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: services.NewHTTPClient(cfg.ConnectTimeout, cfg.RequestTimeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup fetches assessments for a scientific name or registry id.
func (c *Client) Lookup(ctx context.Context, nameOrID string) services.Outcome[[]Assessment] {
	const op = "lookup"
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return services.Failed[[]Assessment](services.Wrap(services.ErrValidation, serviceName, op, "name or id required", nil))
	}
	params := url.Values{}
	params.Set("token", c.token)
	endpoint := c.baseURL + "/species/" + url.PathEscape(nameOrID) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Failed[[]Assessment](fmt.Errorf("iucn: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	opts := services.CallOptions{Service: serviceName, Operation: op, Observer: c.observer}
	resp, err := services.Call(ctx, c.httpClient, req, opts)
	if err != nil {
		return services.Failed[[]Assessment](err)
	}
	var payload response
	if err := services.DecodeJSON(resp, opts, &payload); err != nil {
		return services.Failed[[]Assessment](err)
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return services.Failed[[]Assessment](&services.UpstreamError{
			Service:    serviceName,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Body:       resp.Body,
		})
	}
	if len(payload.Result) == 0 {
		return services.Empty[[]Assessment]()
	}
	return services.OK(payload.Result)
}
