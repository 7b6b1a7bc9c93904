package trefle

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
	DefaultBaseURL        = "https://trefle.io/api/v1"
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	serviceName = "trefle"
)

// Plant is one species search candidate.
type Plant struct {
	ID               int64         `json:"id"`
	CommonName       string        `json:"common_name"`
	ScientificName   string        `json:"scientific_name"`
	Family           string        `json:"family"`
	FamilyCommonName string        `json:"family_common_name"`
	Genus            string        `json:"genus"`
	ImageURL         string        `json:"image_url"`
	Distributions    Distributions `json:"distributions"`
}

// Distributions lists where a plant occurs.
type Distributions struct {
	Native     Regions `json:"native"`
	Introduced Regions `json:"introduced"`
}

// Regions is a list of region names. Entries arrive as plain strings or as
// zone objects carrying a name.
type Regions []string

func (r *Regions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Regions, 0, len(raw))
	for _, item := range raw {
		name, err := regionName(item)
		if err != nil {
			return err
		}
		if name != "" {
			out = append(out, name)
		}
	}
	*r = out
	return nil
}

func regionName(item json.RawMessage) (string, error) {
	item = bytes.TrimSpace(item)
	if len(item) > 0 && item[0] == '"' {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var zone struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(item, &zone); err != nil {
		return "", err
	}
	return strings.TrimSpace(zone.Name), nil
}

type searchResponse struct {
	Data []Plant `json:"data"`
}

// Config holds the registry connection settings.
type Config struct {
	APIKey         string
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client queries the Trefle plant API.
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

// New creates a Trefle client. A missing token is a configuration error.
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

// Search runs a species search. Zero candidates is Empty.
func (c *Client) Search(ctx context.Context, query string) services.Outcome[[]Plant] {
	const op = "search"
	query = strings.TrimSpace(query)
	if query == "" {
		return services.Failed[[]Plant](services.Wrap(services.ErrValidation, serviceName, op, "query required", nil))
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("token", c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/species/search?"+params.Encode(), nil)
	if err != nil {
		return services.Failed[[]Plant](fmt.Errorf("trefle: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	opts := services.CallOptions{Service: serviceName, Operation: op, Observer: c.observer}
	resp, err := services.Call(ctx, c.httpClient, req, opts)
	if err != nil {
		return services.Failed[[]Plant](err)
	}
	var payload searchResponse
	if err := services.DecodeJSON(resp, opts, &payload); err != nil {
		return services.Failed[[]Plant](err)
	}
	if len(payload.Data) == 0 {
		return services.Empty[[]Plant]()
	}
	return services.OK(payload.Data)
}

// NativeRegions returns the native distribution of the first search candidate.
func (c *Client) NativeRegions(ctx context.Context, scientificName string) services.Outcome[[]string] {
	search := c.Search(ctx, scientificName)
	switch search.Kind {
	case services.OutcomeOK:
		regions := search.Value[0].Distributions.Native
		if len(regions) == 0 {
			return services.Empty[[]string]()
		}
		return services.OK([]string(regions))
	case services.OutcomeEmpty:
		return services.Empty[[]string]()
	default:
		return services.Failed[[]string](search.Err)
	}
}
