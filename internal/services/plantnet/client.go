package plantnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"florafinder/internal/services"
)

const (
	DefaultBaseURL        = "https://my-api.plantnet.org/v2"
	DefaultProject        = "all"
	DefaultLanguage       = "en"
	DefaultResults        = 3
	DefaultConnectTimeout = 60 * time.Second
	DefaultRequestTimeout = 120 * time.Second

	serviceName   = "plantnet"
	imageFilename = "plant-image.jpg"
)

// Config holds the connection settings for the identification service.
type Config struct {
	APIKey         string
	BaseURL        string
	Project        string
	Language       string
	MaxResults     int
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client talks to the PlantNet v2 API.
type Client struct {
	apiKey     string
	baseURL    string
	project    string
	language   string
	maxResults int
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

// New creates a PlantNet client. A missing API key is a configuration error.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "new", "api key required", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	project := strings.TrimSpace(cfg.Project)
	if project == "" {
		project = DefaultProject
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = DefaultLanguage
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultResults
	}
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	total := cfg.RequestTimeout
	if total <= 0 {
		total = DefaultRequestTimeout
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		project:    project,
		language:   language,
		maxResults: maxResults,
		httpClient: services.NewHTTPClient(connect, total),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// IdentifyRequest carries one image and its organ hint. Image takes precedence
// over ImagePath when both are set.
type IdentifyRequest struct {
	Image     []byte
	ImagePath string
	Organ     string
	Project   string
}

// Identify submits an image for identification. It never retries.
func (c *Client) Identify(ctx context.Context, req IdentifyRequest) services.Outcome[*Response] {
	const op = "identify"
	image, err := loadImage(req)
	if err != nil {
		return services.Failed[*Response](services.Wrap(services.ErrValidation, serviceName, op, "no valid image available", err))
	}
	organ := strings.TrimSpace(req.Organ)
	if organ == "" {
		return services.Failed[*Response](services.Wrap(services.ErrValidation, serviceName, op, "organ required", nil))
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("images", imageFilename)
	if err != nil {
		return services.Failed[*Response](fmt.Errorf("plantnet: create image part: %w", err))
	}
	if _, err := part.Write(image); err != nil {
		return services.Failed[*Response](fmt.Errorf("plantnet: write image part: %w", err))
	}
	if err := writer.WriteField("organs", organ); err != nil {
		return services.Failed[*Response](fmt.Errorf("plantnet: write organ field: %w", err))
	}
	if err := writer.Close(); err != nil {
		return services.Failed[*Response](fmt.Errorf("plantnet: finalize multipart body: %w", err))
	}

	project := strings.TrimSpace(req.Project)
	if project == "" {
		project = c.project
	}
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("include-related-images", "true")
	params.Set("lang", c.language)
	params.Set("nb-results", strconv.Itoa(c.maxResults))
	endpoint := c.baseURL + "/identify/" + url.PathEscape(project) + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return services.Failed[*Response](fmt.Errorf("plantnet: build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	opts := c.callOptions(op)
	resp, err := services.Call(ctx, c.httpClient, httpReq, opts)
	if err != nil {
		return services.Failed[*Response](withMessage(err))
	}
	var payload Response
	if err := services.DecodeJSON(resp, opts, &payload); err != nil {
		return services.Failed[*Response](err)
	}
	if len(payload.Results) == 0 {
		return services.Empty[*Response]()
	}
	return services.OK(&payload)
}

// Status queries the service health endpoint.
func (c *Client) Status(ctx context.Context) services.Outcome[*ServiceStatus] {
	const op = "status"
	opts := c.callOptions(op)
	resp, err := c.get(ctx, c.baseURL+"/_status", opts)
	if err != nil {
		return services.Failed[*ServiceStatus](withMessage(err))
	}
	var payload ServiceStatus
	if err := services.DecodeJSON(resp, opts, &payload); err != nil {
		return services.Failed[*ServiceStatus](err)
	}
	return services.OK(&payload)
}

// Languages lists the result languages available to this API key.
func (c *Client) Languages(ctx context.Context) services.Outcome[[]Language] {
	const op = "languages"
	opts := c.callOptions(op)
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	resp, err := c.get(ctx, c.baseURL+"/languages?"+params.Encode(), opts)
	if err != nil {
		return services.Failed[[]Language](withMessage(err))
	}
	var payload []Language
	if err := services.DecodeJSON(resp, opts, &payload); err != nil {
		return services.Failed[[]Language](err)
	}
	if len(payload) == 0 {
		return services.Empty[[]Language]()
	}
	return services.OK(payload)
}

func (c *Client) get(ctx context.Context, endpoint string, opts services.CallOptions) (*services.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("plantnet: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return services.Call(ctx, c.httpClient, req, opts)
}

func (c *Client) callOptions(op string) services.CallOptions {
	return services.CallOptions{Service: serviceName, Operation: op, Observer: c.observer}
}

func loadImage(req IdentifyRequest) ([]byte, error) {
	if len(req.Image) > 0 {
		return req.Image, nil
	}
	path := strings.TrimSpace(req.ImagePath)
	if path == "" {
		return nil, errors.New("image missing")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("image file is empty")
	}
	return data, nil
}

// withMessage lifts the service's JSON error message onto the upstream error.
func withMessage(err error) error {
	upstream, ok := services.AsUpstream(err)
	if !ok || len(upstream.Body) == 0 || upstream.Message != "" {
		return err
	}
	var body errorBody
	if json.Unmarshal(upstream.Body, &body) == nil {
		switch {
		case strings.TrimSpace(body.Message) != "":
			upstream.Message = strings.TrimSpace(body.Message)
		case strings.TrimSpace(body.Error) != "":
			upstream.Message = strings.TrimSpace(body.Error)
		}
	}
	return err
}
