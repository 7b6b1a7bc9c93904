package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultTotalTimeout   = 30 * time.Second
	defaultMaxBodyBytes   = 4 << 20
	tracerName            = "florafinder/services"
)

// Observer receives one notification per upstream call. The metrics package
// provides the production implementation; nil observers are ignored.
type Observer interface {
	ObserveUpstream(service, operation string, kind OutcomeKind, latency time.Duration)
}

// NewHTTPClient builds a client whose dial phase and whole request are each
// bounded. Non-positive values fall back to package defaults.
func NewHTTPClient(connectTimeout, totalTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	if totalTimeout <= 0 {
		totalTimeout = defaultTotalTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{Timeout: totalTimeout, Transport: transport}
}

// CallOptions labels a call for errors, metrics, and tracing.
type CallOptions struct {
	Service   string
	Operation string
	Observer  Observer
	// MaxBodyBytes caps the response body size. A larger body fails the call
	// with ErrResponseTooLarge. Defaults to 4 MiB.
	MaxBodyBytes int64
}

// Response is a fully-read 2xx upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
}

// Call executes req exactly once. Transport failures, timeouts, and non-2xx
// statuses all come back as *UpstreamError; the response body is always
// drained and closed.
func Call(ctx context.Context, client *http.Client, req *http.Request, opts CallOptions) (*Response, error) {
	if client == nil {
		client = NewHTTPClient(0, 0)
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, opts.Service+"."+opts.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.service", opts.Service),
			attribute.String("upstream.operation", opts.Operation),
			attribute.String("http.request.method", req.Method),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, body, err := execute(ctx, client, req, opts)
	latency := time.Since(start)

	kind := OutcomeOK
	if err != nil {
		kind = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if resp != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	if opts.Observer != nil {
		opts.Observer.ObserveUpstream(opts.Service, opts.Operation, kind, latency)
	}
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Latency:    latency,
	}, nil
}

func execute(ctx context.Context, client *http.Client, req *http.Request, opts CallOptions) (*http.Response, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		redactURLError(err)
		return nil, nil, &UpstreamError{
			Service:   opts.Service,
			Operation: opts.Operation,
			Timeout:   isTimeout(ctx, err),
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if readErr != nil {
		return resp, nil, &UpstreamError{
			Service:    opts.Service,
			Operation:  opts.Operation,
			StatusCode: resp.StatusCode,
			Timeout:    isTimeout(ctx, readErr),
			Cause:      fmt.Errorf("read body: %w", readErr),
		}
	}
	if int64(len(body)) > limit {
		return resp, nil, &UpstreamError{
			Service:    opts.Service,
			Operation:  opts.Operation,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response exceeds %d bytes", limit),
			Cause:      ErrResponseTooLarge,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, body, &UpstreamError{
			Service:    opts.Service,
			Operation:  opts.Operation,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
	return resp, body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DecodeJSON unmarshals a 2xx body. A malformed payload is reported as an
// UpstreamError so adapters can treat it like any other unusable response.
func DecodeJSON(resp *Response, opts CallOptions, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &UpstreamError{
			Service:    opts.Service,
			Operation:  opts.Operation,
			StatusCode: resp.StatusCode,
			Message:    "decode response",
			Body:       resp.Body,
			Cause:      err,
		}
	}
	return nil
}

// redactURLError drops the query string from transport errors; upstream
// credentials travel as query parameters.
func redactURLError(err error) {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return
	}
	if parsed, parseErr := url.Parse(urlErr.URL); parseErr == nil && parsed.RawQuery != "" {
		parsed.RawQuery = ""
		urlErr.URL = parsed.String()
	}
}

// Snippet trims a response body for log and error messages.
func Snippet(body []byte, max int) string {
	text := strings.TrimSpace(string(body))
	if max > 0 && len(text) > max {
		return text[:max] + "..."
	}
	return text
}
