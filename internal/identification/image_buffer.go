package identification

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"florafinder/internal/logging"
	"florafinder/internal/services"
)

// stagedImage is the image as handed to the identification service. Exactly
// one of data or path is set.
type stagedImage struct {
	data []byte
	path string
}

// downloadError marks a remote image that could not be fetched.
type downloadError struct {
	status int
	body   []byte
	err    error
}

func (e *downloadError) Error() string {
	return "download image: " + e.err.Error()
}

func (e *downloadError) Unwrap() error { return e.err }

func invalidImage(message string, err error) error {
	return services.Wrap(services.ErrValidation, "identification", "image", message, err)
}

// acquireImage resolves src into something the adapter can upload. The
// returned release func must always be called; it removes any transient file.
func (id *Identifier) acquireImage(ctx context.Context, src ImageSource) (stagedImage, func(), error) {
	noop := func() {}
	switch src.kind() {
	case "bytes":
		if len(src.Bytes) > MaxImageBytes {
			return stagedImage{}, noop, invalidImage(fmt.Sprintf("image exceeds %d bytes", MaxImageBytes), nil)
		}
		return stagedImage{data: src.Bytes}, noop, nil
	case "path":
		path := strings.TrimSpace(src.Path)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return stagedImage{}, noop, invalidImage("image file not found", err)
			}
			return stagedImage{}, noop, invalidImage("image file unreadable", err)
		}
		if info.IsDir() {
			return stagedImage{}, noop, invalidImage("image path is a directory", nil)
		}
		if info.Size() == 0 {
			return stagedImage{}, noop, invalidImage("image file is empty", nil)
		}
		if info.Size() > MaxImageBytes {
			return stagedImage{}, noop, invalidImage(fmt.Sprintf("image exceeds %d bytes", MaxImageBytes), nil)
		}
		return stagedImage{path: path}, noop, nil
	case "url":
		return id.downloadImage(ctx, strings.TrimSpace(src.URL))
	default:
		return stagedImage{}, noop, invalidImage("image required", nil)
	}
}

func (id *Identifier) downloadImage(ctx context.Context, rawURL string) (stagedImage, func(), error) {
	noop := func() {}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return stagedImage{}, noop, invalidImage("image url must be an absolute http(s) url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return stagedImage{}, noop, invalidImage("build image request", err)
	}
	resp, err := services.Call(ctx, id.httpClient, req, services.CallOptions{
		Service:      "image-host",
		Operation:    "download",
		Observer:     id.observer,
		MaxBodyBytes: MaxImageBytes,
	})
	if errors.Is(err, services.ErrResponseTooLarge) {
		return stagedImage{}, noop, invalidImage(fmt.Sprintf("downloaded image exceeds %d bytes", MaxImageBytes), nil)
	}
	if err != nil {
		failure := &downloadError{err: err}
		if upstream, ok := services.AsUpstream(err); ok {
			failure.status = upstream.StatusCode
			failure.body = upstream.Body
		}
		return stagedImage{}, noop, failure
	}
	if len(resp.Body) == 0 {
		return stagedImage{}, noop, invalidImage("downloaded image is empty", nil)
	}

	if err := os.MkdirAll(id.tempDir, 0o755); err != nil {
		return stagedImage{}, noop, fmt.Errorf("create image temp dir: %w", err)
	}
	path := filepath.Join(id.tempDir, "plant-image-"+uuid.NewString()+".jpg")
	if err := os.WriteFile(path, resp.Body, 0o600); err != nil {
		_ = os.Remove(path)
		return stagedImage{}, noop, fmt.Errorf("stage downloaded image: %w", err)
	}
	release := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(id.logger, "transient image cleanup failed", "image_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
				logging.String(logging.FieldImpact, "stale file left in temp dir"),
			)
		}
	}
	return stagedImage{path: path}, release, nil
}
