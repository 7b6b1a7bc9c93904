package identification

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"florafinder/internal/logging"
	"florafinder/internal/services"
	"florafinder/internal/services/plantnet"
)

// NoMatchMessage is the failure message used when the service matched nothing.
const NoMatchMessage = "no species matched"

// SpeciesIdentifier is the identification service as seen by the orchestrator.
// *plantnet.Client satisfies it.
type SpeciesIdentifier interface {
	Identify(ctx context.Context, req plantnet.IdentifyRequest) services.Outcome[*plantnet.Response]
	Status(ctx context.Context) services.Outcome[*plantnet.ServiceStatus]
	Languages(ctx context.Context) services.Outcome[[]plantnet.Language]
}

// Recorder receives one observation per Identify call. Outcome is one of
// ok, empty, error, or invalid.
type Recorder interface {
	ObserveIdentification(outcome string, latency time.Duration)
}

// Identifier orchestrates a single identification.
type Identifier struct {
	client     SpeciesIdentifier
	logger     *slog.Logger
	tempDir    string
	httpClient *http.Client
	observer   services.Observer
	recorder   Recorder
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(id *Identifier) {
		if logger != nil {
			id.logger = logger
		}
	}
}

// WithTempDir sets where downloaded images are staged.
func WithTempDir(dir string) Option {
	return func(id *Identifier) {
		if strings.TrimSpace(dir) != "" {
			id.tempDir = dir
		}
	}
}

// WithHTTPClient sets the client used to download remote images.
func WithHTTPClient(client *http.Client) Option {
	return func(id *Identifier) {
		if client != nil {
			id.httpClient = client
		}
	}
}

// WithObserver reports image downloads as upstream calls.
func WithObserver(observer services.Observer) Option {
	return func(id *Identifier) {
		id.observer = observer
	}
}

// WithRecorder reports identification outcomes.
func WithRecorder(recorder Recorder) Option {
	return func(id *Identifier) {
		id.recorder = recorder
	}
}

// New builds an Identifier around client.
func New(client SpeciesIdentifier, opts ...Option) *Identifier {
	id := &Identifier{
		client:     client,
		logger:     logging.NewNop(),
		tempDir:    os.TempDir(),
		httpClient: services.NewHTTPClient(0, 0),
	}
	for _, opt := range opts {
		opt(id)
	}
	id.logger = logging.NewComponentLogger(id.logger, "identification")
	return id
}

// Identify validates req, stages its image, and asks the identification
// service exactly once. Validation problems are returned as errors marked
// services.ErrValidation; every upstream problem is a Result with a Failure.
func (id *Identifier) Identify(ctx context.Context, req Request) (result Result, err error) {
	ctx = services.WithOperation(ctx, "identify")
	logger := logging.WithContext(ctx, id.logger)
	start := time.Now()
	defer func() {
		id.record(result, err, time.Since(start))
	}()

	organ, err := ParseOrgan(string(req.Organ))
	if err != nil {
		return Result{}, err
	}
	if req.Image.kind() == "" {
		return Result{}, invalidImage("image required", nil)
	}

	image, release, err := id.acquireImage(ctx, req.Image)
	defer release()
	if err != nil {
		var download *downloadError
		if errors.As(err, &download) {
			logging.WarnWithContext(logger, "image download failed", "image_download_failed",
				logging.Int("status", download.status),
				logging.Error(download.err),
				logging.String(logging.FieldErrorHint, "check the image url is reachable"),
				logging.String(logging.FieldImpact, "identification not attempted"),
			)
			return Result{Failure: &Failure{
				HTTPStatus: download.status,
				Message:    "image download failed",
				RawBody:    download.body,
			}}, nil
		}
		return Result{}, err
	}

	logger.Debug("submitting image",
		logging.String("organ", organ.String()),
		logging.Bool("staged", image.path != "" && req.Image.kind() == "url"),
	)
	outcome := id.client.Identify(ctx, plantnet.IdentifyRequest{
		Image:     image.data,
		ImagePath: image.path,
		Organ:     organ.String(),
		Project:   req.Project,
	})

	switch outcome.Kind {
	case services.OutcomeOK:
		result = newResult(outcome.Value)
		if best, ok := result.Best(); ok {
			logger.Info("species identified",
				logging.String(logging.FieldSpecies, best.LookupName()),
				logging.Float64("score", best.Score),
				logging.Int("candidates", len(result.Candidates)),
			)
		}
		return result, nil
	case services.OutcomeEmpty:
		logger.Info("no species matched", logging.String("organ", organ.String()))
		return Result{Failure: &Failure{HTTPStatus: http.StatusNotFound, Message: NoMatchMessage}}, nil
	default:
		if errors.Is(outcome.Err, services.ErrValidation) {
			return Result{}, outcome.Err
		}
		failure := failureFrom(outcome.Err)
		logging.WarnWithContext(logger, "identification service unavailable", "identification_failed",
			logging.Int("status", failure.HTTPStatus),
			logging.String("message", failure.Message),
			logging.String(logging.FieldErrorHint, "check the PlantNet API key and quota"),
			logging.String(logging.FieldImpact, "no candidates returned"),
		)
		return Result{Failure: failure}, nil
	}
}

func failureFrom(err error) *Failure {
	upstream, ok := services.AsUpstream(err)
	if !ok {
		return &Failure{Message: err.Error()}
	}
	message := strings.TrimSpace(upstream.Message)
	switch {
	case message != "":
	case upstream.Timeout:
		message = "identification service timed out"
	case upstream.StatusCode == 0:
		message = "identification service unreachable"
	default:
		message = http.StatusText(upstream.StatusCode)
	}
	return &Failure{HTTPStatus: upstream.StatusCode, Message: message, RawBody: upstream.Body}
}

func (id *Identifier) record(result Result, err error, latency time.Duration) {
	if id.recorder == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "invalid"
	case result.Failure != nil && result.Failure.HTTPStatus == http.StatusNotFound && result.Failure.Message == NoMatchMessage:
		outcome = "empty"
	case result.Failure != nil:
		outcome = "error"
	}
	id.recorder.ObserveIdentification(outcome, latency)
}
