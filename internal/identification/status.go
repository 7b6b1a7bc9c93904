package identification

import (
	"context"

	"florafinder/internal/logging"
	"florafinder/internal/services"
)

// ServiceStatus summarises the identification service's health.
type ServiceStatus struct {
	Reachable bool     `json:"reachable"`
	Status    string   `json:"status,omitempty"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// ServiceStatus queries the service health endpoint and, when reachable, the
// languages available to the configured key. Upstream trouble is reported in
// the returned value rather than as an error.
func (id *Identifier) ServiceStatus(ctx context.Context) ServiceStatus {
	ctx = services.WithOperation(ctx, "status")
	logger := logging.WithContext(ctx, id.logger)

	health := id.client.Status(ctx)
	if !health.IsOK() {
		logger.Info("identification service status unavailable", logging.String("reason", health.Reason()))
		return ServiceStatus{Message: health.Reason()}
	}
	status := ServiceStatus{Reachable: true}
	if health.Value != nil {
		status.Status = health.Value.Status
		status.Version = health.Value.Version
	}

	languages := id.client.Languages(ctx)
	switch {
	case languages.IsOK():
		for _, lang := range languages.Value {
			status.Languages = append(status.Languages, lang.Code)
		}
	case languages.IsError():
		logging.WarnWithContext(logger, "language list unavailable", "languages_failed",
			logging.String("reason", languages.Reason()),
			logging.String(logging.FieldImpact, "status shown without languages"),
		)
	}
	return status
}
