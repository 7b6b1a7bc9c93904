package config

import (
	"florafinder/internal/services/gbif"
	"florafinder/internal/services/iucn"
	"florafinder/internal/services/plantnet"
	"florafinder/internal/services/trefle"
)

const (
	defaultConfigPath      = "~/.config/florafinder/config.toml"
	defaultLogDir          = "~/.local/share/florafinder/logs"
	defaultStateDir        = "~/.local/share/florafinder"
	defaultServerBind      = "127.0.0.1:7488"
	defaultReadTimeout     = 30
	defaultWriteTimeout    = 180
	defaultShutdownTimeout = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultTraceFile       = "traces.jsonl"
	defaultSampleRatio     = 1.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			TempDir:  defaultTempDir(),
			StateDir: defaultStateDir,
		},
		PlantNet: PlantNet{
			BaseURL:    plantnet.DefaultBaseURL,
			Project:    plantnet.DefaultProject,
			Language:   plantnet.DefaultLanguage,
			MaxResults: plantnet.DefaultResults,
			Timeouts:   seconds(plantnet.DefaultConnectTimeout.Seconds(), plantnet.DefaultRequestTimeout.Seconds()),
		},
		IUCN: IUCN{
			BaseURL:  iucn.DefaultBaseURL,
			Timeouts: seconds(iucn.DefaultConnectTimeout.Seconds(), iucn.DefaultRequestTimeout.Seconds()),
		},
		GBIF: GBIF{
			BaseURL:  gbif.DefaultBaseURL,
			Timeouts: seconds(gbif.DefaultConnectTimeout.Seconds(), gbif.DefaultRequestTimeout.Seconds()),
		},
		Trefle: Trefle{
			BaseURL:  trefle.DefaultBaseURL,
			Timeouts: seconds(trefle.DefaultConnectTimeout.Seconds(), trefle.DefaultRequestTimeout.Seconds()),
		},
		Server: Server{
			Bind:            defaultServerBind,
			Metrics:         true,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Tracing: Tracing{
			SampleRatio: defaultSampleRatio,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func seconds(connect, request float64) Timeouts {
	return Timeouts{ConnectTimeout: int(connect), RequestTimeout: int(request)}
}
