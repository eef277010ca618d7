package telemetry

import "log/slog"

// AppMode identifies how the hiergeom binary was launched. The demo binary
// only ever runs in CLI mode, but the type is kept distinct from a plain
// string so a future server mode has somewhere to attach.
type AppMode string

// ModeCLI is the only mode cmd/hiergeomdemo launches in.
const ModeCLI AppMode = "cli"

const (
	defaultServiceName        = "hiergeomdemo"
	defaultShutdownTimeoutSec = 5
)

// Config holds telemetry configuration: service identity for the OTel
// resource, structured-log formatting, and whether processor metrics are
// exported to a local Prometheus registry.
type Config struct {
	ServiceName string
	Environment string
	Mode        AppMode

	LogLevel slog.Level
	LogJSON  bool

	MetricsEnabled bool
	MetricsAddress string

	ShutdownTimeoutSec int
}

// DefaultConfig returns the zero-export configuration: structured JSON
// logging, metrics disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		LogJSON:            true,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
