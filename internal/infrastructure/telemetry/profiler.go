package telemetry

import (
	"fmt"
	"os"
	"runtime"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiler is a running Pyroscope session, or nothing when profiling is off
type Profiler struct {
	profiler *pyroscope.Profiler
}

// StartProfiler starts continuous profiling when telemetry.profiling_enabled is set
func StartProfiler(cfg config.TelemetryConfig, logger *zap.Logger) (*Profiler, error) {
	if !cfg.ProfilingEnabled {
		return &Profiler{}, nil
	}
	if cfg.PyroscopeEndpoint == "" {
		return nil, fmt.Errorf("telemetry.pyroscope_endpoint is required when profiling is enabled")
	}

	runtime.SetMutexProfileFraction(5)
	runtime.SetBlockProfileRate(5)

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.PyroscopeEndpoint,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("Pyroscope profiler started", zap.String("server_address", cfg.PyroscopeEndpoint))
	return &Profiler{profiler: p}, nil
}

// IsEnabled reports whether profiles are being collected
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes and stops the profiler
func (p *Profiler) Stop() error {
	if p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

type pyroscopeLogger struct {
	s *zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
