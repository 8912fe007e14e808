package telemetry

import (
	"context"
	"errors"
)

// Providers groups everything that must be flushed on shutdown
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Business *BusinessMetrics
}

// Shutdown stops background collection and flushes every pipeline. Logs go
// last so shutdown messages from the other providers still get exported.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Business != nil {
		p.Business.Stop()
	}
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
