// Package tracing wires an OpenTelemetry tracer provider whose finished spans
// are folded into Prometheus histograms instead of being exported remotely.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/barcarate/pkg/metrics"
)

// Default tracer configuration constants.
const (
	defaultServiceName = "barcarate"
	defaultSampleRatio = 1.0
)

type options struct {
	serviceName string
	sampleRatio float64
	processors  []sdktrace.SpanProcessor
}

// Option configures NewProvider.
type Option func(*options)

// WithServiceName sets the service.name attribute recorded on the tracer.
func WithServiceName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.serviceName = name
		}
	}
}

// WithSampleRatio sets the fraction of root spans that are sampled, in [0, 1].
func WithSampleRatio(ratio float64) Option {
	return func(o *options) {
		if ratio >= 0 && ratio <= 1 {
			o.sampleRatio = ratio
		}
	}
}

// WithSpanProcessor registers an extra processor, e.g. a recorder in tests.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(o *options) {
		if p != nil {
			o.processors = append(o.processors, p)
		}
	}
}

// NewProvider builds a tracer provider and installs it as the global provider.
// The caller owns Shutdown.
func NewProvider(opts ...Option) *sdktrace.TracerProvider {
	o := options{serviceName: defaultServiceName, sampleRatio: defaultSampleRatio}
	for _, opt := range opts {
		opt(&o)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.sampleRatio))),
		sdktrace.WithSpanProcessor(metricsProcessor{}),
	}
	for _, p := range o.processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(p))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	return tp
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Start is a shorthand for Tracer(scope).Start with string attributes.
func Start(ctx context.Context, scope, span string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(scope).Start(ctx, span, trace.WithAttributes(attrs...))
}

// metricsProcessor records the duration of every ended span.
type metricsProcessor struct{}

func (metricsProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (metricsProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	ms := float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000
	metrics.RecordSpanDuration(s.Name(), ms)
}

func (metricsProcessor) Shutdown(context.Context) error   { return nil }
func (metricsProcessor) ForceFlush(context.Context) error { return nil }
