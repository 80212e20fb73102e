package tracing_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/okian/barcarate/pkg/tracing"
)

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) OnStart(context.Context, sdktrace.ReadWriteSpan) {}
func (r *recorder) OnEnd(s sdktrace.ReadOnlySpan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, s.Name())
}
func (r *recorder) Shutdown(context.Context) error   { return nil }
func (r *recorder) ForceFlush(context.Context) error { return nil }

func TestProvider(t *testing.T) {
	Convey("Given a provider with full sampling", t, func() {
		rec := &recorder{}
		tp := tracing.NewProvider(tracing.WithServiceName("test"), tracing.WithSampleRatio(1), tracing.WithSpanProcessor(rec))
		defer func() { _ = tp.Shutdown(context.Background()) }()

		Convey("When a span is started and ended", func() {
			ctx, span := tracing.Start(context.Background(), "scoring", "scoring.evaluate", attribute.String("player", "Pedri"))
			So(span.SpanContext().IsValid(), ShouldBeTrue)
			So(ctx, ShouldNotBeNil)
			span.End()

			Convey("Then processors see it", func() {
				So(rec.names, ShouldContain, "scoring.evaluate")
			})
		})
	})

	Convey("Given a provider that never samples", t, func() {
		rec := &recorder{}
		tp := tracing.NewProvider(tracing.WithSampleRatio(0), tracing.WithSpanProcessor(rec))
		defer func() { _ = tp.Shutdown(context.Background()) }()

		_, span := tracing.Tracer("squad").Start(context.Background(), "squad.analyze")
		span.End()

		So(span.SpanContext().IsSampled(), ShouldBeFalse)
		So(rec.names, ShouldBeEmpty)
	})
}
