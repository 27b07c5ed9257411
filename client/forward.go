package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.jetify.com/typeid/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/webhookrelay/relay-go/client"

// Forward outcomes reported to the Recorder.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Result describes a single forward.
type Result struct {
	ID         string
	StatusCode int
	Bytes      int64
	Latency    time.Duration
	Err        error
}

// Forwarder replays webhook events as outbound HTTP requests and streams
// each response body to a sink.
type Forwarder struct {
	transport http.RoundTripper
	sink      io.Writer
	logger    *slog.Logger
	recorder  Recorder
	tracer    trace.Tracer
}

type ForwarderOption func(*Forwarder)

// WithSink sets where response bodies are written. Defaults to os.Stdout.
func WithSink(w io.Writer) ForwarderOption {
	return func(f *Forwarder) { f.sink = w }
}

// WithTransport sets the base round tripper. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) ForwarderOption {
	return func(f *Forwarder) { f.transport = rt }
}

func WithForwarderLogger(logger *slog.Logger) ForwarderOption {
	return func(f *Forwarder) { f.logger = logger }
}

func WithForwarderRecorder(r Recorder) ForwarderOption {
	return func(f *Forwarder) { f.recorder = r }
}

func NewForwarder(opts ...ForwarderOption) *Forwarder {
	f := &Forwarder{
		transport: http.DefaultTransport,
		sink:      os.Stdout,
		logger:    slog.Default(),
		recorder:  nopRecorder{},
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forward issues the request described by evt and copies the response body
// to the sink as it arrives. Failures are logged and returned in the Result;
// they never abort the caller.
func (f *Forwarder) Forward(ctx context.Context, evt *WebhookEvent) (res Result) {
	res.ID = newForwardID()
	logger := f.logger.With(slog.String("forward_id", res.ID))

	ctx, span := f.tracer.Start(ctx, "relay.forward",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("relay.forward_id", res.ID),
			attribute.String("http.request.method", evt.Method),
			attribute.String("url.full", evt.Meta.OutputDestination),
			attribute.String("relay.output_name", evt.Meta.OutputName),
		),
	)
	defer span.End()

	logger.Info("forwarding webhook",
		slog.String("method", evt.Method),
		slog.String("destination", evt.Meta.OutputDestination),
		slog.String("output", evt.Meta.OutputName),
		slog.Int("body_bytes", len(evt.Body)),
	)
	if len(evt.Headers) > 0 || evt.Query != "" {
		logger.Debug("original request headers and query are not forwarded",
			slog.Any("headers", evt.Headers),
			slog.String("query", evt.Query),
		)
	}

	start := time.Now()
	defer func() {
		res.Latency = time.Since(start)
		f.finish(logger, span, &res)
	}()

	req, err := http.NewRequestWithContext(ctx, evt.Method, evt.Meta.OutputDestination, strings.NewReader(evt.Body))
	if err != nil {
		res.Err = err
		return res
	}

	client := &http.Client{Transport: otelhttp.NewTransport(f.transport)}
	resp, err := client.Do(req) //nolint:gosec // destination comes from the relay bucket configuration
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	logger.Info("response received",
		slog.String("status", resp.Status),
		slog.Any("headers", resp.Header),
	)

	res.Bytes, res.Err = io.Copy(f.sink, resp.Body)
	return res
}

func (f *Forwarder) finish(logger *slog.Logger, span trace.Span, res *Result) {
	span.SetAttributes(
		attribute.Int("http.response.status_code", res.StatusCode),
		attribute.Int64("relay.response_bytes", res.Bytes),
	)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		logger.Error("forward failed",
			slog.String("error", res.Err.Error()),
			slog.Int("status_code", res.StatusCode),
			slog.Duration("latency", res.Latency),
		)
		f.recorder.ForwardCompleted(OutcomeFailed, res.Latency, res.Bytes)
		return
	}

	logger.Info("forward complete",
		slog.Int("status_code", res.StatusCode),
		slog.Int64("bytes", res.Bytes),
		slog.Duration("latency", res.Latency),
	)
	f.recorder.ForwardCompleted(OutcomeDelivered, res.Latency, res.Bytes)
}

func newForwardID() string {
	tid, err := typeid.Generate("fwd")
	if err != nil {
		return ""
	}
	return tid.String()
}
