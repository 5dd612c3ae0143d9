package handler

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/logging"
	"inheritance-engine/internal/model"
)

const metricNamespace = "inheritance-engine"

type Handler struct {
	calc         *engine.Calculator
	logger       *zap.Logger
	calculations metric.Int64Counter
	duration     metric.Float64Histogram
}

// New builds the HTTP handler. A nil meter uses the global meter provider.
func New(calc *engine.Calculator, logger *zap.Logger, meter metric.Meter) *Handler {
	logger = logging.Or(logger)
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	calculations, err := meter.Int64Counter(
		"inheritance.calculations",
		metric.WithDescription("Count of processed calculation requests"),
	)
	if err != nil {
		logger.Warn("handler: unable to register calculation counter", zap.Error(err))
	}
	duration, err := meter.Float64Histogram(
		"inheritance.calculation.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of calculation requests"),
	)
	if err != nil {
		logger.Warn("handler: unable to register duration metric", zap.Error(err))
	}

	return &Handler{calc: calc, logger: logger, calculations: calculations, duration: duration}
}

func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	var law model.LawSystem
	switch string(ctx.Path()) {
	case "/calculate":
		if h.allow(ctx, fasthttp.MethodPost) {
			law = h.calculate(ctx)
		}
	case "/validate":
		if h.allow(ctx, fasthttp.MethodPost) {
			law = h.validate(ctx)
		}
	case "/healthz":
		if h.allow(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}

	fields := []zap.Field{
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	}
	if law != "" {
		fields = append(fields, zap.String("law_system", string(law)))
	}
	h.logger.Info("request", fields...)
}

func (h *Handler) allow(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// calculate serves /calculate and returns the requested law system for the
// request log.
func (h *Handler) calculate(ctx *fasthttp.RequestCtx) model.LawSystem {
	start := time.Now()

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return ""
	}

	resp := h.calc.Process(&req)

	attrs := metric.WithAttributes(
		attribute.String("law_system", string(req.Input.LawSystem)),
		attribute.String("outcome", resp.CalculationMetadata.CalculationOutcome),
	)
	if h.calculations != nil {
		h.calculations.Add(ctx, 1, attrs)
	}
	if h.duration != nil {
		h.duration.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), attrs)
	}
	if resp.CalculationMetadata.CalculationOutcome == model.OutcomeFailure {
		h.logger.Debug("calculation rejected",
			zap.String("calculation_id", resp.CalculationMetadata.CalculationID),
			zap.Int("messages", len(resp.Messages)),
		)
	}

	writeJSON(ctx, fasthttp.StatusOK, resp)
	return req.Input.LawSystem
}

func (h *Handler) validate(ctx *fasthttp.RequestCtx) model.LawSystem {
	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return ""
	}

	errs := h.calc.Validate(req.Input)
	if errs == nil {
		errs = []string{}
	}
	writeJSON(ctx, fasthttp.StatusOK, model.ValidationResponse{Valid: len(errs) == 0, Errors: errs})
	return req.Input.LawSystem
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Unable to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
