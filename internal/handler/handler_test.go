package handler

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/model"
)

const calculateBody = `{
	"request_id": "r-42",
	"input": {
		"deceased": {"name": "Budi", "gender": "male", "maritalStatus": "married"},
		"heirs": [
			{"id": "w", "relation": "spouse", "name": "Siti", "gender": "female", "isAlive": true, "count": 1},
			{"id": "s", "relation": "son", "name": "Andi", "gender": "male", "isAlive": true, "count": 2}
		],
		"totalEstate": 120000000,
		"lawSystem": "islam"
	}
}`

func serve(t *testing.T, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	req.SetBodyString(body)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	New(engine.New(engine.Options{}), nil, nil).Handle(ctx)
	return ctx
}

func TestCalculate(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculate", calculateBody)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var resp model.CalculationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	assert.Equal(t, "r-42", resp.CalculationMetadata.RequestID)
	assert.Equal(t, model.LawIslam, resp.CalculationMetadata.LawSystem)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Shares, 2)
	assert.Equal(t, int64(15_000_000), resp.Result.Shares[0].Amount)
	assert.Equal(t, int64(52_500_000), resp.Result.Shares[1].AmountPerHeir)
}

func TestCalculateInvalidInput(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculate", `{"input": {"heirs": []}}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp model.CalculationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, model.OutcomeFailure, resp.CalculationMetadata.CalculationOutcome)
	assert.Nil(t, resp.Result)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, model.CodeValidation, resp.Messages[0].Code)
}

func TestValidate(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/validate", calculateBody)
	var ok model.ValidationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &ok))
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)

	ctx = serve(t, fasthttp.MethodPost, "/validate", `{"input": {"lawSystem": "perdata"}}`)
	var bad model.ValidationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &bad))
	assert.False(t, bad.Valid)
	assert.NotEmpty(t, bad.Errors)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		method, path, body string
		status             int
	}{
		{fasthttp.MethodPost, "/calculate", "{not json", fasthttp.StatusBadRequest},
		{fasthttp.MethodGet, "/calculate", "", fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodPost, "/healthz", "", fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodGet, "/nope", "", fasthttp.StatusNotFound},
	}
	for _, tt := range tests {
		ctx := serve(t, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.status, ctx.Response.StatusCode(), tt.path)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, tt.status, resp.Status)
		assert.NotEmpty(t, resp.Message)
	}
}

func TestHealthz(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestRequestLogCarriesLawSystem(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := New(engine.New(engine.Options{}), zap.New(core), nil)

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("/calculate")
	req.SetBodyString(calculateBody)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h.Handle(ctx)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "islam", fields["law_system"])
	assert.Equal(t, "/calculate", fields["path"])
	assert.Equal(t, int64(fasthttp.StatusOK), fields["status"])

	ctx = &fasthttp.RequestCtx{}
	var health fasthttp.Request
	health.Header.SetMethod(fasthttp.MethodGet)
	health.SetRequestURI("/healthz")
	ctx.Init(&health, nil, nil)
	h.Handle(ctx)
	entries = logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].ContextMap(), "law_system")
}
