package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

const missingPromptBody = `{"error":"Prompt is required"}`

type Arguments struct {
	Prompt    string         `json:"prompt"`
	WeddingID *string        `json:"wedding_id,omitempty"`
	Type      string         `json:"type,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// Event is the invocation payload. Only Arguments.Prompt and
// Arguments.WeddingID reach the orchestrator.
type Event struct {
	Arguments Arguments `json:"arguments"`
}

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	Response  string  `json:"response"`
	WeddingID *string `json:"wedding_id"`
	Agent     string  `json:"agent"`
}

type Invoker interface {
	Invoke(ctx context.Context, prompt string, weddingID *string) (string, error)
}

// Factory builds one orchestrator for one request.
type Factory func(ctx context.Context) (Invoker, error)

type Handler struct {
	newOrchestrator Factory
	metrics         metricsx.Recorder
}

func New(factory Factory, metrics metricsx.Recorder) *Handler {
	return &Handler{
		newOrchestrator: factory,
		metrics:         metricsx.OrNoop(metrics),
	}
}

// Handle validates the event, runs a fresh orchestrator and wraps its reply.
// Construction and invocation errors are returned unchanged.
func (h *Handler) Handle(ctx context.Context, ev Event) (Response, error) {
	args := ev.Arguments
	if args.Prompt == "" {
		h.metrics.ObserveResponse(http.StatusBadRequest)
		return Response{StatusCode: http.StatusBadRequest, Body: missingPromptBody}, nil
	}

	logger := log.With().Str("type", args.Type).Logger()
	if args.WeddingID != nil {
		logger = logger.With().Str("wedding_id", *args.WeddingID).Logger()
	}

	orchestrator, err := h.newOrchestrator(ctx)
	if err != nil {
		h.metrics.ObserveResponse(http.StatusInternalServerError)
		logger.Error().Err(err).Msg("build orchestrator failed")
		return Response{}, err
	}

	reply, err := orchestrator.Invoke(ctx, args.Prompt, args.WeddingID)
	if err != nil {
		h.metrics.ObserveResponse(http.StatusInternalServerError)
		logger.Error().Err(err).Msg("orchestrator invocation failed")
		return Response{}, err
	}

	body, err := json.Marshal(responseBody{
		Response:  reply,
		WeddingID: args.WeddingID,
		Agent:     contractx.ResponseAgent,
	})
	if err != nil {
		return Response{}, fmt.Errorf("encode response body: %w", err)
	}

	h.metrics.ObserveResponse(http.StatusOK)
	logger.Info().Int("reply_len", len(reply)).Msg("request handled")
	return Response{StatusCode: http.StatusOK, Body: string(body)}, nil
}
