package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	handlerx "github.com/tanpawarit/enchanted-day-orchestrator/agent/handler"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

const (
	streamAgentName = "EnchantedDay AI Assistant"
	wordsPerChunk   = 10
	maxRequestBytes = 1 << 20
)

var allowedHeaders = []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "x-amz-user-agent"}

type Handler interface {
	Handle(ctx context.Context, ev handlerx.Event) (handlerx.Response, error)
}

type RouterDeps struct {
	Config  Config
	Handler Handler
	Metrics metricsx.Recorder
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
}

type chatRequest struct {
	Prompt    string         `json:"prompt"`
	WeddingID *string        `json:"wedding_id"`
	Type      string         `json:"type"`
	Context   map[string]any `json:"context"`
	Stream    bool           `json:"stream"`
}

type streamEvent struct {
	Type    string `json:"type"`
	Agent   string `json:"agent,omitempty"`
	Content string `json:"content,omitempty"`
}

type api struct {
	handler Handler
	metrics metricsx.Recorder
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.Config.AllowedOrigins)))

	a := &api{handler: dep.Handler, metrics: metricsx.OrNoop(dep.Metrics)}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if dep.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(dep.MetricsHandler))
	}

	v1 := r.Group("/v1")
	v1.POST("/invoke", a.invoke)
	v1.POST("/chat", a.chat)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions, http.MethodGet},
		AllowHeaders: allowedHeaders,
		MaxAge:       24 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// invoke accepts a raw handler event and replies with the envelope body.
func (a *api) invoke(c *gin.Context) {
	var ev handlerx.Event
	if !a.decode(c, &ev) {
		return
	}

	resp, err := a.handler.Handle(c.Request.Context(), ev)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
}

// chat is the front door: it enhances the prompt by request type and
// optionally streams the reply as server-sent events.
func (a *api) chat(c *gin.Context) {
	var req chatRequest
	if !a.decode(c, &req) {
		return
	}

	requestType := req.Type
	if requestType == "" {
		requestType = handlerx.TypeChat
	}

	resp, err := a.handler.Handle(c.Request.Context(), handlerx.Event{
		Arguments: handlerx.Arguments{
			Prompt:    handlerx.EnhancePrompt(requestType, req.Prompt, req.Context),
			WeddingID: req.WeddingID,
			Type:      requestType,
			Context:   req.Context,
		},
	})
	if err != nil {
		a.fail(c, err)
		return
	}

	if !req.Stream || resp.StatusCode != http.StatusOK {
		c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
		return
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		a.fail(c, fmt.Errorf("decode handler body: %w", err))
		return
	}
	a.stream(c, body.Response)
}

func (a *api) stream(c *gin.Context, reply string) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		a.fail(c, errors.New("streaming unsupported"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(ev streamEvent) {
		raw, err := json.Marshal(ev)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", raw)
		flusher.Flush()
	}

	send(streamEvent{Type: "start", Agent: streamAgentName})

	thinking, content := ExtractThinking(reply)
	if thinking != "" {
		send(streamEvent{Type: "thinking", Content: thinking})
	}
	for _, chunk := range SplitIntoChunks(content, wordsPerChunk) {
		if c.Request.Context().Err() != nil {
			return
		}
		send(streamEvent{Type: "content", Content: chunk})
	}

	send(streamEvent{Type: "end"})
}

func (a *api) decode(c *gin.Context, out any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
	raw, err := c.GetRawData()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		a.metrics.ObserveResponse(http.StatusRequestEntityTooLarge)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return false
	}
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		a.metrics.ObserveResponse(http.StatusBadRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return false
	}
	return true
}

func (a *api) fail(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
