package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	orchestratorx "github.com/tanpawarit/enchanted-day-orchestrator/agent/agents/orchestrator"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/agents/specialist"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/gateway"
	handlerx "github.com/tanpawarit/enchanted-day-orchestrator/agent/handler"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/llm"
	promptx "github.com/tanpawarit/enchanted-day-orchestrator/agent/prompt"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/resource"
	toolx "github.com/tanpawarit/enchanted-day-orchestrator/agent/tool"
	configx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/config"
	_ "github.com/tanpawarit/enchanted-day-orchestrator/pkg/logger/autoload"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
	objectstorex "github.com/tanpawarit/enchanted-day-orchestrator/pkg/objectstore"
	openrouterx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/openrouter"
	qstashx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/qstash"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources := configx.MustNew[resource.Config]("")
	llmCfg := configx.MustNew[llm.Config]("OPENROUTER")
	recordCfg := configx.MustNew[record.Config]("RECORD")
	mediaCfg := configx.MustNew[objectstorex.Config]("MEDIA")
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	httpCfg := configx.MustNew[gateway.Config]("HTTP")

	store, err := record.Open(ctx, *recordCfg, resources.Tables())
	if err != nil {
		log.Fatal().Err(err).Str("backend", recordCfg.Backend).Msg("open record store")
	}
	defer store.Close()

	objects, err := objectstorex.Open(ctx, *mediaCfg, resources.MediaBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("open media bucket")
	}

	deps := toolx.UtilityDeps{
		Objects:  objects,
		EventBus: resources.EventBusName,
	}

	if strings.TrimSpace(qstashCfg.Token) != "" {
		deps.Events = qstashx.MustNew(*qstashCfg)
	} else {
		log.Warn().Msg("QSTASH_TOKEN not set, event publishing disabled")
	}

	openRouterClient, err := openrouterx.NewClient(llmCfg.OpenRouterFor(contractx.AgentTypeOrchestrator))
	if err != nil {
		log.Fatal().Err(err).Msg("build openrouter client")
	}
	images, err := openrouterx.NewImageClient(openRouterClient, llmCfg.ImageConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("build image client")
	}
	deps.Images = images
	deps.Vision = images

	metrics := metricsx.NewPrometheus("enchanted_day")
	prompts := promptx.LoadPromptSet()

	assistants, err := specialist.NewRegistry(ctx, specialist.Deps{
		Store:    store,
		Models:   llmCfg,
		Prompts:  prompts,
		Metrics:  metrics,
		MaxSteps: llmCfg.MaxSteps,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build assistants")
	}
	logAssistants(ctx, assistants, deps)

	handler := handlerx.New(func(ctx context.Context) (handlerx.Invoker, error) {
		o, err := orchestratorx.New(ctx, orchestratorx.Deps{
			Assistants:   assistants,
			Utilities:    toolx.Utilities(deps),
			Resources:    resources,
			Models:       llmCfg,
			SystemPrompt: prompts.Orchestrator,
			Metrics:      metrics,
			MaxSteps:     llmCfg.MaxSteps,
		})
		if err != nil {
			return nil, err
		}
		return o, nil
	}, metrics)

	gateway.SetMode(httpCfg.Debug)
	router := gateway.BuildRouter(gateway.RouterDeps{
		Config:         *httpCfg,
		Handler:        handler,
		Metrics:        metrics,
		MetricsHandler: metrics.Handler(),
	})

	if err := gateway.Serve(ctx, *httpCfg, router); err != nil {
		log.Fatal().Err(err).Msg("http gateway stopped")
	}
}

func logAssistants(ctx context.Context, assistants *specialist.Registry, deps toolx.UtilityDeps) {
	for _, d := range specialist.Definitions() {
		log.Debug().
			Str("assistant", string(d.Name)).
			Str("tool", d.ToolName).
			Int("collections", len(d.Collections)).
			Bool("escalates", d.Escalates).
			Msg("assistant scope")
	}
	for _, a := range assistants.Specialized() {
		log.Info().
			Str("assistant", string(a.Name())).
			Strs("capabilities", a.Capabilities()).
			Msg("specialized assistant ready")
	}
	log.Info().Strs("utilities", toolx.Names(ctx, toolx.Utilities(deps))).Msg("utility tools ready")
}
