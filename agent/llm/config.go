package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	openrouterx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"amazon/nova-pro-v1"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	TopP               float32       `envconfig:"TOP_P" split_words:"true" default:"0.8"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	OrchestratorModel       string  `envconfig:"ORCHESTRATOR_MODEL" split_words:"true"`
	AssistantModel          string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	OrchestratorTemperature float32 `envconfig:"ORCHESTRATOR_TEMPERATURE" split_words:"true" default:"-1"`
	AssistantTemperature    float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`

	ImageModel  string `envconfig:"IMAGE_MODEL" split_words:"true" default:"gpt-image-1"`
	VisionModel string `envconfig:"VISION_MODEL" split_words:"true"`
	MaxSteps    int    `envconfig:"MAX_STEPS" split_words:"true" default:"12"`
}

var _ contractx.ModelFactory = Config{}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings of one agent. The orchestrator
// and the assistants can each override the shared model and temperature.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeOrchestrator:
		if v := strings.TrimSpace(c.OrchestratorModel); v != "" {
			modelName = v
		}
		if c.OrchestratorTemperature >= 0 {
			temp = c.OrchestratorTemperature
		}
	default:
		if v := strings.TrimSpace(c.AssistantModel); v != "" {
			modelName = v
		}
		if c.AssistantTemperature >= 0 {
			temp = c.AssistantTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	topP := c.TopP
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		TopP:               &topP,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) NewChatModel(ctx context.Context, agentType contractx.AgentType) (einomodel.ToolCallingChatModel, error) {
	return c.OpenRouterFor(agentType).NewChatModel(ctx)
}

// ImageConfig resolves the image generation and vision settings.
func (c Config) ImageConfig() openrouterx.ImageConfig {
	vision := strings.TrimSpace(c.VisionModel)
	if vision == "" {
		vision = c.OpenRouterFor(contractx.AgentTypeOrchestrator).Model
	}
	return openrouterx.ImageConfig{
		ImageModel:  strings.TrimSpace(c.ImageModel),
		VisionModel: vision,
	}
}
