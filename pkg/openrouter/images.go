package openrouter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

type ImageConfig struct {
	ImageModel  string
	VisionModel string
}

// ImageClient generates images and answers questions about them through the
// OpenAI-compatible images and chat completions endpoints.
type ImageClient struct {
	client *openaisdk.Client
	cfg    ImageConfig
}

func NewImageClient(client *openaisdk.Client, cfg ImageConfig) (*ImageClient, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if strings.TrimSpace(cfg.ImageModel) == "" {
		return nil, errors.New("image model is required")
	}
	if strings.TrimSpace(cfg.VisionModel) == "" {
		return nil, errors.New("vision model is required")
	}
	return &ImageClient{client: client, cfg: cfg}, nil
}

// GenerateImage returns the PNG bytes of one 1024x1024 image.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	params := openaisdk.ImageGenerateParams{
		Prompt: prompt,
		Model:  openaisdk.ImageModel(c.cfg.ImageModel),
		N:      openaisdk.Int(1),
		Size:   openaisdk.ImageGenerateParamsSize1024x1024,
	}
	// dall-e models default to URLs; gpt-image models always return base64.
	if strings.HasPrefix(c.cfg.ImageModel, "dall-e") {
		params.ResponseFormat = openaisdk.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("generate image: empty response")
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return img, nil
}

func (c *ImageClient) DescribeImage(ctx context.Context, question string, image []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.cfg.VisionModel),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage([]openaisdk.ChatCompletionContentPartUnionParam{
				openaisdk.TextContentPart(question),
				openaisdk.ImageContentPart(openaisdk.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("describe image: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
