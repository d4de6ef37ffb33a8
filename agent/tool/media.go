package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

const (
	imagePrefix          = "generated/images/"
	videoPrefix          = "generated/videos/"
	defaultImageQuestion = "Describe this image in detail."
	EventVideoRequested  = "video.generate.requested"
)

type generateImageArgs struct {
	Prompt string `json:"prompt"`
}

type imageResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URI    string `json:"uri"`
}

func newGenerateImageTool(deps UtilityDeps) einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolGenerateImage,
		Desc: "Generate an image from a text prompt and store it in the media bucket.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"prompt": {Type: schema.String, Desc: "What the image should show", Required: true},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		if deps.Images == nil || deps.Objects == nil {
			return notConfigured(ToolGenerateImage, "image generation")
		}
		var in generateImageArgs
		if err := decodeArgs(ToolGenerateImage, args, &in); err != nil {
			return softError(ToolGenerateImage, err)
		}
		if strings.TrimSpace(in.Prompt) == "" {
			return softError(ToolGenerateImage, fmt.Errorf("%w: prompt is required", contractx.ErrValidation))
		}

		png, err := deps.Images.GenerateImage(ctx, in.Prompt)
		if err != nil {
			return softError(ToolGenerateImage, err)
		}
		key := imagePrefix + uuid.NewString() + ".png"
		if err := deps.Objects.Put(ctx, key, png, "image/png"); err != nil {
			return softError(ToolGenerateImage, err)
		}

		bucket := deps.Objects.Bucket()
		return encodeResult(ToolGenerateImage, imageResult{Bucket: bucket, Key: key, URI: objectURI(bucket, key)})
	})
}

type imageReaderArgs struct {
	Key      string `json:"key"`
	Question string `json:"question,omitempty"`
}

type imageReaderResult struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

func newImageReaderTool(deps UtilityDeps) einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolImageReader,
		Desc: "Read an image stored in the media bucket and describe it.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"key":      {Type: schema.String, Desc: "Object key of the image in the media bucket", Required: true},
			"question": {Type: schema.String, Desc: "What to look for in the image"},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		if deps.Vision == nil || deps.Objects == nil {
			return notConfigured(ToolImageReader, "image reading")
		}
		var in imageReaderArgs
		if err := decodeArgs(ToolImageReader, args, &in); err != nil {
			return softError(ToolImageReader, err)
		}
		key := strings.TrimPrefix(strings.TrimSpace(in.Key), objectURI(deps.Objects.Bucket(), ""))
		if key == "" {
			return softError(ToolImageReader, fmt.Errorf("%w: key is required", contractx.ErrValidation))
		}

		body, contentType, err := deps.Objects.Get(ctx, key)
		if err != nil {
			return softError(ToolImageReader, err)
		}
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(body)
		}
		if !strings.HasPrefix(contentType, "image/") {
			return softError(ToolImageReader, fmt.Errorf("%w: object %s is %s, not an image", contractx.ErrValidation, key, contentType))
		}

		question := strings.TrimSpace(in.Question)
		if question == "" {
			question = defaultImageQuestion
		}
		desc, err := deps.Vision.DescribeImage(ctx, question, body, contentType)
		if err != nil {
			return softError(ToolImageReader, err)
		}
		return encodeResult(ToolImageReader, imageReaderResult{Key: key, Description: desc})
	})
}

type generateVideoArgs struct {
	Prompt          string `json:"prompt"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

type videoRequest struct {
	DetailType      string `json:"detail_type"`
	JobID           string `json:"job_id"`
	Prompt          string `json:"prompt"`
	DurationSeconds int    `json:"duration_seconds"`
	Bucket          string `json:"bucket"`
	OutputKey       string `json:"output_key"`
	RequestedAt     string `json:"requested_at"`
}

type videoResult struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	OutputURI string `json:"output_uri"`
	MessageID string `json:"message_id,omitempty"`
}

func newGenerateVideoTool(deps UtilityDeps) einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolGenerateVideo,
		Desc: "Start an asynchronous video generation job. The video is written to the media bucket when done.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"prompt":           {Type: schema.String, Desc: "What the video should show", Required: true},
			"duration_seconds": {Type: schema.Integer, Desc: "Clip length, default 6"},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		if deps.Events == nil || deps.Objects == nil || strings.TrimSpace(deps.EventBus) == "" {
			return notConfigured(ToolGenerateVideo, "video generation")
		}
		var in generateVideoArgs
		if err := decodeArgs(ToolGenerateVideo, args, &in); err != nil {
			return softError(ToolGenerateVideo, err)
		}
		if strings.TrimSpace(in.Prompt) == "" {
			return softError(ToolGenerateVideo, fmt.Errorf("%w: prompt is required", contractx.ErrValidation))
		}
		if in.DurationSeconds <= 0 {
			in.DurationSeconds = 6
		}

		jobID := uuid.NewString()
		bucket := deps.Objects.Bucket()
		req := videoRequest{
			DetailType:      EventVideoRequested,
			JobID:           jobID,
			Prompt:          in.Prompt,
			DurationSeconds: in.DurationSeconds,
			Bucket:          bucket,
			OutputKey:       path.Join(videoPrefix, jobID+".mp4"),
			RequestedAt:     deps.now().Format("2006-01-02T15:04:05Z"),
		}
		body, err := json.Marshal(req)
		if err != nil {
			return softError(ToolGenerateVideo, err)
		}

		msgID, err := deps.Events.Publish(ctx, deps.EventBus, body)
		if err != nil {
			return softError(ToolGenerateVideo, err)
		}
		return encodeResult(ToolGenerateVideo, videoResult{
			JobID:     jobID,
			Status:    "submitted",
			OutputURI: objectURI(bucket, req.OutputKey),
			MessageID: msgID,
		})
	})
}
