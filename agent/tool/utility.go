package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

var errNotConfigured = errors.New("capability is not configured")

// ObjectStore is the media bucket as seen by the utilities.
type ObjectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type ImageDescriber interface {
	DescribeImage(ctx context.Context, question string, image []byte, mimeType string) (string, error)
}

// UtilityDeps wires the non-record capabilities. A nil dependency leaves its
// tool bound but answering with a "not configured" result.
type UtilityDeps struct {
	Objects  ObjectStore
	Images   ImageGenerator
	Vision   ImageDescriber
	Events   contractx.EventPublisher
	EventBus string
	Now      func() time.Time
}

func (d UtilityDeps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// Utilities returns the orchestrator's non-record tools.
func Utilities(deps UtilityDeps) []einotool.InvokableTool {
	return []einotool.InvokableTool{
		newGenerateImageTool(deps),
		newImageReaderTool(deps),
		newGenerateVideoTool(deps),
		newUseCloudTool(deps),
		newHandoffTool(),
		newJournalTool(deps),
	}
}

func notConfigured(tool, what string) (string, error) {
	return softError(tool, fmt.Errorf("%w: %s", errNotConfigured, what))
}

func objectURI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}
