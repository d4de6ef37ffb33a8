package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	objectstorex "github.com/tanpawarit/enchanted-day-orchestrator/pkg/objectstore"
)

const (
	journalPrefix = "journal/"
	dateLayout    = "2006-01-02"
)

type journalArgs struct {
	Action  string `json:"action"`
	Content string `json:"content,omitempty"`
	Date    string `json:"date,omitempty"`
}

func journalKey(date string) string {
	return journalPrefix + date + ".md"
}

func newJournalTool(deps UtilityDeps) einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolJournal,
		Desc: "Keep a daily planning journal: write an entry, read a day, or list days.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"action": {
				Type:     schema.String,
				Desc:     "write, read or list",
				Enum:     []string{"write", "read", "list"},
				Required: true,
			},
			"content": {Type: schema.String, Desc: "Entry text for write"},
			"date":    {Type: schema.String, Desc: "Day as YYYY-MM-DD for read, default today"},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		if deps.Objects == nil {
			return notConfigured(ToolJournal, "journal storage")
		}
		var in journalArgs
		if err := decodeArgs(ToolJournal, args, &in); err != nil {
			return softError(ToolJournal, err)
		}
		now := deps.now()

		switch strings.ToLower(strings.TrimSpace(in.Action)) {
		case "write":
			content := strings.TrimSpace(in.Content)
			if content == "" {
				return softError(ToolJournal, fmt.Errorf("%w: content is required", contractx.ErrValidation))
			}
			date := now.Format(dateLayout)
			key := journalKey(date)

			existing, err := readJournal(ctx, deps.Objects, key)
			if err != nil {
				return softError(ToolJournal, err)
			}
			if existing == "" {
				existing = "# Journal " + date + "\n"
			}
			entry := fmt.Sprintf("%s\n## %s\n%s\n", existing, now.Format("15:04:05"), content)
			if err := deps.Objects.Put(ctx, key, []byte(entry), "text/markdown; charset=utf-8"); err != nil {
				return softError(ToolJournal, err)
			}
			return encodeResult(ToolJournal, map[string]any{"date": date, "key": key})

		case "read":
			date := strings.TrimSpace(in.Date)
			if date == "" {
				date = now.Format(dateLayout)
			}
			if _, err := time.Parse(dateLayout, date); err != nil {
				return softError(ToolJournal, fmt.Errorf("%w: date must be YYYY-MM-DD", contractx.ErrValidation))
			}
			content, err := readJournal(ctx, deps.Objects, journalKey(date))
			if err != nil {
				return softError(ToolJournal, err)
			}
			return encodeResult(ToolJournal, map[string]any{"date": date, "found": content != "", "content": content})

		case "list":
			keys, err := deps.Objects.List(ctx, journalPrefix)
			if err != nil {
				return softError(ToolJournal, err)
			}
			dates := make([]string, 0, len(keys))
			for _, k := range keys {
				d := strings.TrimSuffix(strings.TrimPrefix(k, journalPrefix), ".md")
				if _, err := time.Parse(dateLayout, d); err == nil {
					dates = append(dates, d)
				}
			}
			sort.Strings(dates)
			return encodeResult(ToolJournal, map[string]any{"dates": dates})

		default:
			return softError(ToolJournal, fmt.Errorf("%w: unsupported action %q", contractx.ErrValidation, in.Action))
		}
	})
}

func readJournal(ctx context.Context, objects ObjectStore, key string) (string, error) {
	body, _, err := objects.Get(ctx, key)
	if errors.Is(err, objectstorex.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(body), nil
}
