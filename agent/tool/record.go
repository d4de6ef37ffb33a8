package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
)

const (
	OperationGet   = "get"
	OperationPut   = "put"
	OperationQuery = "query"
)

type recordArgs struct {
	Operation string        `json:"operation"`
	ID        string        `json:"id,omitempty"`
	Record    record.Record `json:"record,omitempty"`
	Filter    record.Filter `json:"filter,omitempty"`
}

type getResult struct {
	Found  bool          `json:"found"`
	Record record.Record `json:"record,omitempty"`
}

type putResult struct {
	ID string `json:"id"`
}

type queryResult struct {
	Count   int             `json:"count"`
	Records []record.Record `json:"records"`
}

// NewRecordTool exposes one collection as a get/put/query tool named after it.
// Malformed calls come back as tool results; backend failures are returned
// as *contract.CapabilityError.
func NewRecordTool(store record.Store, c record.Collection) (einotool.InvokableTool, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: record store is required", contractx.ErrValidation)
	}
	acc, err := store.Accessor(c)
	if err != nil {
		return nil, err
	}

	name := string(c)
	info := &schema.ToolInfo{
		Name: name,
		Desc: fmt.Sprintf("Read and write %s records: %s. Records are JSON objects keyed by id and usually carry wedding_id.", c.Label(), c.Description()),
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"operation": {
				Type:     schema.String,
				Desc:     "get, put or query",
				Enum:     []string{OperationGet, OperationPut, OperationQuery},
				Required: true,
			},
			"id": {Type: schema.String, Desc: "Record id for get"},
			"record": {
				Type: schema.Object,
				Desc: "Full record for put. A missing id is generated.",
			},
			"filter": {
				Type: schema.Object,
				Desc: "Field equality filter for query, e.g. wedding_id",
			},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		var in recordArgs
		if err := decodeArgs(name, args, &in); err != nil {
			return softError(name, err)
		}

		switch strings.ToLower(strings.TrimSpace(in.Operation)) {
		case OperationGet:
			rec, err := acc.Get(ctx, in.ID)
			switch {
			case errors.Is(err, record.ErrNotFound):
				return encodeResult(name, getResult{Found: false})
			case errors.Is(err, record.ErrEmptyID):
				return softError(name, err)
			case err != nil:
				return "", &contractx.CapabilityError{Tool: name, Err: err}
			}
			return encodeResult(name, getResult{Found: true, Record: rec})

		case OperationPut:
			id, err := acc.Put(ctx, in.Record)
			if errors.Is(err, record.ErrInvalidRecord) {
				return softError(name, err)
			}
			if err != nil {
				return "", &contractx.CapabilityError{Tool: name, Err: err}
			}
			return encodeResult(name, putResult{ID: id})

		case OperationQuery:
			recs, err := acc.Query(ctx, in.Filter)
			if errors.Is(err, record.ErrInvalidRecord) {
				return softError(name, err)
			}
			if err != nil {
				return "", &contractx.CapabilityError{Tool: name, Err: err}
			}
			return encodeResult(name, queryResult{Count: len(recs), Records: recs})

		default:
			return softError(name, fmt.Errorf("%w: unsupported operation %q", contractx.ErrValidation, in.Operation))
		}
	}), nil
}
