package handler

import (
	"encoding/json"
	"fmt"
)

const (
	TypeChat               = "chat"
	TypeGuestInquiry       = "guest_inquiry"
	TypeOptimization       = "optimization"
	TypeNegotiation        = "negotiation"
	TypeVendorCoordination = "vendor_coordination"
)

// EnhancePrompt prefixes the prompt according to the request type and
// appends the relevant part of the request context. Unknown types and
// empty prompts are returned unchanged.
func EnhancePrompt(requestType, prompt string, reqCtx map[string]any) string {
	if prompt == "" {
		return prompt
	}

	switch requestType {
	case TypeGuestInquiry:
		return fmt.Sprintf("GUEST INQUIRY: %s. Context: %s", prompt, compactJSON(reqCtx, "{}"))
	case TypeOptimization:
		var goals any
		if reqCtx != nil {
			goals = reqCtx["goals"]
		}
		return fmt.Sprintf("WEDDING OPTIMIZATION: %s. Goals: %s", prompt, compactJSON(goals, "[]"))
	case TypeNegotiation:
		return fmt.Sprintf("VENDOR NEGOTIATION: %s. Terms: %s", prompt, compactJSON(reqCtx, "{}"))
	case TypeVendorCoordination:
		return fmt.Sprintf("VENDOR COORDINATION: %s. Details: %s", prompt, compactJSON(reqCtx, "{}"))
	default:
		return prompt
	}
}

func compactJSON(v any, empty string) string {
	if v == nil {
		return empty
	}
	if m, ok := v.(map[string]any); ok && m == nil {
		return empty
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return empty
	}
	return string(raw)
}
