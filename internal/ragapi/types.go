// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ragapi

import (
	"encoding/json"
	"strings"
)

// chatResponse is the success body of POST /chat.
type chatResponse struct {
	Answer *string `json:"answer"`
}

// errorResponse is the failure body shared by both endpoints.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// validationIssue is one entry of a list-shaped detail.
type validationIssue struct {
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable message from an error body.
// It accepts {"detail": "text"} and {"detail": [{"msg": "..."}, ...]}.
// An empty string means no usable detail was found.
func parseDetail(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(resp.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var issues []validationIssue
	if err := json.Unmarshal(resp.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if m := strings.TrimSpace(issue.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
