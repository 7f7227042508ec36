// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ragapi provides the HTTP client for the retrieval backend.
//
// The backend exposes two multipart endpoints:
//
//   - POST {base}/upload  field "file"       indexes a document
//   - POST {base}/chat    fields "question", "mode"  answers a question
//
// Any 2xx status is success. Failures are reported as *RemoteError whose
// Error() text is suitable for showing to the user: the server's "detail"
// field when present, otherwise a generic message.
//
// The client applies no timeout, retry, or cancellation of its own. Callers
// that want a deadline must put one on the context.
//
// Example:
//
//	client := ragapi.NewClient(&ragapi.ClientConfig{BaseURL: "http://localhost:8000"})
//	if err := client.IndexDocument(ctx, doc); err != nil {
//	    return err
//	}
//	ans, err := client.AskQuestion(ctx, "Summarize the doc", model.ModeDocument)
package ragapi
