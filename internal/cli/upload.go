// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/ragplay-tui/internal/document"
	"github.com/jeranaias/ragplay-tui/internal/session"
)

// RunUpload handles "ragplay upload <file>".
func RunUpload(ctx context.Context, args Args, env *Env) error {
	env.fill()

	if args.File == "" {
		return &UsageError{Message: "upload requires a file path"}
	}

	return OutputJSON(env.Stdout, args.JSON, CmdUpload.String(), func() (interface{}, error) {
		doc, err := document.Load(args.File)
		if err != nil {
			return nil, err
		}

		if err := env.Controller.Upload(ctx, doc); err != nil {
			logRemote(env.Logger, "upload failed", err)
			return nil, err
		}

		if !args.JSON {
			fmt.Fprintln(env.Stdout, SuccessStyle.Render(session.NoticeIndexed)+" "+
				DimStyle.Render(fmt.Sprintf("(%s, %d bytes)", doc.Name, doc.Size())))
		}
		return UploadData{
			File:        doc.Name,
			Bytes:       doc.Size(),
			ContentType: doc.ContentType,
			Message:     session.NoticeIndexed,
		}, nil
	})
}
