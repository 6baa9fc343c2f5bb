package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/shared"
)

// PageType classifies a URL.
func (r *Runner) PageType(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	label := r.classifier.Classify(url)
	mask := r.classifier.HasMask(url)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"url": url, "type": label, "mask": mask}, cmd.Bool("pretty"))
	}
	return r.writePlain("%s (mask: %t)\n", label, mask)
}
