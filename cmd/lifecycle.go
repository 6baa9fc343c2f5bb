package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/formatter"
	"github.com/desertthunder/bsx/internal/shared"
	"github.com/desertthunder/bsx/internal/ui"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// LifecycleInstall handles an install event.
func (r *Runner) LifecycleInstall(ctx context.Context, cmd *cli.Command) error {
	h, err := r.helper(ctx)
	if err != nil {
		return err
	}

	out, err := h.OnInstalled(ctx)
	return r.reportOutcome(cmd, out, err)
}

// LifecycleUpdate handles an update from the version given by --from.
func (r *Runner) LifecycleUpdate(ctx context.Context, cmd *cli.Command) error {
	from := cmd.String("from")
	if from == "" {
		return fmt.Errorf("%w: --from", shared.ErrMissingArgument)
	}

	h, err := r.helper(ctx)
	if err != nil {
		return err
	}

	out, err := h.OnUpdated(ctx, from)
	return r.reportOutcome(cmd, out, err)
}

// LifecycleUpdateAvailable reloads the extension for a pending update.
func (r *Runner) LifecycleUpdateAvailable(ctx context.Context, cmd *cli.Command) error {
	h, err := r.helper(ctx)
	if err != nil {
		return err
	}

	if err := h.OnUpdateAvailable(ctx); err != nil {
		if errors.Is(err, shared.ErrThrottled) {
			r.writePlain("%s\n", r.palette.Warn("reload throttled, try again later"))
		}
		return err
	}
	return r.writePlain("%s\n", r.palette.Status(true, "extension reloaded"))
}

// LifecycleHistory lists recorded lifecycle events.
func (r *Runner) LifecycleHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	events, err := r.events.List(ctx, cmd.String("kind"), cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list lifecycle events: %w", err)
	}

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteHistoryExport(events, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("history exported", "path", written, "events", len(events))
		return r.writePlain("%s\n", r.palette.Status(true, "history written to "+written))
	}

	data, err := formatter.FormatHistory(events, format)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}
	if len(events) == 0 && (format == formatter.FormatText || format == "") {
		return r.writePlain("%s\n", r.palette.Help("no lifecycle events recorded"))
	}
	return r.writeBytes(data)
}

// reportOutcome prints the outcome and passes err through so failures set the exit status.
func (r *Runner) reportOutcome(cmd *cli.Command, out *upgrade.Outcome, err error) error {
	if out == nil {
		return err
	}

	if cmd.Bool("json") {
		if werr := r.writeJSON(out.Event(), cmd.Bool("pretty")); werr != nil {
			return errors.Join(err, werr)
		}
		return err
	}

	r.writePlain("%s\n", r.palette.Title(fmt.Sprintf("%s %s", out.Kind, out.CurrentVersion)))
	r.writePlain("%s\n", ui.Transition(r.palette, out.Transition.String()))
	if werr := r.writeBytes(formatter.OutcomeToText(out)); werr != nil {
		return errors.Join(err, werr)
	}
	if out.Err != nil {
		r.writePlain("%s\n", ui.Failure(r.palette, "FAILED"))
		return err
	}
	r.writePlain("%s\n", r.palette.Status(true, "done"))
	return err
}
