package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/formatter"
	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// PinAdd pins an entry.
func (r *Runner) PinAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	entry, err := store.PinEntry(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("pinned %s at index %d", entry.ID, entry.Index)))
}

// PinRemove unpins an entry.
func (r *Runner) PinRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	if err := store.UnpinEntry(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.Status(true, "unpinned "+id))
}

// PinList lists pinned entries.
func (r *Runner) PinList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	entries, err := store.PinnedEntries(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type pinned struct {
			ID    string `json:"id"`
			Index int    `json:"index"`
		}
		out := make([]pinned, len(entries))
		for i, e := range entries {
			out[i] = pinned{ID: e.ID, Index: e.Index}
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.PinnedToText(entries))
}

// SeparatorAdd adds a separator to a directory.
func (r *Runner) SeparatorAdd(ctx context.Context, cmd *cli.Command) error {
	parent := cmd.StringArg("parent")
	index := cmd.Int("index")

	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	if err := store.AddSeparator(ctx, parent, index); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("separator added to %s at %d", parent, index)))
}

// SeparatorRemove removes the first separator at --index from a directory.
func (r *Runner) SeparatorRemove(ctx context.Context, cmd *cli.Command) error {
	parent := cmd.StringArg("parent")
	if parent == "" {
		return fmt.Errorf("%w: parent id", shared.ErrMissingArgument)
	}
	index := cmd.Int("index")

	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	if err := store.RemoveSeparator(ctx, parent, index); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.Status(true, fmt.Sprintf("separator removed from %s at %d", parent, index)))
}

// SeparatorList lists separators of one directory, or every directory when none is given.
func (r *Runner) SeparatorList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.collections(ctx)
	if err != nil {
		return err
	}

	var all models.Separators
	if parent := cmd.StringArg("parent"); parent != "" {
		list, err := store.Separators(ctx, parent)
		if err != nil {
			return err
		}
		all = models.Separators{parent: list}
	} else if all, err = store.AllSeparators(ctx); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(all, cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.SeparatorsToText(all))
}
