package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

func (r *Runner) loadSettings(ctx context.Context) (*models.SettingsDocument, error) {
	if err := r.open(ctx); err != nil {
		return nil, err
	}

	raw, err := r.sync.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load settings: %w", shared.ErrPersistence, err)
	}

	doc, err := models.DecodeSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrCorruptData, err)
	}
	return doc, nil
}

// SettingsShow prints the normalized settings document.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	doc, err := r.loadSettings(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(doc, cmd.Bool("pretty"))
}

// SettingsGet prints the value at a dotted path such as appearance.styles.iconColor.
func (r *Runner) SettingsGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	doc, err := r.loadSettings(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, path)
	}

	if res.IsObject() || res.IsArray() {
		return r.writePlain("%s\n", res.Raw)
	}
	return r.writePlain("%s\n", res.String())
}

// SettingsSet overwrites the value at a dotted path and writes back the one section it lives in.
//
// The value is parsed as JSON; anything that is not valid JSON is stored as a string.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	value := cmd.StringArg("value")

	section, rest, ok := strings.Cut(path, ".")
	if !ok || rest == "" || !slices.Contains(models.SectionNames, section) {
		return fmt.Errorf("%w: path must start with one of %s", shared.ErrInvalidArgument, strings.Join(models.SectionNames, ", "))
	}

	doc, err := r.loadSettings(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc.Section(section))
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", section, err)
	}

	if gjson.Valid(value) {
		data, err = sjson.SetRawBytes(data, rest, []byte(value))
	} else {
		data, err = sjson.SetBytes(data, rest, value)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}

	if err := r.sync.Set(ctx, section, data); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
	}

	r.logger.Info("setting updated", "path", path)
	return r.writePlain("%s\n", r.palette.Status(true, path+" = "+gjson.GetBytes(data, rest).Raw))
}
