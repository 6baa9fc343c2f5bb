// package formatter renders lifecycle outcomes, history and collections as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// Export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

var historyHeaders = []string{
	"Sequence", "ID", "Kind", "Previous", "Current", "Transition",
	"Applied Rules", "Failed Rules", "Failed Sections", "Error", "Created At",
}

// OutcomeToText renders a lifecycle outcome as a short plain text report.
func OutcomeToText(out *upgrade.Outcome) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Event: %s\n", out.Kind))
	if out.PreviousVersion != "" {
		buf.WriteString(fmt.Sprintf("Version: %s -> %s\n", out.PreviousVersion, out.CurrentVersion))
	} else {
		buf.WriteString(fmt.Sprintf("Version: %s\n", out.CurrentVersion))
	}
	buf.WriteString(fmt.Sprintf("Transition: %s\n", out.Transition))

	if out.Rules != nil {
		buf.WriteString(fmt.Sprintf("\nRules (%s):\n", out.Rules.Set))
		for _, name := range out.Rules.Applied {
			buf.WriteString(fmt.Sprintf("  ok     %s\n", name))
		}
		for _, f := range out.Rules.Failed {
			buf.WriteString(fmt.Sprintf("  failed %s: %v\n", f.Rule, f.Err))
		}
	}

	if out.Writes != nil {
		buf.WriteString("\nSections:\n")
		for _, name := range out.Writes.Succeeded {
			buf.WriteString(fmt.Sprintf("  ok     %s\n", name))
		}
		for _, f := range out.Writes.Failed {
			buf.WriteString(fmt.Sprintf("  failed %s: %v\n", f.Section, f.Err))
		}
	}

	buf.WriteString(fmt.Sprintf("\nReinitialized: %t\n", out.Reinitialized))
	if out.Err != nil {
		buf.WriteString(fmt.Sprintf("Errors: %v\n", out.Err))
	}
	return buf.Bytes()
}

// HistoryToCSV converts lifecycle events to CSV, one row per event.
// List columns are joined with ";".
func HistoryToCSV(events []*models.LifecycleEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(historyHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range events {
		record := []string{
			strconv.Itoa(e.Sequence),
			e.ID,
			e.Kind,
			e.PreviousVersion,
			e.CurrentVersion,
			e.Transition,
			strings.Join(e.AppliedRules, ";"),
			strings.Join(e.FailedRules, ";"),
			strings.Join(e.FailedSections, ";"),
			e.ErrorMessage,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown renders lifecycle events as a Markdown table.
func HistoryToMarkdown(events []*models.LifecycleEvent) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Lifecycle history\n\n")
	buf.WriteString(fmt.Sprintf("**Events**: %d\n\n", len(events)))
	if len(events) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Kind | Version | Transition | Failed | Created |\n")
	buf.WriteString("|---|------|---------|------------|--------|---------|\n")
	for _, e := range events {
		version := e.CurrentVersion
		if e.PreviousVersion != "" {
			version = e.PreviousVersion + " → " + e.CurrentVersion
		}
		failed := strings.Join(append(append([]string{}, e.FailedRules...), e.FailedSections...), ", ")
		if failed == "" {
			failed = "-"
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			e.Sequence, e.Kind, version, e.Transition, failed, e.CreatedAt.UTC().Format(time.RFC3339)))
	}
	return buf.Bytes()
}

// HistoryToText renders lifecycle events as plain text, one line per event.
func HistoryToText(events []*models.LifecycleEvent) []byte {
	var buf bytes.Buffer
	for _, e := range events {
		status := "ok"
		if e.Failed() {
			status = "failed"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s %s (%s) %s\n",
			e.Sequence, e.CreatedAt.UTC().Format(time.RFC3339), e.Kind, e.CurrentVersion, e.Transition, status))
	}
	return buf.Bytes()
}

// FormatHistory renders events in the given format.
func FormatHistory(events []*models.LifecycleEvent, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return HistoryToCSV(events)
	case FormatMarkdown:
		return HistoryToMarkdown(events), nil
	case FormatText, "":
		return HistoryToText(events), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// WriteHistoryExport renders events and writes them to path.
//
// Defaults to history.{csv,md,txt} depending on the format.
func WriteHistoryExport(events []*models.LifecycleEvent, format, path string) (string, error) {
	data, err := FormatHistory(events, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		switch format {
		case FormatCSV:
			path = "history.csv"
		case FormatMarkdown:
			path = "history.md"
		default:
			path = "history.txt"
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history file: %w", err)
	}
	return path, nil
}

// PinnedToText lists pinned entries in index order.
func PinnedToText(entries []models.PinnedEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Pinned: %d\n", len(entries)))
	for _, e := range entries {
		buf.WriteString(fmt.Sprintf("%4d  %s\n", e.Index, e.ID))
	}
	return buf.Bytes()
}

// SeparatorsToText lists separator indices per directory, directories sorted by id.
func SeparatorsToText(all models.Separators) []byte {
	var buf bytes.Buffer

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		indices := make([]string, len(all[id]))
		for i, sep := range all[id] {
			indices[i] = strconv.Itoa(sep.Index)
		}
		buf.WriteString(fmt.Sprintf("%s: [%s]\n", id, strings.Join(indices, ", ")))
	}
	return buf.Bytes()
}
