package upgrade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// SectionError reports a failed section write.
type SectionError struct {
	Section string
	Err     error
}

func (e SectionError) Error() string {
	return fmt.Sprintf("%v: %s: %v", shared.ErrPersistence, e.Section, e.Err)
}

func (e SectionError) Unwrap() []error {
	return []error{shared.ErrPersistence, e.Err}
}

// WriteResult is the aggregate outcome of a fan-out write.
type WriteResult struct {
	Succeeded []string
	Failed    []SectionError
}

// OK reports whether every section was written.
func (r *WriteResult) OK() bool {
	return r != nil && len(r.Failed) == 0
}

// FailedSections returns the names of the sections that could not be written.
func (r *WriteResult) FailedSections() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		names[i] = f.Section
	}
	return names
}

// Err joins the section failures, or returns nil.
func (r *WriteResult) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Coordinator writes named sections concurrently and joins on their completion.
type Coordinator struct {
	store  models.Store
	logger *log.Logger
}

// NewCoordinator creates a Coordinator over store. A nil logger discards output.
func NewCoordinator(store models.Store, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Coordinator{store: store, logger: logger}
}

// Persist writes the behaviour, appearance and newtab sections of doc.
func (c *Coordinator) Persist(ctx context.Context, doc *models.SettingsDocument) (*WriteResult, error) {
	sections := make(map[string]any, len(models.SectionNames))
	for name, section := range doc.Sections() {
		sections[name] = section
	}
	return c.PersistSections(ctx, sections)
}

type sectionWrite struct {
	name string
	err  error
}

// PersistSections issues one write per section and returns once all of them have completed.
//
// Nothing is dispatched when ctx is already done. Once dispatched, the writes run
// detached from ctx cancellation so a cancelled caller never leaves a partially
// written document. The returned error is only set in the first case; individual
// write failures are reported through [WriteResult].
func (c *Coordinator) PersistSections(ctx context.Context, sections map[string]any) (*WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("persist cancelled before dispatch: %w", err)
	}

	writeCtx := context.WithoutCancel(ctx)
	join := NewJoin(len(sections))
	results := make(chan sectionWrite, len(sections))

	for name, value := range sections {
		go func(name string, value any) {
			defer join.Signal()
			results <- sectionWrite{name: name, err: c.write(writeCtx, name, value)}
		}(name, value)
	}

	<-join.Done()
	close(results)

	result := &WriteResult{}
	for w := range results {
		if w.err != nil {
			c.logger.Error("section write failed", "section", w.name, "error", w.err)
			result.Failed = append(result.Failed, SectionError{Section: w.name, Err: w.err})
			continue
		}
		c.logger.Debug("section persisted", "section", w.name)
		result.Succeeded = append(result.Succeeded, w.name)
	}

	sort.Strings(result.Succeeded)
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].Section < result.Failed[j].Section })
	return result, nil
}

func (c *Coordinator) write(ctx context.Context, name string, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode section: %w", err)
	}
	return c.store.Set(ctx, name, raw)
}
