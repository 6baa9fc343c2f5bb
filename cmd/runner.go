package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/desertthunder/bsx/internal/collections"
	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/pagetype"
	"github.com/desertthunder/bsx/internal/repositories"
	"github.com/desertthunder/bsx/internal/shared"
	"github.com/desertthunder/bsx/internal/ui"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
	classifier *pagetype.Classifier

	db      *sql.DB
	ownsDB  bool
	sync    models.Store
	local   models.Store
	events  *repositories.EventRepository
	host    upgrade.Host
	tracker upgrade.Tracker
	links   upgrade.LinkOpener
	limiter *rate.Limiter
	now     func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Stores left nil are opened from the configured database on first use.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	DB      *sql.DB
	Sync    models.Store
	Host    upgrade.Host
	Tracker upgrade.Tracker
	Links   upgrade.LinkOpener
	Now     func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	host := newCLIHost(opts.Config.Extension, shared.WithLogger(opts.Logger, "component", "host"))
	if opts.Host == nil {
		opts.Host = host
	}
	if opts.Tracker == nil {
		opts.Tracker = host
	}
	if opts.Links == nil {
		opts.Links = host
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    ui.Default(),
		classifier: pagetype.New(),
		db:         opts.DB,
		sync:       opts.Sync,
		host:       opts.Host,
		tracker:    opts.Tracker,
		links:      opts.Links,
		limiter:    reloadLimiter(opts.Config.Extension.ReloadPerMinute),
		now:        opts.Now,
	}
}

// reloadLimiter allows perMinute reloads per minute; zero or less means one per minute.
func reloadLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), 1)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, lifecycleCommand, pinCommand, separatorCommand, settingsCommand, pageTypeCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// open connects the database, applies migrations and builds the stores once.
func (r *Runner) open(ctx context.Context) error {
	if r.local != nil && r.sync != nil && r.events != nil {
		return nil
	}

	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db, r.ownsDB = db, true
	}

	if err := shared.RunMigrations(ctx, r.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.local = repositories.NewKVRepository(r.db, repositories.AreaLocal)
	r.events = repositories.NewEventRepository(r.db)

	if r.sync == nil {
		sync, err := r.openSync(ctx)
		if err != nil {
			return err
		}
		r.sync = sync
	}
	return nil
}

func (r *Runner) openSync(ctx context.Context) (models.Store, error) {
	switch r.config.Sync.Backend {
	case "", shared.BackendSQLite:
		return repositories.NewKVRepository(r.db, repositories.AreaSync), nil
	case shared.BackendDynamoDB:
		r.logger.Debug("using dynamodb sync store", "table", r.config.Sync.Table, "region", r.config.Sync.Region)
		return repositories.NewDynamoStoreFromConfig(ctx, r.config.Sync)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, r.config.Sync.Backend)
	}
}

func (r *Runner) helper(ctx context.Context) (*upgrade.Helper, error) {
	if err := r.open(ctx); err != nil {
		return nil, err
	}

	return upgrade.NewHelper(upgrade.Options{
		Sync:           r.sync,
		Local:          r.local,
		Host:           r.host,
		Tracker:        r.tracker,
		Links:          r.links,
		History:        r.events,
		Version:        r.config.Extension.Version,
		OnboardingPath: r.config.Extension.OnboardingPath,
		ReloadLimiter:  r.limiter,
		Now:            r.now,
		Logger:         shared.WithLogger(r.logger, "component", "upgrade"),
	})
}

func (r *Runner) collections(ctx context.Context) (*collections.Store, error) {
	if err := r.open(ctx); err != nil {
		return nil, err
	}
	return collections.New(r.local, shared.WithLogger(r.logger, "component", "collections")), nil
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
