package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
	"github.com/AntonStoeckl/dynamic-query-go/internal/instrument"
	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const (
	logMsgScenarioGenerated = "scenario generated"
	logMsgScenarioFailed    = "scenario failed"
	logMsgScenarioSkipped   = "scenario skipped"
	logMsgScenarioLoaded    = "scenario loaded"
	logMsgScenarioStep      = "scenario step"
	logAttrScenario         = "scenario"
	logAttrPreload          = "preload"
	logAttrStep             = "step"
	logAttrPath             = "path"
	logAttrRowCount         = "row_count"
	stepClear               = "clear"
	stepPreload             = "preload"
	stepSeed                = "seed"
	stepCapture             = "capture"
	stepSave                = "save"
)

// Engine is the storage side a Runner drives. *sqlengine.Engine implements it.
type Engine interface {
	GetDataSetFromDb(ctx context.Context, schema fixture.Schema) (*fixture.Snapshot, error)
	ClearDatabase(ctx context.Context, schema fixture.Schema) error
	SeedDatabase(ctx context.Context, snapshot *fixture.Snapshot) error
}

// Result describes the outcome of one scenario in RunAll.
type Result struct {
	Name     string
	Path     string
	Rows     int
	Duration time.Duration
	Skipped  bool
	Err      error
}

type Option func(*Runner) error

func WithLogger(logger observability.Logger) Option {
	return func(r *Runner) error {
		r.inst.Logger = logger
		return nil
	}
}

func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(r *Runner) error {
		r.inst.ContextualLogger = logger
		return nil
	}
}

// Runner generates and loads scenario snapshot files.
type Runner struct {
	engine   Engine
	schema   fixture.Schema
	store    FileStore
	registry *Registry
	inst     instrument.Instrumentation
}

func NewRunner(engine Engine, schema fixture.Schema, store FileStore, registry *Registry, options ...Option) (*Runner, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	if registry == nil {
		return nil, ErrNilRegistry
	}

	if store.Dir == "" {
		return nil, ErrEmptySnapshotDir
	}

	r := &Runner{
		engine:   engine,
		schema:   schema,
		store:    store,
		registry: registry,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run generates the snapshot file of one scenario:
// clear, restore the preload (if any), seed, capture, save.
// The file is only written if every step succeeded.
func (r *Runner) Run(ctx context.Context, name string) error {
	_, err := r.run(ctx, name)

	return err
}

func (r *Runner) run(ctx context.Context, name string) (*fixture.Snapshot, error) {
	s, ok := r.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}

	preload := s.Preload()
	if preload != "" && !r.store.Exists(preload) {
		return nil, errors.Join(
			ErrScenarioFailed,
			fmt.Errorf("%w: %q needs %s", ErrPreloadMissing, name, r.store.Path(preload)),
		)
	}

	fail := func(step string, err error) error {
		return errors.Join(ErrScenarioFailed, fmt.Errorf("scenario %q, step %s: %w", name, step, err))
	}

	r.logStep(ctx, name, stepClear)
	if err := r.engine.ClearDatabase(ctx, r.schema); err != nil {
		return nil, fail(stepClear, err)
	}

	if preload != "" {
		r.logStep(ctx, name, stepPreload)

		snapshot, err := r.store.Load(preload)
		if err != nil {
			return nil, fail(stepPreload, err)
		}

		if err = r.engine.SeedDatabase(ctx, snapshot); err != nil {
			return nil, fail(stepPreload, err)
		}
	}

	r.logStep(ctx, name, stepSeed)
	if err := s.Seed(ctx); err != nil {
		return nil, fail(stepSeed, err)
	}

	r.logStep(ctx, name, stepCapture)
	captured, err := r.engine.GetDataSetFromDb(ctx, r.schema)
	if err != nil {
		return nil, fail(stepCapture, err)
	}

	r.logStep(ctx, name, stepSave)
	if err = r.store.Save(name, captured); err != nil {
		return nil, fail(stepSave, err)
	}

	return captured, nil
}

// RunAll generates every registered scenario, preloads first.
// A failing scenario does not stop the others, but its dependents are skipped.
// The returned error joins all failures.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	ordered, err := r.registry.Ordered()
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(ordered))
	failed := make(map[string]bool, len(ordered))
	var errs []error

	for _, s := range ordered {
		name := s.Name()
		result := Result{Name: name, Path: r.store.Path(name)}

		if preload := s.Preload(); preload != "" && failed[preload] {
			result.Skipped = true
			result.Err = fmt.Errorf("%w: %q preloads %q", ErrPreloadFailed, name, preload)
			failed[name] = true
			errs = append(errs, result.Err)
			results = append(results, result)
			r.inst.LogWarn(ctx, logMsgScenarioSkipped, result.Err, logAttrScenario, name, logAttrPreload, preload)

			continue
		}

		start := time.Now()
		captured, runErr := r.run(ctx, name)
		result.Duration = time.Since(start)

		if runErr != nil {
			result.Err = runErr
			failed[name] = true
			errs = append(errs, runErr)
			results = append(results, result)
			r.inst.LogError(ctx, logMsgScenarioFailed, runErr, logAttrScenario, name)

			continue
		}

		result.Rows = captured.TotalRows()
		results = append(results, result)
		r.inst.LogOperation(
			ctx,
			logMsgScenarioGenerated,
			logAttrScenario, name,
			logAttrPath, result.Path,
			logAttrRowCount, result.Rows,
			instrument.LogAttrDurationMS, instrument.ToMilliseconds(result.Duration),
		)
	}

	return results, errors.Join(errs...)
}

// Load clears storage and restores the snapshot file of a scenario.
func (r *Runner) Load(ctx context.Context, name string) error {
	snapshot, err := r.store.Load(name)
	if err != nil {
		return err
	}

	if err = r.engine.ClearDatabase(ctx, r.schema); err != nil {
		return err
	}

	if err = r.engine.SeedDatabase(ctx, snapshot); err != nil {
		return err
	}

	r.inst.LogOperation(ctx, logMsgScenarioLoaded, logAttrScenario, name, logAttrRowCount, snapshot.TotalRows())

	return nil
}

func (r *Runner) logStep(ctx context.Context, name, step string) {
	r.inst.LogDebug(ctx, logMsgScenarioStep, logAttrScenario, name, logAttrStep, step)
}
