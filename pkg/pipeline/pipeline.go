// Package pipeline sequences the transit emissions pipeline: fetch,
// normalize, join, derive, classify and select
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/internal/common"
	"github.com/ntdcarbon/ntdcarbon/pkg/awards"
	"github.com/ntdcarbon/ntdcarbon/pkg/emissions"
	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/normalize"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

// Config contains the settings of one pipeline instance.
type Config struct {
	Logger  log.Logger
	Sources sources.Config
}

// Outcome is the result of one successful pipeline run.
type Outcome struct {
	Rows    []models.EmissionsRow
	Summary *awards.Summary
	Run     models.Run
}

// Pipeline runs the whole batch: a linear sequence of pure transformations,
// each stage consuming the typed output of the previous one. A fatal error
// in any stage aborts the run; there is no partial-success mode.
type Pipeline struct {
	logger      log.Logger
	sources     map[string]sources.Source
	diagnostics *Diagnostics
}

// New creates a pipeline with every registered source instantiated.
func New(config Config) (*Pipeline, error) {
	logger := config.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	if len(config.Sources.States) == 0 {
		config.Sources.States = normalize.StateNames()
	}

	srcs, err := sources.NewSources(config.Sources, log.With(logger, "component", "sources"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sources: %w", err)
	}

	return &Pipeline{
		logger:      logger,
		sources:     srcs,
		diagnostics: NewDiagnostics(),
	}, nil
}

// Diagnostics returns the per-run diagnostics of the pipeline.
func (p *Pipeline) Diagnostics() *Diagnostics {
	return p.diagnostics
}

// Run executes the pipeline once and returns the finished emissions table
// with its award summary and run record.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	defer common.TimeTrack(time.Now(), "pipeline run", p.logger)

	startedAt := time.Now().UTC()

	// Stage 1: fetch raw tables
	rawProfile, err := p.fetch(ctx, "profile")
	if err != nil {
		return nil, err
	}

	rawEnergy, err := p.fetch(ctx, "energy")
	if err != nil {
		return nil, err
	}

	rawService, err := p.fetch(ctx, "service")
	if err != nil {
		return nil, err
	}

	// Stage 2: normalize into typed records
	profiles, err := normalize.Profiles(rawProfile, log.With(p.logger, "component", "normalize"))
	if err != nil {
		return nil, err
	}

	energyResult, err := normalize.Energy(rawEnergy, log.With(p.logger, "component", "normalize"))
	if err != nil {
		return nil, err
	}

	p.diagnostics.AddZeroFilled(energyResult.ZeroFilled)
	p.diagnostics.AddZeroEnergy(energyResult.ZeroEnergy)
	p.diagnostics.AddUnknownModes(energyResult.UnknownModes)

	serviceResult, err := normalize.Service(rawService, log.With(p.logger, "component", "normalize"))
	if err != nil {
		return nil, err
	}

	p.diagnostics.AddZeroMiles(serviceResult.ZeroMiles)

	// Stage 3: join on agency, then state
	joined := Join(serviceResult.Records, energyResult.Records, profiles, log.With(p.logger, "component", "join"))
	p.diagnostics.AddUnjoined(joined.Unjoined)

	// Stage 4: derive emissions metrics
	calculated := emissions.Calculate(joined.Inputs, log.With(p.logger, "component", "emissions"))
	p.diagnostics.AddUndefined(calculated.Undefined)

	// Stage 5: classify and select awards
	awards.Classify(calculated.Rows)
	summary := awards.Select(calculated.Rows, log.With(p.logger, "component", "awards"))

	p.diagnostics.SetOutputRows(len(calculated.Rows))

	endedAt := time.Now().UTC()

	run, err := p.makeRun(startedAt, endedAt)
	if err != nil {
		return nil, err
	}

	level.Info(p.logger).Log("msg", "Pipeline run finished", "run", run.UUID,
		"rows", run.NumRows, "zero_filled", run.NumZeroFilled, "zero_energy", run.NumZeroEnergy,
		"zero_miles", run.NumZeroMiles, "unknown_modes", run.NumUnknownModes,
		"unjoined", run.NumUnjoined, "undefined", run.NumUndefined)

	return &Outcome{Rows: calculated.Rows, Summary: summary, Run: run}, nil
}

func (p *Pipeline) fetch(ctx context.Context, name string) (*sources.Table, error) {
	source, ok := p.sources[name]
	if !ok {
		return nil, fmt.Errorf("source %s is not registered", name)
	}

	table, err := source.Fetch(ctx)
	if err != nil {
		level.Error(p.logger).Log("msg", "Failed to fetch source", "source", name, "err", err)

		return nil, err
	}

	return table, nil
}

func (p *Pipeline) makeRun(startedAt time.Time, endedAt time.Time) (models.Run, error) {
	counts := p.diagnostics.Counts()

	uuid, err := common.GetUUIDFromString([]string{
		startedAt.Format(time.RFC3339Nano), endedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return models.Run{}, fmt.Errorf("failed to generate run ID: %w", err)
	}

	return models.Run{
		UUID:            uuid,
		StartedAt:       startedAt.Format(time.RFC3339),
		EndedAt:         endedAt.Format(time.RFC3339),
		NumRows:         counts.OutputRows,
		NumZeroFilled:   counts.ZeroFilled,
		NumZeroEnergy:   counts.ZeroEnergy,
		NumZeroMiles:    counts.ZeroMiles,
		NumUnknownModes: counts.UnknownModes,
		NumUndefined:    counts.Undefined,
		NumUnjoined:     counts.Unjoined,
	}, nil
}
