package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/fallback"
	"github.com/de-tools/mortality-atlas/pkg/services/locator"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
	"github.com/de-tools/mortality-atlas/pkg/store/client"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Path string

const (
	PathLive     Path = "live"
	PathFallback Path = "fallback"
)

// Outcome records which path a run took and why.
type Outcome struct {
	RunID   string
	Path    Path
	Source  string
	Cause   string
	Err     error
	Records int
}

// Extractor parses a downloaded workbook.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]domain.WeeklyRecord, error)
}

type Dependencies struct {
	Fetcher   client.Fetcher
	Locator   *locator.Locator
	Extractor Extractor
	Assembler *report.Assembler
	Fallback  *fallback.Generator
}

// Runner performs one fetch, parse and assemble attempt.
type Runner struct {
	pageURL string
	deps    Dependencies
}

func NewRunner(pageURL string, deps Dependencies) *Runner {
	return &Runner{pageURL: pageURL, deps: deps}
}

// RunOnce always returns a complete report. Fetch, locator and extraction
// failures select the fallback path.
func (r *Runner) RunOnce(ctx context.Context) (domain.AggregateReport, Outcome) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Str("page", r.pageURL).Logger()
	ctx = logger.WithContext(ctx)

	records, source, err := r.live(ctx)
	if err != nil {
		outcome := Outcome{
			RunID:  runID,
			Path:   PathFallback,
			Source: domain.SourceFallback,
			Cause:  domain.Cause(err),
			Err:    err,
		}

		event := logger.Warn().Err(err)
		if errors.Is(err, domain.ErrLocatorMiss) {
			event = logger.Info()
		}
		event.Str("path", string(PathFallback)).
			Str("cause", outcome.Cause).
			Msg("live data unavailable, using baseline projection")

		rep := r.deps.Fallback.Generate()
		outcome.Records = len(rep.National.Weeks)
		return rep, outcome
	}

	logger.Info().
		Str("path", string(PathLive)).
		Str("source", source).
		Int("records", len(records)).
		Msg("live data extracted")

	return r.deps.Assembler.Assemble(records, source), Outcome{
		RunID:   runID,
		Path:    PathLive,
		Source:  source,
		Records: len(records),
	}
}

func (r *Runner) live(ctx context.Context) ([]domain.WeeklyRecord, string, error) {
	page, err := r.deps.Fetcher.Fetch(ctx, r.pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("report page: %w", err)
	}

	href, ok := r.deps.Locator.Locate(string(page))
	if !ok {
		return nil, "", domain.ErrLocatorMiss
	}

	fileURL, err := locator.Resolve(r.pageURL, href)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrLocatorMiss, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", fileURL).Msg("data file located")

	data, err := r.deps.Fetcher.Fetch(ctx, fileURL)
	if err != nil {
		return nil, "", fmt.Errorf("data file: %w", err)
	}

	records, err := r.deps.Extractor.Extract(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return records, fileURL, nil
}
