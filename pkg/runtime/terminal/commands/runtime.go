package commands

import (
	"context"
	"io"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/config"
	"github.com/de-tools/mortality-atlas/pkg/services/extract"
	"github.com/de-tools/mortality-atlas/pkg/services/fallback"
	"github.com/de-tools/mortality-atlas/pkg/services/locator"
	"github.com/de-tools/mortality-atlas/pkg/services/pipeline"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
	"github.com/de-tools/mortality-atlas/pkg/services/synth"
	"github.com/de-tools/mortality-atlas/pkg/store/client"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/rs/zerolog"
)

// Runtime is populated by the root command before a subcommand runs.
type Runtime struct {
	Config  *config.Config
	Fetcher client.Fetcher
	S3      snapshot.PutObjectAPI
	Clock   report.Clock
	Output  io.Writer
}

// Reporter renders a terminal report.
type Reporter interface {
	Handle(report *domain.Report) error
}

func (rt *Runtime) fetcher() client.Fetcher {
	if rt.Fetcher != nil {
		return rt.Fetcher
	}
	return client.NewClient(rt.Config.ClientSettings())
}

// BuildRunner wires the pipeline stages from configuration. An unusable ratio
// override is logged and replaced by the built-in tables so a run still
// produces a report.
func BuildRunner(ctx context.Context, cfg *config.Config, fetcher client.Fetcher, clock report.Clock) *pipeline.Runner {
	ratios, err := cfg.LoadRatios()
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("cause", "ratios: invalid override").
			Str("file", cfg.Ratios.File).
			Msg("using built-in ratio tables")
		ratios = domain.DefaultRatios()
	}

	assembler := report.NewAssembler(synth.New(ratios), clock)
	return pipeline.NewRunner(cfg.Source.PageURL, pipeline.Dependencies{
		Fetcher:   fetcher,
		Locator:   locator.NewLocator(cfg.LocatorOptions()),
		Extractor: extract.NewExtractor(cfg.ExtractOptions()),
		Assembler: assembler,
		Fallback:  fallback.NewGenerator(cfg.BaselineRecords(), assembler),
	})
}
