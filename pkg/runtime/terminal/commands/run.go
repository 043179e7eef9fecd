package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	rt         *Runtime
	pageURL    string
	outputPath string
	skipS3     bool
}

func NewRunCmd(rt *Runtime) *cobra.Command {
	rc := &RunCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the latest weekly deaths data and write the report snapshot",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.pageURL, "url", "", "Report page to scan (overrides source.page_url)")
	cmd.Flags().StringVarP(&rc.outputPath, "output", "o", "", "Snapshot path (overrides output.path)")
	cmd.Flags().BoolVar(&rc.skipS3, "skip-s3", false, "Do not upload to the configured S3 bucket")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)
	cfg := rc.rt.Config

	if rc.pageURL != "" {
		cfg.Source.PageURL = rc.pageURL
	}
	if rc.outputPath != "" {
		cfg.Output.Path = rc.outputPath
	}

	runner := BuildRunner(ctx, cfg, rc.rt.fetcher(), rc.rt.Clock)
	report, outcome := runner.RunOnce(ctx)

	// Sinks that could not be set up are reported after the others were written.
	publisher, setupErr := rc.publisher(ctx)
	if err := errors.Join(publisher.Publish(ctx, report), setupErr); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	logger.Info().
		Str("run_id", outcome.RunID).
		Str("path", string(outcome.Path)).
		Str("output", cfg.Output.Path).
		Msg("snapshot published")

	_, err := fmt.Fprintf(rc.rt.Output, "%s: %d weeks from %s written to %s\n",
		outcome.Path, outcome.Records, outcome.Source, cfg.Output.Path)
	return err
}

// publisher always includes the file sink. A sink that cannot be built is
// left out and its error returned alongside the publisher.
func (rc *RunCmd) publisher(ctx context.Context) (*snapshot.Publisher, error) {
	cfg := rc.rt.Config
	sinks := []snapshot.Sink{snapshot.NewFileSink(cfg.Output.Path)}

	if cfg.Output.S3.Bucket == "" || rc.skipS3 {
		return snapshot.NewPublisher(sinks...), nil
	}

	api := rc.rt.S3
	if api == nil {
		s3Client, err := snapshot.LoadS3Client(ctx, cfg.S3Settings())
		if err != nil {
			zerolog.Ctx(ctx).Error().
				Err(err).
				Str("bucket", cfg.Output.S3.Bucket).
				Msg("s3 sink unavailable, publishing to the remaining sinks")
			return snapshot.NewPublisher(sinks...), fmt.Errorf("s3://%s: %w", cfg.Output.S3.Bucket, err)
		}
		api = s3Client
	}
	sinks = append(sinks, snapshot.NewS3Sink(api, cfg.S3Settings()))

	return snapshot.NewPublisher(sinks...), nil
}
