package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/mortality-atlas/pkg/adapters"
	"github.com/de-tools/mortality-atlas/pkg/models/api"
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultPath = "mortality_data.json"

// ErrNotFound is returned by Load when no snapshot has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// Sink stores the encoded snapshot somewhere the dashboard can read it.
type Sink interface {
	Name() string
	Put(ctx context.Context, data []byte) error
}

// Encode renders a report in its wire format.
func Encode(report domain.AggregateReport) ([]byte, error) {
	data, err := json.Marshal(adapters.MapMortalityReportDomainToApi(report))
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot written by Encode.
func Decode(data []byte) (domain.AggregateReport, error) {
	var wire api.MortalityReport
	if err := json.Unmarshal(data, &wire); err != nil {
		return domain.AggregateReport{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return adapters.MapMortalityReportApiToDomain(wire)
}

// Load reads a snapshot file.
func Load(path string) (domain.AggregateReport, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.AggregateReport{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return domain.AggregateReport{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// FileSink overwrites a local file atomically.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultPath
	}
	return &FileSink{Path: path}
}

func (s *FileSink) Name() string { return "file:" + s.Path }

func (s *FileSink) Put(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mortality-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Publisher writes the same snapshot to every sink.
type Publisher struct {
	sinks []Sink
}

func NewPublisher(sinks ...Sink) *Publisher {
	return &Publisher{sinks: sinks}
}

// Publish encodes the report and writes it to every sink, continuing past
// failing sinks. The returned error joins all sink failures.
func (p *Publisher) Publish(ctx context.Context, report domain.AggregateReport) error {
	logger := zerolog.Ctx(ctx)

	data, err := Encode(report)
	if err != nil {
		return err
	}

	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Put(ctx, data); err != nil {
			logger.Error().Err(err).Str("sink", sink.Name()).Msg("failed to publish snapshot")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		logger.Info().Str("sink", sink.Name()).Int("bytes", len(data)).Msg("snapshot published")
	}
	return errors.Join(errs...)
}

// FileSource serves the latest snapshot written by a FileSink.
type FileSource struct {
	Path string
}

func (s FileSource) Latest(_ context.Context) (domain.AggregateReport, error) {
	return Load(s.Path)
}
