package snapshot

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/fallback"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
	"github.com/de-tools/mortality-atlas/pkg/services/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

type failingSink struct{}

func (failingSink) Name() string                      { return "broken" }
func (failingSink) Put(context.Context, []byte) error { return errors.New("disk full") }

func fallbackReport() domain.AggregateReport {
	assembler := report.NewAssembler(synth.New(domain.DefaultRatios()), func() time.Time {
		return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	})
	return fallback.NewGenerator(nil, assembler).Generate()
}

func TestFileSink_WritesAndOverwrites(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "out", "mortality_data.json")
	sink := NewFileSink(path)

	// When
	require.NoError(t, sink.Put(context.Background(), []byte(`{"v":1}`)))
	require.NoError(t, sink.Put(context.Background(), []byte(`{"v":2}`)))

	// Then
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPublish_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mortality_data.json")
	rep := fallbackReport()

	require.NoError(t, NewPublisher(NewFileSink(path)).Publish(context.Background(), rep))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, rep.Meta.Source, loaded.Meta.Source)
	assert.Equal(t, rep.Breakdown, loaded.Breakdown)
}

func TestPublish_ContinuesPastFailingSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mortality_data.json")

	err := NewPublisher(failingSink{}, NewFileSink(path)).Publish(context.Background(), fallbackReport())

	require.Error(t, err)
	assert.ErrorContains(t, err, "broken: disk full")
	assert.FileExists(t, path)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("{"))

	assert.ErrorContains(t, err, "failed to decode snapshot")
}

func TestS3Sink_Put(t *testing.T) {
	var captured *s3.PutObjectInput
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*s3.PutObjectInput) }).
		Return(&s3.PutObjectOutput{}, nil)

	sink := NewS3Sink(client, S3Settings{Bucket: "dashboard", Key: "data/mortality_data.json", CacheControl: "max-age=300"})
	err := sink.Put(context.Background(), []byte(`{"ok":true}`))

	require.NoError(t, err)
	client.AssertExpectations(t)
	require.NotNil(t, captured)
	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "dashboard", aws.ToString(captured.Bucket))
	assert.Equal(t, "data/mortality_data.json", aws.ToString(captured.Key))
	assert.Equal(t, "application/json", aws.ToString(captured.ContentType))
	assert.Equal(t, "max-age=300", aws.ToString(captured.CacheControl))
	assert.Equal(t, "s3://dashboard/data/mortality_data.json", sink.Name())
}

func TestS3Sink_PutError(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	err := NewS3Sink(client, S3Settings{Bucket: "dashboard"}).Put(context.Background(), []byte(`{}`))

	assert.ErrorContains(t, err, "failed to upload snapshot: access denied")
}
