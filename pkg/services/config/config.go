package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/services/extract"
	"github.com/de-tools/mortality-atlas/pkg/services/locator"
	"github.com/de-tools/mortality-atlas/pkg/store/client"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "MORTALITY"
	DefaultPageURL = "https://www.samrc.ac.za/reports/report-weekly-deaths-south-africa"
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Locator  LocatorConfig  `mapstructure:"locator"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Ratios   RatiosConfig   `mapstructure:"ratios"`
	Baseline []BaselineWeek `mapstructure:"baseline" validate:"dive"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type SourceConfig struct {
	PageURL   string        `mapstructure:"page_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxBytes  int64         `mapstructure:"max_bytes" validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent"`
}

type LocatorConfig struct {
	Phrases    []string `mapstructure:"phrases" validate:"min=1,dive,required"`
	Extensions []string `mapstructure:"extensions" validate:"required_if=Strict true,dive,required"`
	Strict     bool     `mapstructure:"strict"`
}

type ExtractConfig struct {
	SheetIndex  int      `mapstructure:"sheet_index" validate:"gte=0"`
	SheetName   string   `mapstructure:"sheet_name"`
	Separators  []string `mapstructure:"separators" validate:"min=1,dive,required"`
	LabelColumn int      `mapstructure:"label_column" validate:"gte=0"`
	CountColumn int      `mapstructure:"count_column" validate:"gte=0,nefield=LabelColumn"`
	CountHeader string   `mapstructure:"count_header"`
	KeepLabels  bool     `mapstructure:"keep_labels"`
}

// RatiosConfig points at an INI file overriding the built-in ratio tables.
type RatiosConfig struct {
	File string `mapstructure:"file"`
}

type BaselineWeek struct {
	Label  string `mapstructure:"label" validate:"required"`
	Deaths int    `mapstructure:"deaths" validate:"gte=0"`
}

type OutputConfig struct {
	Path string   `mapstructure:"path" validate:"required"`
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Key          string `mapstructure:"key"`
	Region       string `mapstructure:"region"`
	Profile      string `mapstructure:"profile"`
	CacheControl string `mapstructure:"cache_control"`
}

type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	StaticDir string `mapstructure:"static_dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

func setDefaults(v *viper.Viper) {
	loc := locator.DefaultOptions()
	ext := extract.DefaultOptions()

	v.SetDefault("source.page_url", DefaultPageURL)
	v.SetDefault("source.timeout", client.DefaultTimeout)
	v.SetDefault("source.max_bytes", client.DefaultMaxBytes)
	v.SetDefault("source.user_agent", "")

	v.SetDefault("locator.phrases", loc.Phrases)
	v.SetDefault("locator.extensions", loc.Extensions)
	v.SetDefault("locator.strict", loc.Strict)

	v.SetDefault("extract.sheet_index", ext.SheetIndex)
	v.SetDefault("extract.sheet_name", ext.SheetName)
	v.SetDefault("extract.separators", ext.Separators)
	v.SetDefault("extract.label_column", ext.LabelColumn)
	v.SetDefault("extract.count_column", ext.CountColumn)
	v.SetDefault("extract.count_header", ext.CountHeader)
	v.SetDefault("extract.keep_labels", ext.KeepLabels)

	v.SetDefault("ratios.file", "")

	v.SetDefault("output.path", snapshot.DefaultPath)
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.key", snapshot.DefaultPath)
	v.SetDefault("output.s3.region", snapshot.DefaultRegion)
	v.SetDefault("output.s3.profile", "")
	v.SetDefault("output.s3.cache_control", "max-age=300")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig merges defaults, the optional config file and MORTALITY_* environment
// variables, then validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) LocatorOptions() locator.Options {
	return locator.Options{
		Phrases:    c.Locator.Phrases,
		Extensions: c.Locator.Extensions,
		Strict:     c.Locator.Strict,
	}
}

func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		SheetIndex:  c.Extract.SheetIndex,
		SheetName:   c.Extract.SheetName,
		Separators:  c.Extract.Separators,
		LabelColumn: c.Extract.LabelColumn,
		CountColumn: c.Extract.CountColumn,
		CountHeader: c.Extract.CountHeader,
		KeepLabels:  c.Extract.KeepLabels,
	}
}

func (c *Config) ClientSettings() client.Settings {
	return client.Settings{
		Timeout:   c.Source.Timeout,
		MaxBytes:  c.Source.MaxBytes,
		UserAgent: c.Source.UserAgent,
	}
}

func (c *Config) S3Settings() snapshot.S3Settings {
	return snapshot.S3Settings{
		Bucket:       c.Output.S3.Bucket,
		Key:          c.Output.S3.Key,
		Region:       c.Output.S3.Region,
		Profile:      c.Output.S3.Profile,
		CacheControl: c.Output.S3.CacheControl,
	}
}

// BaselineRecords returns the configured fallback dataset, or nil to use the built-in one.
func (c *Config) BaselineRecords() []domain.WeeklyRecord {
	if len(c.Baseline) == 0 {
		return nil
	}
	out := make([]domain.WeeklyRecord, 0, len(c.Baseline))
	for _, w := range c.Baseline {
		out = append(out, domain.WeeklyRecord{Label: w.Label, TotalDeaths: w.Deaths})
	}
	return out
}

// LoadRatios returns the built-in ratio tables with any INI overrides applied.
func (c *Config) LoadRatios() (domain.Ratios, error) {
	if c.Ratios.File == "" {
		return domain.DefaultRatios(), nil
	}
	return LoadRatiosFile(c.Ratios.File, domain.DefaultRatios())
}

// ReadRatios is LoadRatios without validation, for inspecting a bad override file.
func (c *Config) ReadRatios() (domain.Ratios, error) {
	if c.Ratios.File == "" {
		return domain.DefaultRatios(), nil
	}
	return ReadRatiosFile(c.Ratios.File, domain.DefaultRatios())
}
