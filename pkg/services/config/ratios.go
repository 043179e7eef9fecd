package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Ratio table sections recognised in a ratios INI file. A present section
// replaces the corresponding built-in table; key case is preserved.
const (
	SectionCause     = "cause"
	SectionGender    = "gender"
	SectionRace      = "race"
	SectionProvinces = "provinces"
)

// LoadRatiosFile applies the tables from an INI file on top of base and validates the result.
//
//	[provinces]
//	Gauteng = 0.22
//	KwaZulu-Natal = 0.20
func LoadRatiosFile(path string, base domain.Ratios) (domain.Ratios, error) {
	out, err := ReadRatiosFile(path, base)
	if err != nil {
		return domain.Ratios{}, err
	}
	if err := out.Validate(); err != nil {
		return domain.Ratios{}, fmt.Errorf("invalid ratios: %w", err)
	}
	return out, nil
}

// ReadRatiosFile merges the tables from an INI file into base without validating them.
func ReadRatiosFile(path string, base domain.Ratios) (domain.Ratios, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return domain.Ratios{}, fmt.Errorf("failed to load ratios file: %w", err)
	}
	return mergeRatios(cfg, base)
}

// LoadRatiosData is LoadRatiosFile for in-memory INI content.
func LoadRatiosData(data []byte, base domain.Ratios) (domain.Ratios, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return domain.Ratios{}, fmt.Errorf("failed to parse ratios: %w", err)
	}
	out, err := mergeRatios(cfg, base)
	if err != nil {
		return domain.Ratios{}, err
	}
	if err := out.Validate(); err != nil {
		return domain.Ratios{}, fmt.Errorf("invalid ratios: %w", err)
	}
	return out, nil
}

func mergeRatios(cfg *ini.File, base domain.Ratios) (domain.Ratios, error) {
	out := base.Clone()
	targets := map[string]*domain.RatioTable{
		SectionCause:     &out.Cause,
		SectionGender:    &out.Gender,
		SectionRace:      &out.Race,
		SectionProvinces: &out.Provinces,
	}

	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(section.Name()))
		target, ok := targets[name]
		if !ok {
			return domain.Ratios{}, fmt.Errorf("unknown ratio table %q", section.Name())
		}

		table := make(domain.RatioTable, len(section.Keys()))
		for _, key := range section.Keys() {
			v, err := key.Float64()
			if err != nil {
				return domain.Ratios{}, fmt.Errorf("%s.%s: invalid fraction %q", name, key.Name(), key.String())
			}
			table[strings.TrimSpace(key.Name())] = v
		}
		*target = table
	}
	return out, nil
}
