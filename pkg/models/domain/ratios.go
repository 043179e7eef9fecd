package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Cause keys of Ratios.Cause.
const (
	CauseNatural   = "natural"
	CauseUnnatural = "unnatural"
)

const (
	partitionTolerance = 0.01
	weightTolerance    = 0.05
	// partitions may fall short of one but never exceed it, otherwise the
	// truncated parts of a total could add up to more than the total
	partitionCeiling = 1 + 1e-9
)

// RatioTable maps a category to the fraction of an aggregate it receives.
type RatioTable map[string]float64

// Keys returns the table keys in lexical order.
func (t RatioTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sum returns the total of all fractions in the table.
func (t RatioTable) Sum() float64 {
	var sum float64
	for _, k := range t.Keys() {
		sum += t[k]
	}
	return sum
}

// Clone returns an independent copy of the table.
func (t RatioTable) Clone() RatioTable {
	out := make(RatioTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Ratios groups the tables used to split weekly totals into estimates.
type Ratios struct {
	Cause     RatioTable
	Gender    RatioTable
	Race      RatioTable
	Provinces RatioTable
}

// DefaultRatios returns the Stats SA P0309.3 derived tables.
func DefaultRatios() Ratios {
	return Ratios{
		Cause: RatioTable{
			CauseNatural:   0.88,
			CauseUnnatural: 0.12,
		},
		Gender: RatioTable{
			"male":   0.525,
			"female": 0.475,
		},
		Race: RatioTable{
			"Black African": 0.69,
			"White":         0.19,
			"Coloured":      0.09,
			"Indian/Asian":  0.03,
		},
		Provinces: RatioTable{
			"Gauteng":       0.22,
			"KwaZulu-Natal": 0.20,
			"Western Cape":  0.14,
			"Eastern Cape":  0.13,
			"Limpopo":       0.10,
			"Mpumalanga":    0.07,
			"North West":    0.06,
			"Free State":    0.05,
			"Northern Cape": 0.03,
		},
	}
}

// Clone returns a deep copy of all tables.
func (r Ratios) Clone() Ratios {
	return Ratios{
		Cause:     r.Cause.Clone(),
		Gender:    r.Gender.Clone(),
		Race:      r.Race.Clone(),
		Provinces: r.Provinces.Clone(),
	}
}

// Validate checks that every fraction is in (0,1], that the exclusive partitions
// sum to at most one (and no less than 1-0.01) and that the province weights
// are close to one.
func (r Ratios) Validate() error {
	var errs []error

	if _, ok := r.Cause[CauseNatural]; !ok {
		errs = append(errs, fmt.Errorf("cause table is missing %q", CauseNatural))
	}
	if _, ok := r.Cause[CauseUnnatural]; !ok {
		errs = append(errs, fmt.Errorf("cause table is missing %q", CauseUnnatural))
	}

	errs = append(errs, validateTable("cause", r.Cause, 1-partitionTolerance, partitionCeiling))
	errs = append(errs, validateTable("gender", r.Gender, 1-partitionTolerance, partitionCeiling))
	errs = append(errs, validateTable("race", r.Race, 1-partitionTolerance, partitionCeiling))
	errs = append(errs, validateTable("provinces", r.Provinces, 1-weightTolerance, 1+weightTolerance))

	return errors.Join(errs...)
}

func validateTable(name string, t RatioTable, low, high float64) error {
	if len(t) == 0 {
		return fmt.Errorf("%s table is empty", name)
	}
	for _, k := range t.Keys() {
		v := t[k]
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("%s table: fraction for %q must be in (0,1], got %v", name, k, v)
		}
	}
	if sum := t.Sum(); sum < low || sum > high {
		return fmt.Errorf("%s table: fractions sum to %.4f, expected between %.2f and %.2f", name, sum, low, high)
	}
	return nil
}
