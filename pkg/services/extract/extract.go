package extract

import (
	"context"
	"fmt"
	"math"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	dateLayout = "2006-01-02"
	// larger values cannot be weekly death counts and would lose precision as float64
	maxCount = 1 << 40
)

type Options struct {
	SheetIndex  int
	SheetName   string
	Separators  []string
	LabelColumn int
	CountColumn int
	CountHeader string
	// KeepLabels cuts composite text labels only at a date-like leading token.
	KeepLabels  bool
}

func DefaultOptions() Options {
	return Options{
		SheetIndex:  1,
		Separators:  []string{"-"},
		LabelColumn: 0,
		CountColumn: 1,
	}
}

// Extractor turns a weekly deaths workbook into ordered weekly records.
type Extractor struct {
	selectSheet SheetSelector
	isDataRow   RowClassifier
	columns     ColumnSelector
	normalize   LabelNormalizer
}

func NewExtractor(opts Options) *Extractor {
	sheet := PreferIndex(opts.SheetIndex)
	if opts.SheetName != "" {
		sheet = PreferName(opts.SheetName, sheet)
	}

	fixed := Columns{Label: opts.LabelColumn, Count: opts.CountColumn}
	var columns ColumnSelector = FixedColumns(fixed)
	if opts.CountHeader != "" {
		columns = HeaderColumns{Phrase: opts.CountHeader, Fallback: fixed, MaxScan: 50}
	}

	classify := DateLike(opts.Separators...)
	ex := NewExtractorWithStrategies(sheet, classify, columns)
	if opts.KeepLabels {
		ex = ex.WithLabelNormalizer(DateHead(classify))
	}
	return ex
}

func NewExtractorWithStrategies(sheet SheetSelector, classify RowClassifier, columns ColumnSelector) *Extractor {
	return &Extractor{
		selectSheet: sheet,
		isDataRow:   classify,
		columns:     columns,
		normalize:   LeadingToken(),
	}
}

// WithLabelNormalizer replaces the default LeadingToken label rule.
func (e *Extractor) WithLabelNormalizer(normalize LabelNormalizer) *Extractor {
	e.normalize = normalize
	return e
}

// Extract parses workbook bytes. Malformed rows are skipped; only an unreadable
// workbook or a missing sheet fails with domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]domain.WeeklyRecord, error) {
	wb, err := OpenWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrExtraction, err)
	}
	defer wb.Close()

	name, err := e.selectSheet(wb.SheetNames())
	if err != nil {
		return nil, fmt.Errorf("%w: select sheet: %v", domain.ErrExtraction, err)
	}

	sheet, err := wb.Sheet(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	return e.ExtractSheet(ctx, sheet), nil
}

// ExtractSheet reads records from an already opened sheet.
func (e *Extractor) ExtractSheet(ctx context.Context, sheet Sheet) []domain.WeeklyRecord {
	logger := zerolog.Ctx(ctx).With().Str("sheet", sheet.Name()).Logger()
	cols := e.columns.Resolve(sheet)

	records := make([]domain.WeeklyRecord, 0, sheet.Rows())
	skipped := 0
	for r := 0; r < sheet.Rows(); r++ {
		labelCell := sheet.Cell(r, cols.Label)
		if !e.isDataRow(labelCell) {
			continue
		}

		label := e.normalize(labelCell)
		count, ok := wholeCount(sheet.Cell(r, cols.Count))
		if !ok || label == "" {
			skipped++
			logger.Debug().
				Int("row", r+1).
				Str("label", labelCell.Text).
				Msg("skipping row without a usable death count")
			continue
		}

		records = append(records, domain.WeeklyRecord{Label: label, TotalDeaths: count})
	}

	logger.Debug().
		Int("records", len(records)).
		Int("skipped", skipped).
		Int("count_column", cols.Count).
		Msg("sheet extracted")
	return records
}

// wholeCount accepts non-negative numbers that are exact integers.
func wholeCount(c Cell) (int, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	n := c.Number
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > maxCount || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}
