package extract

import (
	"fmt"
	"strings"
)

// SheetSelector picks the worksheet holding the weekly series.
type SheetSelector func(sheets []string) (string, error)

// PreferIndex selects the sheet at index when the workbook has it, else the first sheet.
// Report authors usually keep the raw series on a secondary sheet behind a summary.
func PreferIndex(index int) SheetSelector {
	return func(sheets []string) (string, error) {
		if len(sheets) == 0 {
			return "", fmt.Errorf("workbook has no sheets")
		}
		if index >= 0 && index < len(sheets) {
			return sheets[index], nil
		}
		return sheets[0], nil
	}
}

// PreferName selects the named sheet (case-insensitive) and otherwise defers to fallback.
func PreferName(name string, fallback SheetSelector) SheetSelector {
	return func(sheets []string) (string, error) {
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
				return s, nil
			}
		}
		return fallback(sheets)
	}
}

// RowClassifier reports whether a label cell starts a data row.
type RowClassifier func(label Cell) bool

// DateLike accepts native dates and text containing one of the separators.
func DateLike(separators ...string) RowClassifier {
	return func(label Cell) bool {
		switch label.Kind {
		case CellDate:
			return true
		case CellText:
			for _, sep := range separators {
				if sep != "" && strings.Contains(label.Text, sep) {
					return true
				}
			}
		}
		return false
	}
}

// LabelNormalizer turns the label cell of a data row into a week label.
type LabelNormalizer func(label Cell) string

// LeadingToken formats native dates as 2006-01-02 and keeps only the text
// before the first space, so "2024-01-07 00:00:00" becomes "2024-01-07".
func LeadingToken() LabelNormalizer {
	return func(label Cell) string {
		if label.Kind == CellDate {
			return label.Time.Format(dateLayout)
		}
		text := strings.TrimSpace(label.Text)
		if head, _, ok := strings.Cut(text, " "); ok {
			return head
		}
		return text
	}
}

// DateHead is LeadingToken for sources with descriptive labels: the text is
// cut only when its leading token is itself accepted by isLabel, so
// "Week 45 - 2024" stays whole.
func DateHead(isLabel RowClassifier) LabelNormalizer {
	return func(label Cell) string {
		if label.Kind == CellDate {
			return label.Time.Format(dateLayout)
		}
		text := strings.TrimSpace(label.Text)
		if head, _, ok := strings.Cut(text, " "); ok && isLabel(Cell{Kind: CellText, Text: head}) {
			return head
		}
		return text
	}
}

// Columns are the positions of the label and the death count within a row.
type Columns struct {
	Label int
	Count int
}

// ColumnSelector decides which columns of a sheet carry the series.
type ColumnSelector interface {
	Resolve(s Sheet) Columns
}

// FixedColumns always uses the same positions.
type FixedColumns Columns

func (f FixedColumns) Resolve(Sheet) Columns {
	return Columns(f)
}

// HeaderColumns looks for a header cell containing Phrase and reads counts from
// that column. When no header matches, Fallback positions are used.
type HeaderColumns struct {
	Phrase   string
	Fallback Columns
	MaxScan  int
}

func (h HeaderColumns) Resolve(s Sheet) Columns {
	phrase := strings.ToLower(strings.TrimSpace(h.Phrase))
	if phrase == "" {
		return h.Fallback
	}

	limit := s.Rows()
	if h.MaxScan > 0 && h.MaxScan < limit {
		limit = h.MaxScan
	}

	for r := 0; r < limit; r++ {
		for c, text := range RowText(s, r) {
			if c == h.Fallback.Label {
				continue
			}
			if strings.Contains(strings.ToLower(text), phrase) {
				return Columns{Label: h.Fallback.Label, Count: c}
			}
		}
	}
	return h.Fallback
}
