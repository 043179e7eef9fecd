package extract

import (
	"strings"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellDate
	CellText
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	case CellText:
		return "text"
	case CellBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is a typed spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string // raw text for every non-empty kind
	Number float64
	Time   time.Time
}

// Sheet gives typed, random access to a worksheet. Row and column indexes are zero based.
type Sheet interface {
	Name() string
	Rows() int
	Width(row int) int
	Cell(row, col int) Cell
}

// RowText returns the trimmed raw text of every cell in a row.
func RowText(s Sheet, row int) []string {
	out := make([]string, s.Width(row))
	for c := range out {
		out[c] = strings.TrimSpace(s.Cell(row, c).Text)
	}
	return out
}
