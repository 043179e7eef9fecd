package extract

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// built-in number formats that render a serial number as a date
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Workbook wraps an opened excelize file.
type Workbook struct {
	file     *excelize.File
	date1904 bool
}

// OpenWorkbook reads workbook bytes. The caller must Close the workbook.
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wb := &Workbook{file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet loads the raw cell values of a worksheet.
func (w *Workbook) Sheet(name string) (Sheet, error) {
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return &excelSheet{
		wb:     w,
		name:   name,
		rows:   rows,
		styles: make(map[int]bool),
	}, nil
}

type excelSheet struct {
	wb     *Workbook
	name   string
	rows   [][]string
	styles map[int]bool // style id -> renders as date
}

func (s *excelSheet) Name() string { return s.name }

func (s *excelSheet) Rows() int { return len(s.rows) }

func (s *excelSheet) Width(row int) int {
	if row < 0 || row >= len(s.rows) {
		return 0
	}
	return len(s.rows[row])
}

func (s *excelSheet) Cell(row, col int) Cell {
	if col < 0 || col >= s.Width(row) {
		return Cell{Kind: CellEmpty}
	}
	raw := s.rows[row][col]
	if strings.TrimSpace(raw) == "" {
		return Cell{Kind: CellEmpty}
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{Kind: CellText, Text: raw}
	}

	cellType, err := s.wb.file.GetCellType(s.name, axis)
	if err != nil {
		return Cell{Kind: CellText, Text: raw}
	}

	switch cellType {
	case excelize.CellTypeBool:
		return Cell{Kind: CellBool, Text: raw}
	case excelize.CellTypeDate:
		if t, ok := parseISO(raw); ok {
			return Cell{Kind: CellDate, Text: raw, Time: t}
		}
		return Cell{Kind: CellText, Text: raw}
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Cell{Kind: CellText, Text: raw}
		}
		if s.isDateStyled(axis) {
			if t, err := excelize.ExcelDateToTime(n, s.wb.date1904); err == nil {
				return Cell{Kind: CellDate, Text: raw, Number: n, Time: t}
			}
		}
		return Cell{Kind: CellNumber, Text: raw, Number: n}
	default:
		return Cell{Kind: CellText, Text: raw}
	}
}

func (s *excelSheet) isDateStyled(axis string) bool {
	id, err := s.wb.file.GetCellStyle(s.name, axis)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := s.styles[id]; ok {
		return isDate
	}

	isDate := false
	if style, err := s.wb.file.GetStyle(id); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt] ||
			(style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt))
	}
	s.styles[id] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format renders days or years.
// Quoted literals and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
}

func parseISO(raw string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
