package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Fixed workbook names inside the data directory, one per entity type.
const (
	SitesFile           = "sites.xlsx"
	ProjectorModelsFile = "projector_models.xlsx"
	ProjectorsFile      = "projectors.xlsx"
	AudisFile           = "audis.xlsx"
	DTRCasesFile        = "dtr_cases.xlsx"
	RMACasesFile        = "rma_cases.xlsx"
)

// Row is one data row of a worksheet keyed by its header text.
type Row struct {
	Number  int // 1-based row number in the sheet
	values  map[string]string
	compact map[string]string
}

// NewRow builds a row from header → cell values. Values are trimmed.
func NewRow(number int, values map[string]string) Row {
	r := Row{
		Number:  number,
		values:  make(map[string]string, len(values)),
		compact: make(map[string]string, len(values)),
	}
	for header, value := range values {
		header = strings.TrimSpace(header)
		value = strings.TrimSpace(value)
		if header == "" {
			continue
		}
		r.values[header] = value
		key := compactHeader(header)
		if existing, ok := r.compact[key]; !ok || existing == "" {
			r.compact[key] = value
		}
	}
	return r
}

// Get returns the value under an exact header.
func (r Row) Get(header string) string {
	return r.values[header]
}

// First returns the value of the first alias that is non-empty. Exact header
// spellings win over loosely matched ones.
func (r Row) First(aliases ...string) string {
	for _, alias := range aliases {
		if v := r.values[alias]; v != "" {
			return v
		}
	}
	for _, alias := range aliases {
		if v := r.compact[compactHeader(alias)]; v != "" {
			return v
		}
	}
	return ""
}

// IsBlank reports whether every cell is empty.
func (r Row) IsBlank() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is the first worksheet of a workbook.
type Sheet struct {
	Path    string
	Name    string
	Headers []string
	Rows    []Row
}

// Len is safe on a nil sheet.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// SheetReader loads workbooks from a data directory.
type SheetReader struct {
	dir    string
	logger *zap.Logger
}

func NewSheetReader(dir string, logger *zap.Logger) *SheetReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetReader{dir: dir, logger: logger}
}

// Load reads a named workbook from the data directory. A missing file yields an
// empty sheet so downstream steps simply have nothing to import.
func (r *SheetReader) Load(name string) (*Sheet, error) {
	path := filepath.Join(r.dir, name)
	sheet, err := ReadWorkbook(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("file not found, treating as empty", zap.String("file", path))
		return &Sheet{Path: path}, nil
	}
	if err != nil {
		return nil, err
	}
	r.logger.Info("loaded workbook",
		zap.String("file", path),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", len(sheet.Rows)),
	)
	return sheet, nil
}

// ReadWorkbook reads the first worksheet of an .xlsx file. Row 1 holds headers.
// Cells are read raw so dates arrive as Excel serial numbers.
func ReadWorkbook(path string) (*Sheet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", path, err)
	}

	sheet := &Sheet{Path: path, Name: sheetName}
	if len(rows) == 0 {
		return sheet, nil
	}

	for _, h := range rows[0] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(h))
	}

	for idx := 1; idx < len(rows); idx++ {
		values := make(map[string]string, len(sheet.Headers))
		for col, header := range sheet.Headers {
			if header == "" {
				continue
			}
			if col < len(rows[idx]) {
				values[header] = rows[idx][col]
			} else {
				values[header] = ""
			}
		}
		row := NewRow(idx+1, values)
		if row.IsBlank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
