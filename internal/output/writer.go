// Package output writes the two ranked result tables as delimited text with
// a header row, one row per entity.
package output

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/blackwellrd/practice-pcn-imd/internal/model"
	"github.com/spf13/afero"
)

// Default output file names, relative to the output directory
const (
	DefaultPracticeFile = "practice_imd.csv"
	DefaultPCNFile      = "pcn_imd.csv"
)

var (
	practiceHeader = []string{"practice_code", "practice_name", "postcode", "pcn_code", "imd_score", "imd_decile"}
	pcnHeader      = []string{"pcn_code", "pcn_name", "postcode", "parent_code", "imd_score", "imd_decile"}
)

// Writer emits result tables to a filesystem
type Writer struct {
	fs afero.Fs
}

// New creates a new Writer. A nil fs means the OS filesystem.
func New(fs afero.Fs) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs}
}

// WritePractices writes the practice-level result table
func (w *Writer) WritePractices(path string, rows []model.RankedRow) error {
	return w.write(path, practiceHeader, rows)
}

// WritePCNs writes the PCN-level result table
func (w *Writer) WritePCNs(path string, rows []model.RankedRow) error {
	return w.write(path, pcnHeader, rows)
}

func (w *Writer) write(path string, header []string, rows []model.RankedRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Code,
			row.Name,
			row.Postcode,
			row.ParentCode,
			strconv.FormatFloat(row.Score, 'f', -1, 64),
			strconv.Itoa(row.Decile),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", row.Code, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
