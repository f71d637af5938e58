package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// CSVWriter writes one wide report file per course batch under an output
// directory.
type CSVWriter struct {
	dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Write emits report-<courseID>-<batchID>.csv and returns its path. The
// header is the fixed column set in report order followed by the dynamic
// score and progress columns observed across the rows, each class sorted so
// identical inputs always produce byte-identical files. Cells for columns a
// row never observed are left empty.
func (w *CSVWriter) Write(courseID, batchID string, rows []*entities.WideRow) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("report-%s-%s.csv", courseID, batchID))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	header := Columns(rows)

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = row.Value(col)
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	return path, nil
}

// Columns computes the full header for a set of rows: the fixed report
// columns, then every "<id> - Score" column, then every "<id> - Progress"
// column, the dynamic classes each sorted by name.
func Columns(rows []*entities.WideRow) []string {
	fixed := entities.FixedColumns()
	isFixed := make(map[string]bool, len(fixed))
	for _, col := range fixed {
		isFixed[col] = true
	}

	scoreSet := make(map[string]bool)
	progressSet := make(map[string]bool)
	for _, row := range rows {
		for _, col := range row.Columns() {
			if isFixed[col] {
				continue
			}
			if strings.HasSuffix(col, entities.ScoreColumnSuffix) {
				scoreSet[col] = true
			} else {
				progressSet[col] = true
			}
		}
	}

	header := append([]string{}, fixed...)
	header = append(header, sortedKeys(scoreSet)...)
	header = append(header, sortedKeys(progressSet)...)
	return header
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
