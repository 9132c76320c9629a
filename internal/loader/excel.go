// Package loader reads the order export and the two reference workbooks into
// raw tables. It owns file mechanics only; label repair and typing happen in
// the pipeline, so a corrupted header travels through the schema normalizer
// instead of being patched up here.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"travecoqs/internal/dataset"
	"travecoqs/internal/pipeline"
)

// Source identifies one workbook. An empty Sheet means the first sheet.
type Source struct {
	Path  string
	Sheet string
}

// LoadTable reads one sheet into a raw table. The first row with any
// non-blank cell is the label row; everything below is data.
func LoadTable(ctx context.Context, logger *slog.Logger, src Source) (dataset.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("failed to open workbook %s: %w", src.Path, err)
	}
	defer f.Close()

	sheet := src.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataset.Table{}, fmt.Errorf("workbook %s has no sheets", src.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, src.Path, err)
	}

	labelRow := -1
	for i, row := range rows {
		if hasData(row) {
			labelRow = i
			break
		}
	}
	if labelRow == -1 {
		return dataset.Table{}, fmt.Errorf("sheet %q of %s contains no data", sheet, src.Path)
	}

	table := dataset.Table{Labels: rows[labelRow]}
	for _, row := range rows[labelRow+1:] {
		if hasData(row) {
			table.Rows = append(table.Rows, row)
		}
	}

	logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", src.Path),
		slog.String("sheet", sheet),
		slog.Int("columns", len(table.Labels)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// LoadInput loads all three workbooks of one pipeline run.
func LoadInput(ctx context.Context, logger *slog.Logger, orders, divisions, centers Source) (pipeline.Input, error) {
	var in pipeline.Input
	var err error

	if in.Orders, err = LoadTable(ctx, logger, orders); err != nil {
		return pipeline.Input{}, fmt.Errorf("order dataset: %w", err)
	}
	if in.Divisions, err = LoadTable(ctx, logger, divisions); err != nil {
		return pipeline.Input{}, fmt.Errorf("division map: %w", err)
	}
	if in.Centers, err = LoadTable(ctx, logger, centers); err != nil {
		return pipeline.Input{}, fmt.Errorf("dispatch center map: %w", err)
	}

	return in, nil
}

// hasData reports whether a row has any non-blank cell.
func hasData(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
