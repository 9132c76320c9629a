package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates a workbook whose first sheet holds the given rows,
// starting at the given row offset to simulate leading blank rows.
func writeWorkbook(t *testing.T, path string, offset int, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, offset+i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	writeWorkbook(t, path, 0, [][]any{
		{"Auftrag-Nr.", "Auftragsart", "Distanz verrechnet"},
		{"1001", "Heizöl", 42.5},
		{"", "", ""},
		{"1002", "Pellets", 10},
	})

	table, err := LoadTable(context.Background(), nil, Source{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"Auftrag-Nr.", "Auftragsart", "Distanz verrechnet"}, table.Labels)
	// The all-blank row between the data rows is dropped.
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1001", table.Rows[0][0])
	assert.Equal(t, "1002", table.Rows[1][0])
}

func TestLoadTable_LeadingBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padded.xlsx")
	writeWorkbook(t, path, 2, [][]any{
		{"Kunden-Nr", "Sparte"},
		{"30145", "Brennstoffe"},
	})

	table, err := LoadTable(context.Background(), nil, Source{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "Kunden-Nr", table.Labels[0])
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Brennstoffe", table.Rows[0][1])
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable(context.Background(), nil, Source{Path: filepath.Join(t.TempDir(), "nope.xlsx")})
	require.Error(t, err)
}

func TestLoadTable_EmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadTable(context.Background(), nil, Source{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains no data")
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	orders := filepath.Join(dir, "orders.xlsx")
	divisions := filepath.Join(dir, "divisions.xlsx")
	centers := filepath.Join(dir, "centers.xlsx")

	writeWorkbook(t, orders, 0, [][]any{
		{"Auftrag-Nr", "Auftragsart"},
		{"1001", "Heizöl"},
	})
	writeWorkbook(t, divisions, 0, [][]any{
		{"Kunden-Nr", "Sparte"},
		{"30145", "Brennstoffe"},
	})
	writeWorkbook(t, centers, 0, [][]any{
		{"Nummer.Auftraggeber", "Betriebszentrale"},
		{"3310", "Oberbuchsiten"},
	})

	in, err := LoadInput(context.Background(), nil,
		Source{Path: orders}, Source{Path: divisions}, Source{Path: centers})
	require.NoError(t, err)

	assert.Len(t, in.Orders.Rows, 1)
	assert.Len(t, in.Divisions.Rows, 1)
	assert.Len(t, in.Centers.Rows, 1)
}
