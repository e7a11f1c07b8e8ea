package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/config"
	"salesetl/pkg/contracts/domain"
)

func setupCSVWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	paths, err := config.GetPaths(cfg)
	require.NoError(t, err)

	return NewCSVWriter(paths, nil), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(content[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteTable(t *testing.T) {
	writer, paths := setupCSVWriter(t)

	require.NoError(t, writer.WriteTable(context.Background(), "history_income_2025-03-01.csv", LedgerTable(sampleLedger())))

	records := readCSV(t, paths.GetReportPath("history_income_2025-03-01.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id_client", "full_name", "date", "daily_income", "accumulated_income"}, records[0])
	assert.Equal(t, []string{"C001", "Ana Silva", "2025-01-01", "100.00", "100.00"}, records[1])
	assert.Equal(t, []string{"C001", "Ana Silva", "2025-01-02", "50.00", "150.00"}, records[2])
}

func TestCSVWriter_AbsolutePathAndOverwrite(t *testing.T) {
	writer, _ := setupCSVWriter(t)
	path := filepath.Join(t.TempDir(), "nested", "sales_by_state.csv")

	table := StateSalesTable([]domain.StateSales{
		{State: "RJ", Quantity: 11, Cost: domain.MustParseMoney("4500.10")},
		{State: "SP", Quantity: 13, Cost: domain.MustParseMoney("5149.90")},
	})
	require.NoError(t, writer.WriteTable(context.Background(), path, table))

	table.Rows = table.Rows[1:]
	require.NoError(t, writer.WriteTable(context.Background(), path, table))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"SP", "13", "5149.90"}, records[1])
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, paths := setupCSVWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Name", "Value"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"a", "1"}))
	require.NoError(t, stream.WriteRecord([]string{"b, with comma", "2"}))
	require.NoError(t, stream.Close())

	records := readCSV(t, paths.GetReportPath("stream.csv"))
	assert.Equal(t, [][]string{{"Name", "Value"}, {"a", "1"}, {"b, with comma", "2"}}, records)
}

func TestCSVWriter_CancelledContext(t *testing.T) {
	writer, _ := setupCSVWriter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := writer.WriteTable(ctx, "cancelled.csv", LedgerTable(sampleLedger()))
	assert.ErrorIs(t, err, context.Canceled)
}
