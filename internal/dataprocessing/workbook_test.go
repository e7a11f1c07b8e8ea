package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "salesetl/internal/errors"
	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

func TestLoadWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), testutil.SampleTables())

	tables, err := LoadWorkbook(context.Background(), path, DefaultLoadOptions())
	require.NoError(t, err)

	require.Len(t, tables.Clients, 4)
	require.Len(t, tables.Products, 4)
	require.Len(t, tables.Sales, 7)

	assert.Equal(t, domain.Client{ID: "C001", Name: "Ana", Surname: "Silva", State: "SP"}, tables.Clients[0])
	assert.Equal(t, int64(51), tables.Products[2].Stock)

	sale := tables.Sales[3]
	assert.Equal(t, "V004", sale.ID)
	assert.Equal(t, domain.NewDay(2025, time.January, 3), sale.Date)
	assert.Equal(t, int64(2), sale.Quantity)
	assert.True(t, sale.Cost.Equal(domain.MustParseMoney("4999.90")), "cost %s", sale.Cost)

	assert.True(t, tables.Sales[4].Cost.Equal(domain.MustParseMoney("0.10")), "cost %s", tables.Sales[4].Cost)
}

func TestLoadWorkbookDateSerial(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), testutil.SampleTables())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sales", "D2", time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	tables, err := LoadWorkbook(context.Background(), path, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDay(2025, time.February, 14), tables.Sales[0].Date)
}

// setSaleCost replaces the cost of the first sale with a text cell.
func setSaleCost(t *testing.T, path, cost string) {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellStr("Sales", "F2", cost))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())
}

func TestLoadWorkbookTextCost(t *testing.T) {
	tests := []struct {
		name string
		cost string
		want string
	}{
		{name: "long integral part", cost: "12345678901234.567", want: "12345678901234.567"},
		{name: "long fraction", cost: "1234567890123.4567", want: "1234567890123.4567"},
		{name: "grouped", cost: "1,234.50", want: "1234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteWorkbook(t, t.TempDir(), testutil.SampleTables())
			setSaleCost(t, path, tt.cost)

			tables, err := LoadWorkbook(context.Background(), path, DefaultLoadOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, tables.Sales[0].Cost.String())
		})
	}
}

func TestLoadWorkbookCommaDecimalCost(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), testutil.SampleTables())
	setSaleCost(t, path, "1,50")

	_, err := LoadWorkbook(context.Background(), path, DefaultLoadOptions())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, "Sales", appErr.Context["sheet"])
	assert.Equal(t, 2, appErr.Context["row"])
}

func TestLoadWorkbookErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T, tables *domain.Tables) string
		opts     LoadOptions
		wantType apperrors.ErrorType
		wantErr  error
	}{
		{
			name: "missing file",
			mutate: func(t *testing.T, _ *domain.Tables) string {
				return filepath.Join(t.TempDir(), "absent.xlsx")
			},
			opts:     DefaultLoadOptions(),
			wantType: apperrors.ErrTypeStorage,
		},
		{
			name: "missing sheet",
			mutate: func(t *testing.T, tables *domain.Tables) string {
				return testutil.WriteWorkbook(t, t.TempDir(), *tables)
			},
			opts:     LoadOptions{SalesSheet: "Vendas", Strict: true},
			wantType: apperrors.ErrTypeParsing,
			wantErr:  apperrors.ErrSheetNotFound,
		},
		{
			name: "missing column",
			mutate: func(t *testing.T, tables *domain.Tables) string {
				path := testutil.WriteWorkbook(t, t.TempDir(), *tables)
				f, err := excelize.OpenFile(path)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue("Sales", "F1", "price"))
				require.NoError(t, f.Save())
				require.NoError(t, f.Close())
				return path
			},
			opts:     DefaultLoadOptions(),
			wantType: apperrors.ErrTypeParsing,
			wantErr:  apperrors.ErrColumnNotFound,
		},
		{
			name: "malformed sale id",
			mutate: func(t *testing.T, tables *domain.Tables) string {
				tables.Sales[1].ID = "S002"
				return testutil.WriteWorkbook(t, t.TempDir(), *tables)
			},
			opts:     DefaultLoadOptions(),
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "negative stock",
			mutate: func(t *testing.T, tables *domain.Tables) string {
				tables.Products[0].Stock = -1
				return testutil.WriteWorkbook(t, t.TempDir(), *tables)
			},
			opts:     DefaultLoadOptions(),
			wantType: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := testutil.SampleTables()
			path := tt.mutate(t, &tables)

			_, err := LoadWorkbook(context.Background(), path, tt.opts)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadWorkbookLenient(t *testing.T) {
	tables := testutil.SampleTables()
	tables.Sales[1].ID = "S002"
	tables.Clients[3].ID = "CX"
	path := testutil.WriteWorkbook(t, t.TempDir(), tables)

	logger, logs := testutil.NewTestLogger(t)
	opts := DefaultLoadOptions()
	opts.Strict = false

	loaded, err := NewWorkbookLoader(logger, opts).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, loaded.Clients, 3)
	assert.Len(t, loaded.Sales, 6)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Skipping malformed row")
	testutil.AssertLogAttr(t, logs, "row", int64(3))
}

func TestParseWholeNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"12.0", 12, false},
		{" 1,000 ", 1000, false},
		{"0", 0, false},
		{"2.5", 0, true},
		{"", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseWholeNumber(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateCell(t *testing.T) {
	got, err := parseDateCell("05/01/2025")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDay(2025, time.January, 5), got)

	got, err = parseDateCell("45658")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDay(2025, time.January, 1), got)

	_, err = parseDateCell("")
	assert.Error(t, err)

	_, err = parseDateCell("31/02/2025")
	assert.Error(t, err)
}
