package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesetl/pkg/contracts/domain"
)

// SampleTables returns a small, fully known data set:
//
//	clients  C001 Ana Silva SP, C002 Bruno Costa RJ, C003 Carla Souza SP, C004 Diego Lima MG
//	products P001 stock 12, P002 stock 50, P003 stock 51, P004 stock 5
//	sales    V001..V007 between 01/01/2025 and 04/01/2025
//
// V006 references a product missing from the product table and V007 a
// client missing from the client table.
func SampleTables() domain.Tables {
	return domain.Tables{
		Clients: []domain.Client{
			{ID: "C001", Name: "Ana", Surname: "Silva", State: "SP"},
			{ID: "C002", Name: "Bruno", Surname: "Costa", State: "RJ"},
			{ID: "C003", Name: "Carla", Surname: "Souza", State: "SP"},
			{ID: "C004", Name: "Diego", Surname: "Lima", State: "MG"},
		},
		Products: []domain.Product{
			{ID: "P001", Name: "Notebook", Stock: 12},
			{ID: "P002", Name: "Mouse", Stock: 50},
			{ID: "P003", Name: "Monitor", Stock: 51},
			{ID: "P004", Name: "Cadeira", Stock: 5},
		},
		Sales: []domain.Sale{
			NewSale("V001", "C001", "P001", "01/01/2025", 1, "100.00"),
			NewSale("V002", "C001", "P002", "02/01/2025", 10, "50.00"),
			NewSale("V003", "C002", "P001", "02/01/2025", 10, "4500.00"),
			NewSale("V004", "C003", "P003", "03/01/2025", 2, "4999.90"),
			NewSale("V005", "C002", "P002", "03/01/2025", 1, "0.10"),
			NewSale("V006", "C004", "P999", "03/01/2025", 3, "4600.00"),
			NewSale("V007", "C005", "P004", "04/01/2025", 4, "10.00"),
		},
	}
}

// NewSale builds a sale from workbook-style text. It panics on malformed
// input, which is a bug in the test itself.
func NewSale(id, clientID, productID, date string, quantity int64, cost string) domain.Sale {
	day, err := domain.ParseDay(date)
	if err != nil {
		panic(err)
	}
	return domain.Sale{
		ID:        id,
		ClientID:  clientID,
		ProductID: productID,
		Date:      day,
		Quantity:  quantity,
		Cost:      domain.MustParseMoney(cost),
	}
}

// WriteWorkbook writes tables to dir/sales_relatory.xlsx with the sheet and
// column layout of the source workbook and returns the path. Sale dates are
// written as dd/mm/yyyy text and costs as numbers.
func WriteWorkbook(t *testing.T, dir string, tables domain.Tables) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), "Clients")
	writeSheet(t, f, "Clients", []interface{}{"id_client", "name", "surname", "state"}, len(tables.Clients), func(i int) []interface{} {
		c := tables.Clients[i]
		return []interface{}{c.ID, c.Name, c.Surname, c.State}
	})

	_, err := f.NewSheet("Products")
	require.NoError(t, err)
	writeSheet(t, f, "Products", []interface{}{"id_product", "name_product", "stock"}, len(tables.Products), func(i int) []interface{} {
		p := tables.Products[i]
		return []interface{}{p.ID, p.Name, p.Stock}
	})

	_, err = f.NewSheet("Sales")
	require.NoError(t, err)
	writeSheet(t, f, "Sales", []interface{}{"id_sale", "id_client", "id_product", "sale_date", "quantity", "cost"}, len(tables.Sales), func(i int) []interface{} {
		s := tables.Sales[i]
		return []interface{}{s.ID, s.ClientID, s.ProductID, s.Date.Format(domain.SaleDateLayout), s.Quantity, s.Cost.Float64()}
	})

	path := filepath.Join(dir, "sales_relatory.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, header []interface{}, n int, row func(int) []interface{}) {
	t.Helper()

	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i := 0; i < n; i++ {
		values := row(i)
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values))
	}
}
