package dataprocessing

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

var (
	day1 = domain.NewDay(2025, time.January, 1)
	day2 = domain.NewDay(2025, time.January, 2)
	day3 = domain.NewDay(2025, time.January, 3)
	day4 = domain.NewDay(2025, time.January, 4)
	day5 = domain.NewDay(2025, time.January, 5)
)

func sampleStore(t *testing.T) (*Store, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return NewStore(testutil.SampleTables(), logger), logs
}

func assertMoney(t *testing.T, want string, got domain.Money) {
	t.Helper()
	assert.Truef(t, got.Equal(domain.MustParseMoney(want)), "want %s, got %s", want, got)
}

func TestNewStore(t *testing.T) {
	store, _ := sampleStore(t)

	assert.Len(t, store.Clients(), 4)
	assert.Len(t, store.Products(), 4)
	assert.Len(t, store.Sales(), 7)

	client, ok := store.Client("C003")
	require.True(t, ok)
	assert.Equal(t, "Carla Souza", client.FullName())

	_, ok = store.Client("C005")
	assert.False(t, ok)

	product, ok := store.Product("P002")
	require.True(t, ok)
	assert.Equal(t, "Mouse", product.Name)
}

func TestNewStoreDuplicates(t *testing.T) {
	tables := testutil.SampleTables()
	tables.Clients = append(tables.Clients, domain.Client{ID: "C001", Name: "Other", Surname: "Person", State: "BA"})
	tables.Products = append(tables.Products, domain.Product{ID: "P004", Name: "Mesa", Stock: 1})

	logger, logs := testutil.NewTestLogger(t)
	store := NewStore(tables, logger)

	require.Len(t, store.Clients(), 4)
	client, _ := store.Client("C001")
	assert.Equal(t, "Ana", client.Name)

	product, _ := store.Product("P004")
	assert.Equal(t, "Cadeira", product.Name)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Duplicate client id ignored")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Duplicate product id ignored")
}

func TestNewStoreNormalizesDates(t *testing.T) {
	tables := domain.Tables{
		Sales: []domain.Sale{{
			ID: "V001", ClientID: "C001", ProductID: "P001",
			Date:     time.Date(2025, time.January, 1, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600)),
			Quantity: 1, Cost: domain.MustParseMoney("10.00"),
		}},
	}
	store := NewStore(tables, nil)

	assert.Equal(t, day1, store.Sales()[0].Date)
	assertMoney(t, "10.00", store.IncomeForDay(day1))
}

func TestStoreAccessorsReturnCopies(t *testing.T) {
	store, _ := sampleStore(t)

	clients := store.Clients()
	clients[0].ID = "C999"

	_, ok := store.Client("C001")
	assert.True(t, ok)
	assert.Equal(t, "C001", store.Clients()[0].ID)
}

// uniformStore builds n clients that each bought the same amount once.
func uniformStore(n int, cost string) *Store {
	tables := domain.Tables{}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("C%03d", i)
		tables.Clients = append(tables.Clients, domain.Client{ID: id, Name: "N", Surname: id, State: "SP"})
		tables.Sales = append(tables.Sales,
			testutil.NewSale(fmt.Sprintf("V%03d", i), id, "P001", "01/01/2025", 1, cost))
	}
	return NewStore(tables, nil)
}
