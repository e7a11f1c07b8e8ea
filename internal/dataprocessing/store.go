package dataprocessing

import (
	"log/slog"
	"slices"
	"time"

	"salesetl/pkg/contracts/domain"
)

// Store holds the three source tables for the lifetime of a run. It is built
// once by NewStore and never mutated afterwards, so it is safe to query from
// several goroutines.
type Store struct {
	clients  []domain.Client
	products []domain.Product
	sales    []domain.Sale

	clientByID  map[string]int
	productByID map[string]int
	// daily is the summed sale cost per (client, day).
	daily map[clientDay]domain.Money

	logger *slog.Logger
}

type clientDay struct {
	clientID string
	day      int64
}

func dayKey(t time.Time) int64 {
	return domain.Day(t).Unix()
}

// NewStore indexes the tables. Duplicate client or product ids keep their
// first row. Sale dates are normalized to calendar days.
func NewStore(tables domain.Tables, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		clientByID:  make(map[string]int, len(tables.Clients)),
		productByID: make(map[string]int, len(tables.Products)),
		daily:       make(map[clientDay]domain.Money),
		logger:      logger.With(slog.String("component", "store")),
	}

	for _, c := range tables.Clients {
		if _, dup := s.clientByID[c.ID]; dup {
			s.logger.Warn("Duplicate client id ignored", slog.String("id_client", c.ID))
			continue
		}
		s.clientByID[c.ID] = len(s.clients)
		s.clients = append(s.clients, c)
	}

	for _, p := range tables.Products {
		if _, dup := s.productByID[p.ID]; dup {
			s.logger.Warn("Duplicate product id ignored", slog.String("id_product", p.ID))
			continue
		}
		s.productByID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}

	s.sales = make([]domain.Sale, len(tables.Sales))
	for i, sale := range tables.Sales {
		sale.Date = domain.Day(sale.Date)
		s.sales[i] = sale

		key := clientDay{clientID: sale.ClientID, day: dayKey(sale.Date)}
		s.daily[key] = s.daily[key].Add(sale.Cost)
	}

	s.logger.Debug("Store built",
		slog.Int("clients", len(s.clients)),
		slog.Int("products", len(s.products)),
		slog.Int("sales", len(s.sales)))

	return s
}

// Clients returns the client table in first-appearance order.
func (s *Store) Clients() []domain.Client {
	return slices.Clone(s.clients)
}

// Products returns the product table.
func (s *Store) Products() []domain.Product {
	return slices.Clone(s.products)
}

// Sales returns the sales table.
func (s *Store) Sales() []domain.Sale {
	return slices.Clone(s.sales)
}

// Client looks up a client by id.
func (s *Store) Client(id string) (domain.Client, bool) {
	i, ok := s.clientByID[id]
	if !ok {
		return domain.Client{}, false
	}
	return s.clients[i], true
}

// Product looks up a product by id.
func (s *Store) Product(id string) (domain.Product, bool) {
	i, ok := s.productByID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}
