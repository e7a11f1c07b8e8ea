package dataprocessing

import (
	"log/slog"
	"sort"
	"time"

	"salesetl/internal/validation"
	"salesetl/pkg/contracts/domain"
)

// DefaultRankingSize is the number of clients returned by TopClients and
// BottomClients when n is not positive.
const DefaultRankingSize = 5

// DefaultLowStockThreshold is the stock level at or below which a product is
// running low.
const DefaultLowStockThreshold int64 = 50

// DefaultHighValueThreshold is the cost at or above which a sale is high value.
var DefaultHighValueThreshold = domain.MustParseMoney("4500.00")

// IncomeForDay sums the cost of every sale on day. A day without sales yields
// an exact zero.
func (s *Store) IncomeForDay(day time.Time) domain.Money {
	key := dayKey(day)
	total := domain.ZeroMoney()
	for _, sale := range s.sales {
		if dayKey(sale.Date) == key {
			total = total.Add(sale.Cost)
		}
	}
	return total
}

// ClientIncomeForDay sums the client's sale cost on day. The boolean is false
// when clientID is malformed; a well-formed id without sales yields
// (zero, true).
func (s *Store) ClientIncomeForDay(clientID string, day time.Time) (domain.Money, bool) {
	if !validation.IsClientID(clientID) {
		return domain.Money{}, false
	}
	return s.daily[clientDay{clientID: clientID, day: dayKey(day)}], true
}

// ClientIncomes sums sale cost per client over [begin, end]. Clients appear
// in the order of their first sale within the period.
func (s *Store) ClientIncomes(begin, end time.Time) []domain.ClientIncome {
	index := make(map[string]int)
	var incomes []domain.ClientIncome
	for _, sale := range s.sales {
		if !domain.InRange(sale.Date, begin, end) {
			continue
		}
		i, seen := index[sale.ClientID]
		if !seen {
			i = len(incomes)
			index[sale.ClientID] = i
			incomes = append(incomes, domain.ClientIncome{ClientID: sale.ClientID, Income: domain.ZeroMoney()})
		}
		incomes[i].Income = incomes[i].Income.Add(sale.Cost)
	}
	return incomes
}

// rankClients orders clients by income, largest first. Ties keep the order of
// the client's first sale in the period.
func (s *Store) rankClients(begin, end time.Time) []domain.ClientIncome {
	ranked := s.ClientIncomes(begin, end)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Income.Cmp(ranked[j].Income) > 0
	})
	return ranked
}

// TopClients returns the n clients with the largest income over
// [begin, end]. n <= 0 means DefaultRankingSize. Tied clients keep the
// order of their first sale in the period; BottomClients walks the same
// ranking backwards, so there ties come out in reverse first-sale order.
func (s *Store) TopClients(begin, end time.Time, n int) []domain.ClientIncome {
	if n <= 0 {
		n = DefaultRankingSize
	}
	ranked := s.rankClients(begin, end)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// BottomClients returns the n clients with the smallest income over
// [begin, end], smallest first. It reads the ranking from its tail, so tied
// clients come out in reverse first-sale order and the result never overlaps
// TopClients while the period has more than 2n clients.
func (s *Store) BottomClients(begin, end time.Time, n int) []domain.ClientIncome {
	if n <= 0 {
		n = DefaultRankingSize
	}
	ranked := s.rankClients(begin, end)
	bottom := make([]domain.ClientIncome, 0, min(n, len(ranked)))
	for i := len(ranked) - 1; i >= 0 && len(bottom) < n; i-- {
		bottom = append(bottom, ranked[i])
	}
	return bottom
}

// BestSellersForDay returns every product tied for the largest quantity sold
// on day, in order of first sale that day. The result is empty when nothing
// was sold.
func (s *Store) BestSellersForDay(day time.Time) []domain.ProductQuantity {
	key := dayKey(day)
	index := make(map[string]int)
	var totals []domain.ProductQuantity
	for _, sale := range s.sales {
		if dayKey(sale.Date) != key {
			continue
		}
		i, seen := index[sale.ProductID]
		if !seen {
			i = len(totals)
			index[sale.ProductID] = i
			totals = append(totals, domain.ProductQuantity{ProductID: sale.ProductID})
		}
		totals[i].Quantity += sale.Quantity
	}

	var best int64
	for _, t := range totals {
		best = max(best, t.Quantity)
	}

	sellers := make([]domain.ProductQuantity, 0, 1)
	for _, t := range totals {
		if t.Quantity == best {
			sellers = append(sellers, t)
		}
	}
	return sellers
}

// ProductsRunningLow lists products whose stock is at or below threshold,
// lowest stock first. Ties keep table order.
func (s *Store) ProductsRunningLow(threshold int64) []domain.ProductStock {
	low := make([]domain.ProductStock, 0)
	for _, p := range s.products {
		if p.Stock <= threshold {
			low = append(low, domain.ProductStock{ProductID: p.ID, Stock: p.Stock})
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Stock < low[j].Stock
	})
	return low
}

// HighValueSales lists sales whose cost is at least threshold. When day is
// not nil only that day's sales are considered.
func (s *Store) HighValueSales(threshold domain.Money, day *time.Time) []domain.Sale {
	sales := make([]domain.Sale, 0)
	for _, sale := range s.sales {
		if sale.Cost.Cmp(threshold) < 0 {
			continue
		}
		if day != nil && dayKey(sale.Date) != dayKey(*day) {
			continue
		}
		sales = append(sales, sale)
	}
	return sales
}

// SalesWithProductNames joins every sale to its product's name. Sales whose
// product id is not in the product table are dropped; the number dropped is
// logged at warn level.
func (s *Store) SalesWithProductNames() []domain.NamedSale {
	return s.joinProductNames(s.sales)
}

// HighValueSalesHistory lists the high value sales within [begin, end],
// joined to product names.
func (s *Store) HighValueSalesHistory(begin, end time.Time, threshold domain.Money) []domain.NamedSale {
	inPeriod := make([]domain.Sale, 0)
	for _, sale := range s.HighValueSales(threshold, nil) {
		if domain.InRange(sale.Date, begin, end) {
			inPeriod = append(inPeriod, sale)
		}
	}
	return s.joinProductNames(inPeriod)
}

func (s *Store) joinProductNames(sales []domain.Sale) []domain.NamedSale {
	named := make([]domain.NamedSale, 0, len(sales))
	dropped := 0
	for _, sale := range sales {
		product, ok := s.Product(sale.ProductID)
		if !ok {
			dropped++
			continue
		}
		named = append(named, domain.NamedSale{
			SaleID:      sale.ID,
			ClientID:    sale.ClientID,
			ProductID:   sale.ProductID,
			Date:        sale.Date,
			Quantity:    sale.Quantity,
			Cost:        sale.Cost,
			ProductName: product.Name,
		})
	}
	if dropped > 0 {
		s.logger.Warn("Sales without a matching product dropped from join",
			slog.Int("dropped", dropped),
			slog.Int("kept", len(named)))
	}
	return named
}

// SalesByState sums quantity and cost per client state over [begin, end].
// Sales whose client is not in the client table are dropped and counted in
// a warn log. States are returned in ascending order.
func (s *Store) SalesByState(begin, end time.Time) []domain.StateSales {
	index := make(map[string]int)
	states := make([]domain.StateSales, 0)
	dropped := 0
	for _, sale := range s.sales {
		if !domain.InRange(sale.Date, begin, end) {
			continue
		}
		client, ok := s.Client(sale.ClientID)
		if !ok {
			dropped++
			continue
		}
		i, seen := index[client.State]
		if !seen {
			i = len(states)
			index[client.State] = i
			states = append(states, domain.StateSales{State: client.State, Cost: domain.ZeroMoney()})
		}
		states[i].Quantity += sale.Quantity
		states[i].Cost = states[i].Cost.Add(sale.Cost)
	}
	if dropped > 0 {
		s.logger.Warn("Sales without a matching client dropped from state rollup",
			slog.Int("dropped", dropped))
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].State < states[j].State
	})
	return states
}
