package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"feira/internal/repositories"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

// ProductSales is a product name with its cumulative sold quantity.
// It is encoded as a [name, quantity] pair.
type ProductSales struct {
	Name     string
	Quantity int
}

func (p ProductSales) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Name, p.Quantity})
}

// DashboardSummary aggregates every order of a vendor.
type DashboardSummary struct {
	TotalSales  float64            `json:"total_vendas"`
	OrderCount  int                `json:"quantidade_pedidos"`
	TopProducts []ProductSales     `json:"produtos_mais_vendidos"`
	SalesByDay  map[string]float64 `json:"vendas_por_dia"` // keys are encoded in ascending order
}

// DashboardService computes sales summaries.
type DashboardService struct {
	orderRepo repositories.OrderRepository
	loc       *time.Location
}

// NewDashboardService creates a DashboardService bucketing days in loc.
func NewDashboardService(orderRepo repositories.OrderRepository, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{orderRepo: orderRepo, loc: loc}
}

// Summary computes totals over all the vendor's orders, cancelled ones included.
func (s *DashboardService) Summary(ctx context.Context, vendorID string) (*DashboardSummary, error) {
	orders, err := s.orderRepo.ListAllByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	total := decimal.Zero
	byDay := map[string]decimal.Decimal{}
	sold := map[string]int{}
	for _, o := range orders {
		t := decimal.NewFromFloat(o.Total)
		total = total.Add(t)
		day := o.CreatedAt.In(s.loc).Format("2006-01-02")
		byDay[day] = byDay[day].Add(t)
		for _, item := range o.Items {
			sold[item.Name] += item.Quantity
		}
	}

	top := make([]ProductSales, 0, len(sold))
	for name, qty := range sold {
		top = append(top, ProductSales{Name: name, Quantity: qty})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	salesByDay := make(map[string]float64, len(byDay))
	for day, sum := range byDay {
		salesByDay[day] = sum.Round(2).InexactFloat64()
	}

	return &DashboardSummary{
		TotalSales:  total.Round(2).InexactFloat64(),
		OrderCount:  len(orders),
		TopProducts: top,
		SalesByDay:  salesByDay,
	}, nil
}
