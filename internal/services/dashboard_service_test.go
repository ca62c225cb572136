package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	orders := repositories.NewMemoryOrderRepository()
	service := services.NewDashboardService(orders, loc)

	line := func(name string, qty int) models.OrderItem {
		return models.OrderItem{ProductID: name, Name: name, Price: 1, Quantity: qty}
	}
	// 02:00 UTC on the 2nd is still the 1st in São Paulo (UTC-3).
	day1 := time.Date(2025, 3, 2, 2, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC)

	fixtures := []models.Order{
		{VendorID: "v", Total: 10.10, CreatedAt: day1, Status: models.OrderStatusNew, Items: []models.OrderItem{line("Tomate", 5), line("Alface", 2)}},
		{VendorID: "v", Total: 20.20, CreatedAt: day2, Status: models.OrderStatusCancelled, Items: []models.OrderItem{line("Banana", 5), line("Cenoura", 1)}},
		{VendorID: "v", Total: 0.30, CreatedAt: day2, Status: models.OrderStatusDelivered, Items: []models.OrderItem{line("Mel", 1), line("Ovo", 9), line("Queijo", 1)}},
		{VendorID: "other", Total: 999, CreatedAt: day2, Items: []models.OrderItem{line("Ovo", 100)}},
	}
	for i := range fixtures {
		require.NoError(t, orders.Create(ctx, &fixtures[i]))
	}

	summary, err := service.Summary(ctx, "v")
	require.NoError(t, err)

	// The cancelled order still counts towards every figure.
	assert.Equal(t, 30.60, summary.TotalSales)
	assert.Equal(t, 3, summary.OrderCount)
	assert.Equal(t, []services.ProductSales{
		{Name: "Ovo", Quantity: 9},
		{Name: "Banana", Quantity: 5},
		{Name: "Tomate", Quantity: 5},
		{Name: "Alface", Quantity: 2},
		{Name: "Cenoura", Quantity: 1},
	}, summary.TopProducts)
	assert.Equal(t, map[string]float64{"2025-03-01": 10.10, "2025-03-02": 20.50}, summary.SalesByDay)

	body, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_vendas": 30.6,
		"quantidade_pedidos": 3,
		"produtos_mais_vendidos": [["Ovo",9],["Banana",5],["Tomate",5],["Alface",2],["Cenoura",1]],
		"vendas_por_dia": {"2025-03-01": 10.1, "2025-03-02": 20.5}
	}`, string(body))
}

func TestDashboardService_Empty(t *testing.T) {
	service := services.NewDashboardService(repositories.NewMemoryOrderRepository(), nil)

	summary, err := service.Summary(context.Background(), "v")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSales)
	assert.Zero(t, summary.OrderCount)
	assert.Empty(t, summary.TopProducts)
	assert.Empty(t, summary.SalesByDay)

	body, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_vendas":0,"quantidade_pedidos":0,"produtos_mais_vendidos":[],"vendas_por_dia":{}}`, string(body))
}
