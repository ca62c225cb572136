package services_test

import (
	"context"
	"fmt"
	"testing"

	"feira/internal/models"
	"feira/internal/repositories"
	"feira/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	in := services.ProductInput{Name: "Tomate", Price: 8.5, Quantity: 25, Category: "hortifruti"}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.VendorID == "vendor-1" && p.Name == "Tomate" && p.Quantity == 25
	})).Return(nil).Once()
	product, err := service.CreateProduct(ctx, "vendor-1", in)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", product.VendorID)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(ctx, "vendor-1", in)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	service := services.NewProductService(new(MockProductRepository))

	for _, in := range []services.ProductInput{
		{Name: "", Price: 1, Quantity: 1},
		{Name: "x", Price: -1, Quantity: 1},
		{Name: "x", Price: 1, Quantity: -1},
	} {
		_, err := service.CreateProduct(context.Background(), "vendor-1", in)
		assert.ErrorIs(t, err, services.ErrValidation)
	}
}

func TestProductService_ListMyProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expected := []models.Product{{ID: "1", Name: "Alface"}, {ID: "2", Name: "Couve"}}
	mockRepo.On("ListByVendor", ctx, "vendor-1", 0, 20).Return(expected, int64(7), nil).Once()

	list, err := service.ListMyProducts(ctx, "vendor-1", services.NewPage(-5, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(7), list.Total)
	assert.Equal(t, expected, list.Items)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotOwned(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == "p-1" && p.VendorID == "intruder"
	})).Return(fmt.Errorf("product p-1: %w", repositories.ErrNotFound)).Once()

	_, err := service.UpdateProduct(ctx, "intruder", "p-1", services.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	// Test successful deletion
	mockRepo.On("Delete", ctx, "vendor-1", "p-1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "vendor-1", "p-1"))

	// Test deletion failure (product not owned)
	mockRepo.On("Delete", ctx, "vendor-2", "p-1").Return(fmt.Errorf("product p-1: %w", repositories.ErrNotFound)).Once()
	err := service.DeleteProduct(ctx, "vendor-2", "p-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CrossVendorWithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()
	service := services.NewProductService(repo)

	product, err := service.CreateProduct(ctx, "vendor-a", services.ProductInput{Name: "Queijo", Price: 30, Quantity: 4, Category: "laticinios"})
	require.NoError(t, err)

	_, err = service.UpdateProduct(ctx, "vendor-b", product.ID, services.ProductInput{Name: "Hacked", Price: 0})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, service.DeleteProduct(ctx, "vendor-b", product.ID), services.ErrNotFound)

	stored, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Queijo", stored.Name)

	updated, err := service.UpdateProduct(ctx, "vendor-a", product.ID, services.ProductInput{Name: "Queijo minas", Price: 32, Quantity: 0, Category: "laticinios"})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, product.CreatedAt, updated.CreatedAt)
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 20, 0, 20},
		{-3, 0, 0, 1},
		{10, 500, 10, 100},
		{5, 100, 5, 100},
	}
	for _, tt := range tests {
		p := services.NewPage(tt.skip, tt.limit)
		assert.Equal(t, tt.wantSkip, p.Skip)
		assert.Equal(t, tt.wantLimit, p.Limit)
	}
}
