package services

import (
	"context"
	"errors"
	"fmt"

	"feira/internal/models"
	"feira/internal/repositories"
)

// StorePage is the public page of one storefront.
type StorePage struct {
	Vendor   models.Vendor    `json:"vendor"`
	Products []models.Product `json:"products"`
}

// StoreService serves the public storefront reads.
type StoreService struct {
	vendorRepo  repositories.VendorRepository
	productRepo repositories.ProductRepository
}

func NewStoreService(vendorRepo repositories.VendorRepository, productRepo repositories.ProductRepository) *StoreService {
	return &StoreService{vendorRepo: vendorRepo, productRepo: productRepo}
}

// ListStores returns every storefront, newest first, with its count of
// products still in stock.
func (s *StoreService) ListStores(ctx context.Context) ([]models.StoreSummary, error) {
	vendors, err := s.vendorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	stores := make([]models.StoreSummary, 0, len(vendors))
	for _, v := range vendors {
		count, err := s.productRepo.CountInStock(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count products of store %s: %w", v.StoreName, err)
		}
		stores = append(stores, models.StoreSummary{
			ID:           v.ID,
			Name:         v.Name,
			StoreName:    v.StoreName,
			Phone:        v.Phone,
			ProductCount: count,
			CreatedAt:    v.CreatedAt,
		})
	}
	return stores, nil
}

func (s *StoreService) vendorByStoreName(ctx context.Context, storeName string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByStoreName(ctx, storeName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: store %s", ErrNotFound, storeName)
		}
		return nil, fmt.Errorf("failed to load store %s: %w", storeName, err)
	}
	return vendor, nil
}

// GetStore returns the vendor behind storeName and its in-stock products.
func (s *StoreService) GetStore(ctx context.Context, storeName string) (*StorePage, error) {
	vendor, err := s.vendorByStoreName(ctx, storeName)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListInStock(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products of store %s: %w", storeName, err)
	}
	return &StorePage{Vendor: *vendor, Products: products}, nil
}

// GetCategories returns the sorted distinct categories of the store's whole catalog.
func (s *StoreService) GetCategories(ctx context.Context, storeName string) ([]string, error) {
	vendor, err := s.vendorByStoreName(ctx, storeName)
	if err != nil {
		return nil, err
	}
	categories, err := s.productRepo.Categories(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of store %s: %w", storeName, err)
	}
	return categories, nil
}
