package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feira/internal/models"
	"feira/internal/repositories"
)

// ProductInput carries the mutable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Category    string
	Image       *string
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: nome is required", ErrValidation)
	case in.Price < 0:
		return fmt.Errorf("%w: preco must not be negative", ErrValidation)
	case in.Quantity < 0:
		return fmt.Errorf("%w: quantidade must not be negative", ErrValidation)
	}
	return nil
}

// ProductList is one page of a vendor's catalog.
type ProductList struct {
	Total int64            `json:"total"`
	Items []models.Product `json:"items"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// CreateProduct adds a product to the vendor's catalog.
func (s *ProductService) CreateProduct(ctx context.Context, vendorID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product := &models.Product{
		VendorID:    vendorID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Image:       in.Image,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// ListMyProducts returns one page of the vendor's products in insertion order.
func (s *ProductService) ListMyProducts(ctx context.Context, vendorID string, page Page) (*ProductList, error) {
	items, total, err := s.repo.ListByVendor(ctx, vendorID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &ProductList{Total: total, Items: items}, nil
}

// UpdateProduct replaces every mutable field of a product the vendor owns.
func (s *ProductService) UpdateProduct(ctx context.Context, vendorID, productID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product := &models.Product{
		ID:          productID,
		VendorID:    vendorID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Image:       in.Image,
	}
	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product the vendor owns.
func (s *ProductService) DeleteProduct(ctx context.Context, vendorID, productID string) error {
	if err := s.repo.Delete(ctx, vendorID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
