package service

import (
	"context"
	"fmt"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

type VendorService struct {
	vendors port.VendorRepository
}

func NewVendorService(vendors port.VendorRepository) *VendorService {
	return &VendorService{vendors: vendors}
}

func (s *VendorService) CreateVendor(ctx context.Context, name string, active bool) (*domain.Vendor, error) {
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	vendor := &domain.Vendor{Name: name, Active: active}
	if err := s.vendors.CreateVendor(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return vendor, nil
}

func (s *VendorService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.vendors.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}
