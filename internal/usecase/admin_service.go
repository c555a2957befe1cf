package usecase

import (
	"context"
	"strings"

	"pedidos-agent/internal/domain"
	"pedidos-agent/internal/infrastructure/backend"
)

type AdminGateway interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	Menu(ctx context.Context) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, update backend.MenuItemUpdate) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
	StoreStatus(ctx context.Context) (domain.StoreStatus, error)
	SetStoreStatus(ctx context.Context, isOpen bool) error
}

// AdminService fronts the dashboard, menu and store-hours operations.
type AdminService struct {
	Gateway AdminGateway
}

func (s *AdminService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.Gateway.Stats(ctx)
}

func (s *AdminService) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.Gateway.Menu(ctx)
}

func (s *AdminService) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if strings.TrimSpace(item.ID) == "" {
		return domain.MenuItem{}, ErrBadRequest("menu item id required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return domain.MenuItem{}, ErrBadRequest("menu item name required")
	}
	if item.Price < 0 {
		return domain.MenuItem{}, ErrBadRequest("menu item price must not be negative")
	}
	return s.Gateway.CreateMenuItem(ctx, item)
}

func (s *AdminService) UpdateMenuItem(ctx context.Context, update backend.MenuItemUpdate) (domain.MenuItem, error) {
	if strings.TrimSpace(update.ID) == "" {
		return domain.MenuItem{}, ErrBadRequest("menu item id required")
	}
	if update.Price != nil && *update.Price < 0 {
		return domain.MenuItem{}, ErrBadRequest("menu item price must not be negative")
	}
	return s.Gateway.UpdateMenuItem(ctx, update)
}

func (s *AdminService) DeleteMenuItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBadRequest("menu item id required")
	}
	return s.Gateway.DeleteMenuItem(ctx, id)
}

func (s *AdminService) StoreStatus(ctx context.Context) (domain.StoreStatus, error) {
	return s.Gateway.StoreStatus(ctx)
}

func (s *AdminService) SetStoreStatus(ctx context.Context, isOpen bool) error {
	return s.Gateway.SetStoreStatus(ctx, isOpen)
}
