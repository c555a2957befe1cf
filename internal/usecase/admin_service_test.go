package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos-agent/internal/domain"
	"pedidos-agent/internal/infrastructure/backend"
)

type fakeAdminGateway struct {
	created *domain.MenuItem
	updated *backend.MenuItemUpdate
	deleted string
	isOpen  *bool
}

func (g *fakeAdminGateway) Stats(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{PendingOrders: 3}, nil
}

func (g *fakeAdminGateway) Menu(context.Context) ([]domain.MenuItem, error) {
	return []domain.MenuItem{{ID: "m1", Name: "X-Burger"}}, nil
}

func (g *fakeAdminGateway) CreateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	g.created = &item
	return item, nil
}

func (g *fakeAdminGateway) UpdateMenuItem(_ context.Context, update backend.MenuItemUpdate) (domain.MenuItem, error) {
	g.updated = &update
	return domain.MenuItem{ID: update.ID}, nil
}

func (g *fakeAdminGateway) DeleteMenuItem(_ context.Context, id string) error {
	g.deleted = id
	return nil
}

func (g *fakeAdminGateway) StoreStatus(context.Context) (domain.StoreStatus, error) {
	return domain.StoreStatus{IsOpen: true}, nil
}

func (g *fakeAdminGateway) SetStoreStatus(_ context.Context, isOpen bool) error {
	g.isOpen = &isOpen
	return nil
}

func TestCreateMenuItemValidation(t *testing.T) {
	gw := &fakeAdminGateway{}
	svc := &AdminService{Gateway: gw}
	ctx := context.Background()

	_, err := svc.CreateMenuItem(ctx, domain.MenuItem{Name: "X-Burger", Price: 25})
	assert.ErrorIs(t, err, ErrBadRequest("menu item id required"))

	_, err = svc.CreateMenuItem(ctx, domain.MenuItem{ID: "m1", Price: 25})
	assert.ErrorIs(t, err, ErrBadRequest("menu item name required"))

	_, err = svc.CreateMenuItem(ctx, domain.MenuItem{ID: "m1", Name: "X-Burger", Price: -1})
	assert.ErrorIs(t, err, ErrBadRequest("menu item price must not be negative"))
	assert.Nil(t, gw.created)

	item, err := svc.CreateMenuItem(ctx, domain.MenuItem{ID: "m1", Name: "X-Burger", Price: 25})
	require.NoError(t, err)
	assert.Equal(t, "m1", item.ID)
	require.NotNil(t, gw.created)
}

func TestUpdateMenuItemValidation(t *testing.T) {
	gw := &fakeAdminGateway{}
	svc := &AdminService{Gateway: gw}
	ctx := context.Background()

	_, err := svc.UpdateMenuItem(ctx, backend.MenuItemUpdate{})
	assert.ErrorIs(t, err, ErrBadRequest("menu item id required"))

	bad := -5.0
	_, err = svc.UpdateMenuItem(ctx, backend.MenuItemUpdate{ID: "m1", Price: &bad})
	assert.ErrorIs(t, err, ErrBadRequest("menu item price must not be negative"))
	assert.Nil(t, gw.updated)

	price := 30.0
	_, err = svc.UpdateMenuItem(ctx, backend.MenuItemUpdate{ID: "m1", Price: &price})
	require.NoError(t, err)
	require.NotNil(t, gw.updated)
	assert.Equal(t, "m1", gw.updated.ID)
}

func TestDeleteMenuItemRequiresID(t *testing.T) {
	gw := &fakeAdminGateway{}
	svc := &AdminService{Gateway: gw}

	err := svc.DeleteMenuItem(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrBadRequest("menu item id required"))

	require.NoError(t, svc.DeleteMenuItem(context.Background(), "m1"))
	assert.Equal(t, "m1", gw.deleted)
}

type fakeSupportGateway struct {
	whatsapp [][2]string
	bot      [][2]string
}

func (g *fakeSupportGateway) PriorityConversations(context.Context) ([]domain.PriorityConversation, error) {
	return []domain.PriorityConversation{{Phone: "5511999999999"}}, nil
}

func (g *fakeSupportGateway) SendWhatsApp(_ context.Context, phone, message string) error {
	g.whatsapp = append(g.whatsapp, [2]string{phone, message})
	return nil
}

func (g *fakeSupportGateway) SendCustomerMessage(_ context.Context, phone, message string) error {
	g.bot = append(g.bot, [2]string{phone, message})
	return nil
}

func TestSupportMessageValidation(t *testing.T) {
	gw := &fakeSupportGateway{}
	svc := &SupportService{Gateway: gw}
	ctx := context.Background()

	assert.ErrorIs(t, svc.SendWhatsApp(ctx, "", "hi"), ErrBadRequest("phone required"))
	assert.ErrorIs(t, svc.SendWhatsApp(ctx, "5511999999999", "  "), ErrBadRequest("message required"))
	assert.ErrorIs(t, svc.SendCustomerMessage(ctx, "", "hi"), ErrBadRequest("phone required"))
	assert.Empty(t, gw.whatsapp)
	assert.Empty(t, gw.bot)

	require.NoError(t, svc.SendWhatsApp(ctx, "5511999999999", "order is ready"))
	require.NoError(t, svc.SendCustomerMessage(ctx, "5511999999999", "on the way"))
	assert.Len(t, gw.whatsapp, 1)
	assert.Len(t, gw.bot, 1)
}
