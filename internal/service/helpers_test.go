package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/config"
	"artmarket-storefront/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(config.Database{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var errNotStubbed = errors.New("not stubbed")

// fakeMarketplace stubs the backend calls the services make. Methods that a
// test does not stub panic through the nil embedded interface.
type fakeMarketplace struct {
	client.MarketplaceClient

	mu       sync.Mutex
	products map[string]*model.Product
	orders   map[string]*model.Order
	user     *model.User

	created   []*client.CreateOrderInput
	paid      []*model.PaymentResult
	payErr    error
	shipErr   error
	shipHook  func()
	actionErr error
	disputes  []*client.DisputeInput
	updates   []*client.DisputeUpdateInput
	logoutErr error
	logouts   int
}

func newFakeMarketplace() *fakeMarketplace {
	return &fakeMarketplace{
		products: map[string]*model.Product{},
		orders:   map[string]*model.Order{},
	}
}

func (f *fakeMarketplace) GetProduct(_ context.Context, productID string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "Product not found"}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeMarketplace) CreateOrder(_ context.Context, _ string, in *client.CreateOrderInput) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return &model.Order{ID: "order-new", OrderItems: in.OrderItems, TotalPrice: in.TotalPrice}, nil
}

func (f *fakeMarketplace) GetOrder(_ context.Context, _ string, orderID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "Order not found"}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeMarketplace) PayOrder(_ context.Context, _ string, orderID string, result *model.PaymentResult) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payErr != nil {
		return nil, f.payErr
	}
	f.paid = append(f.paid, result)
	o := f.orders[orderID]
	o.IsPaid = true
	o.PaymentResult = result
	return o, nil
}

func (f *fakeMarketplace) ShipOrder(_ context.Context, _ string, orderID string) (*model.Order, error) {
	if f.shipHook != nil {
		f.shipHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shipErr != nil {
		return nil, f.shipErr
	}
	o := f.orders[orderID]
	o.IsShipped = true
	o.Status = model.OrderStatusShipped
	return o, nil
}

func (f *fakeMarketplace) ConfirmReceipt(_ context.Context, _ string, orderID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	o := f.orders[orderID]
	o.Status = model.OrderStatusDelivered
	return o, nil
}

func (f *fakeMarketplace) CreateDispute(_ context.Context, _ string, orderID string, in *client.DisputeInput) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.disputes = append(f.disputes, in)
	o := f.orders[orderID]
	o.Dispute = &model.Dispute{Status: model.DisputeStatusOpen, Reason: in.Reason, Description: in.Description}
	return o, nil
}

func (f *fakeMarketplace) UpdateDispute(_ context.Context, _ string, orderID string, in *client.DisputeUpdateInput) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.updates = append(f.updates, in)
	o := f.orders[orderID]
	o.Dispute.Status = in.Status
	o.Dispute.Resolution = in.Resolution
	return o, nil
}

func (f *fakeMarketplace) Login(_ context.Context, _, _ string) (*model.User, error) {
	if f.user == nil {
		return nil, &client.APIError{StatusCode: 401, Message: "Invalid email or password"}
	}
	return f.user, nil
}

func (f *fakeMarketplace) Logout(_ context.Context, _ string) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeMarketplace) ResetPassword(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeMarketplace) PaymentKey(_ context.Context, gateway string) (string, error) {
	if gateway == "paypal" {
		return "paypal-client-id", nil
	}
	return "", errNotStubbed
}
