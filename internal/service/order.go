package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artmarket-storefront/internal/client"
	"artmarket-storefront/internal/dto"
	"artmarket-storefront/internal/model"
	"artmarket-storefront/internal/repository"

	"github.com/labstack/gommon/log"
)

type OrderService interface {
	View(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error)
	Pay(ctx context.Context, session *model.Session, orderID, gateway string, req *dto.PayRequest) (*dto.OrderView, error)
	Ship(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error)
	ConfirmReceipt(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error)
	OpenDispute(ctx context.Context, session *model.Session, orderID string, req *dto.DisputeRequest) (*dto.OrderView, error)
	ResolveDispute(ctx context.Context, session *model.Session, orderID string, req *dto.ResolveDisputeRequest) (*dto.OrderView, error)

	ListMine(ctx context.Context, session *model.Session) ([]model.Order, error)
	ListSeller(ctx context.Context, session *model.Session) ([]model.Order, error)
	ListAll(ctx context.Context, session *model.Session) ([]model.Order, error)
	ListDisputes(ctx context.Context, session *model.Session) ([]model.OrderDispute, error)

	Gateways() []string
	PaymentKeys(ctx context.Context) (*dto.PaymentKeysResponse, error)
}

type orderServiceImpl struct {
	marketplace client.MarketplaceClient
	paymentRepo repository.PaymentRepository
	providers   map[string]PaymentProvider
	gateways    []string
	inflight    *inflight
}

func NewOrderService(
	marketplace client.MarketplaceClient,
	paymentRepo repository.PaymentRepository,
	providers ...PaymentProvider,
) OrderService {
	s := &orderServiceImpl{
		marketplace: marketplace,
		paymentRepo: paymentRepo,
		providers:   make(map[string]PaymentProvider, len(providers)),
		inflight:    newInflight(),
	}
	for _, p := range providers {
		s.providers[p.Gateway()] = p
		s.gateways = append(s.gateways, p.Gateway())
	}
	return s
}

func (s *orderServiceImpl) Gateways() []string {
	return s.gateways
}

func (s *orderServiceImpl) View(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	order, err := s.marketplace.GetOrder(ctx, session.Token, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	return BuildOrderView(order, ViewerOf(session), s.gateways), nil
}

// runAction is the common shape of every order action: check the current
// view offers it, hold the control while the single mutation runs, then
// re-fetch. A failed mutation leaves nothing changed locally.
func (s *orderServiceImpl) runAction(
	ctx context.Context,
	session *model.Session,
	orderID string,
	action Action,
	mutate func(order *model.Order) error,
) (*dto.OrderView, error) {
	view, err := s.View(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	if !allows(view, action) {
		return nil, fmt.Errorf("%w: %s", ErrActionNotAllowed, action)
	}

	key := inflightKey(orderID, action)
	if !s.inflight.acquire(key) {
		return nil, fmt.Errorf("%w: %s", ErrActionInFlight, action)
	}
	if err := s.withSlot(key, view.Order, mutate); err != nil {
		log.Warnf("order %s: %s failed: %v", orderID, action, err)
		return nil, err
	}

	return s.View(ctx, session, orderID)
}

// withSlot runs fn while holding the in-flight slot, releasing it even if fn panics.
func (s *orderServiceImpl) withSlot(key string, order *model.Order, fn func(order *model.Order) error) error {
	defer s.inflight.release(key)
	return fn(order)
}

func (s *orderServiceImpl) Pay(ctx context.Context, session *model.Session, orderID, gateway string, req *dto.PayRequest) (*dto.OrderView, error) {
	provider, ok := s.providers[gateway]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, gateway)
	}
	reference, err := provider.Reference(req)
	if err != nil {
		return nil, err
	}

	return s.runAction(ctx, session, orderID, ActionPay, func(order *model.Order) error {
		result, err := s.confirmPayment(ctx, provider, order, reference)
		if err != nil {
			return err
		}

		if _, err := s.marketplace.PayOrder(ctx, session.Token, order.ID, result); err != nil {
			return fmt.Errorf("marketplace pay order: %w", err)
		}

		if err := s.paymentRepo.MarkReported(ctx, gateway, reference); err != nil {
			log.Errorf("mark payment %s/%s reported: %v", gateway, reference, err)
		}
		return nil
	})
}

// confirmPayment asks the gateway once per reference. A reference already
// confirmed for this order is replayed from the payment record, so a retry
// after a failed pay call does not charge twice.
func (s *orderServiceImpl) confirmPayment(ctx context.Context, provider PaymentProvider, order *model.Order, reference string) (*model.PaymentResult, error) {
	record, err := s.paymentRepo.Find(ctx, provider.Gateway(), reference)
	switch {
	case err == nil:
		if record.OrderID != order.ID {
			return nil, fmt.Errorf("%w: payment reference belongs to another order", ErrValidation)
		}
		return record.Result(), nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find payment record: %w", err)
	}

	result, err := provider.Confirm(ctx, order, reference)
	if err != nil {
		return nil, err
	}

	err = s.paymentRepo.Create(ctx, &model.PaymentRecord{
		Gateway:       provider.Gateway(),
		Reference:     reference,
		OrderID:       order.ID,
		TransactionID: result.ID,
		Status:        result.Status,
		UpdateTime:    result.UpdateTime,
		EmailAddress:  result.EmailAddress,
	})
	if err != nil {
		log.Errorf("store payment record %s/%s: %v", provider.Gateway(), reference, err)
	}

	return result, nil
}

func (s *orderServiceImpl) Ship(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error) {
	return s.runAction(ctx, session, orderID, ActionShip, func(order *model.Order) error {
		if _, err := s.marketplace.ShipOrder(ctx, session.Token, order.ID); err != nil {
			return fmt.Errorf("marketplace ship order: %w", err)
		}
		return nil
	})
}

func (s *orderServiceImpl) ConfirmReceipt(ctx context.Context, session *model.Session, orderID string) (*dto.OrderView, error) {
	return s.runAction(ctx, session, orderID, ActionMarkDelivered, func(order *model.Order) error {
		if _, err := s.marketplace.ConfirmReceipt(ctx, session.Token, order.ID); err != nil {
			return fmt.Errorf("marketplace confirm receipt: %w", err)
		}
		return nil
	})
}

func (s *orderServiceImpl) OpenDispute(ctx context.Context, session *model.Session, orderID string, req *dto.DisputeRequest) (*dto.OrderView, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: dispute reason is required", ErrValidation)
	}

	return s.runAction(ctx, session, orderID, ActionOpenDispute, func(order *model.Order) error {
		_, err := s.marketplace.CreateDispute(ctx, session.Token, order.ID, &client.DisputeInput{
			Reason:      strings.TrimSpace(req.Reason),
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			return fmt.Errorf("marketplace create dispute: %w", err)
		}
		return nil
	})
}

func (s *orderServiceImpl) ResolveDispute(ctx context.Context, session *model.Session, orderID string, req *dto.ResolveDisputeRequest) (*dto.OrderView, error) {
	if strings.TrimSpace(req.Resolution) == "" {
		return nil, fmt.Errorf("%w: resolution is required", ErrValidation)
	}

	return s.runAction(ctx, session, orderID, ActionResolveDispute, func(order *model.Order) error {
		_, err := s.marketplace.UpdateDispute(ctx, session.Token, order.ID, &client.DisputeUpdateInput{
			Status:     model.DisputeStatusResolved,
			Resolution: strings.TrimSpace(req.Resolution),
		})
		if err != nil {
			return fmt.Errorf("marketplace update dispute: %w", err)
		}
		return nil
	})
}

func (s *orderServiceImpl) ListMine(ctx context.Context, session *model.Session) ([]model.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.marketplace.ListMyOrders(ctx, session.Token)
}

func (s *orderServiceImpl) ListSeller(ctx context.Context, session *model.Session) ([]model.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !session.IsSeller && !session.IsAdmin {
		return nil, ErrForbidden
	}
	return s.marketplace.ListSellerOrders(ctx, session.Token)
}

func (s *orderServiceImpl) ListAll(ctx context.Context, session *model.Session) ([]model.Order, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !session.IsAdmin {
		return nil, ErrForbidden
	}
	return s.marketplace.ListOrders(ctx, session.Token)
}

func (s *orderServiceImpl) ListDisputes(ctx context.Context, session *model.Session) ([]model.OrderDispute, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !session.IsAdmin {
		return nil, ErrForbidden
	}
	return s.marketplace.ListDisputes(ctx, session.Token)
}

// PaymentKeys collects the public keys of the configured gateways. A gateway
// whose key cannot be fetched is left out.
func (s *orderServiceImpl) PaymentKeys(ctx context.Context) (*dto.PaymentKeysResponse, error) {
	keys := make(map[string]string, len(s.gateways))
	for _, gateway := range s.gateways {
		key, err := s.marketplace.PaymentKey(ctx, gateway)
		if err != nil {
			log.Warnf("payment key for %s: %v", gateway, err)
			continue
		}
		keys[gateway] = key
	}
	return &dto.PaymentKeysResponse{Keys: keys}, nil
}
