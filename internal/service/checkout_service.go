package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/backend"
	"github.com/koryushka0/shopfront/internal/cart"
	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/pkg/errors"
)

// PhoneDigits is the exact digit count a phone number must contain after
// stripping everything else.
const PhoneDigits = 11

// SuccessResetDelay is how long the caller should wait before resetting
// the UI after a successful order.
const SuccessResetDelay = 4 * time.Second

// OrderSubmitter is the backend surface the checkout flow needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req backend.OrderRequest) error
}

type checkoutService struct {
	engine  *cart.Engine
	catalog *catalog.Catalog
	backend OrderSubmitter
	logger  *zap.Logger

	mu       sync.Mutex
	state    domain.CheckoutState
	inFlight bool
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(engine *cart.Engine, cat *catalog.Catalog, submitter OrderSubmitter, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		engine:  engine,
		catalog: cat,
		backend: submitter,
		logger:  logger,
		state:   domain.CheckoutIdle,
	}
}

// State returns the current checkout state.
func (s *checkoutService) State() domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit runs one checkout attempt: validate, build the order draft from
// the selected lines, post it, and on success clear the purchased lines.
// A second Submit while one is outstanding is rejected without side
// effects. On failure the cart is left untouched and the flow is re-armed
// for a retry with the same form.
func (s *checkoutService) Submit(ctx context.Context, form CheckoutForm) (*domain.OrderDraft, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, &errors.ErrSubmissionInFlight{}
	}
	s.inFlight = true
	if err := s.transitionLocked(domain.CheckoutValidating); err != nil {
		s.inFlight = false
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	draft, err := s.validateAndBuild(form)
	if err != nil {
		s.setState(domain.CheckoutIdle)
		return nil, err
	}

	s.setState(domain.CheckoutSubmitting)

	req := backend.OrderRequest{
		Name:          draft.Customer.Name,
		Phone:         draft.Customer.Phone,
		Comment:       draft.Customer.Comment,
		Address:       draft.Customer.Address,
		PaymentMethod: string(draft.PaymentMethod),
		CashChange:    draft.Customer.CashChange,
		Items:         draft.Items,
		DeliveryCost:  draft.DeliveryCost,
		TotalPrice:    draft.Total,
	}

	if err := s.backend.SubmitOrder(ctx, req); err != nil {
		s.setState(domain.CheckoutFailed)
		s.logger.Error("Order submission failed", zap.Error(err))
		return nil, err
	}

	s.setState(domain.CheckoutSucceeded)
	s.engine.RemoveSelected()
	s.logger.Info("Order submitted",
		zap.Int("items", len(draft.Items)),
		zap.Int("total", draft.Total),
	)

	// Succeeded is terminal for the attempt; re-arm for the next order.
	s.reset()
	return draft, nil
}

func (s *checkoutService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.CheckoutIdle
}

func (s *checkoutService) validateAndBuild(form CheckoutForm) (*domain.OrderDraft, error) {
	fields := make(map[string]string)

	name := strings.TrimSpace(form.Name)
	if name == "" {
		fields["name"] = "this field is required"
	}

	phone := strings.TrimSpace(form.Phone)
	if phone == "" {
		fields["phone"] = "this field is required"
	} else if countDigits(phone) != PhoneDigits {
		fields["phone"] = "enter a valid phone number"
	}

	delivery := domain.DeliveryMethod(form.DeliveryMethod)
	if !delivery.IsValid() {
		fields["delivery_method"] = "must be courier or pickup"
	}

	payment := domain.PaymentMethod(form.PaymentMethod)
	if !payment.IsValid() {
		fields["payment_method"] = "must be cash or card"
	}

	address := strings.TrimSpace(form.Address)
	if delivery == domain.DeliveryCourier && address == "" {
		fields["address"] = "enter a delivery address"
	}

	selected := s.engine.SelectedLines()
	if len(selected) == 0 {
		fields["items"] = "no items selected"
	}

	if len(fields) > 0 {
		return nil, &errors.ErrValidation{Fields: fields}
	}

	if delivery == domain.DeliveryPickup {
		address = domain.PickupAddress
	}

	items := make([]domain.OrderItem, 0, len(selected))
	subtotal := 0
	for _, line := range selected {
		product, ok := s.catalog.Lookup(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, domain.OrderItem{
			Name:     product.Name,
			Quantity: line.Quantity,
			Price:    product.Price * line.Quantity,
		})
		subtotal += product.Price * line.Quantity
	}

	deliveryCost := cart.DeliveryCost(delivery, subtotal)

	return &domain.OrderDraft{
		Customer: domain.CustomerInfo{
			Name:       name,
			Phone:      phone,
			Address:    address,
			Comment:    form.Comment,
			CashChange: form.CashChange,
		},
		DeliveryMethod: delivery,
		PaymentMethod:  payment,
		Items:          items,
		Subtotal:       subtotal,
		DeliveryCost:   deliveryCost,
		Total:          subtotal + deliveryCost,
	}, nil
}

func (s *checkoutService) setState(next domain.CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitionLocked(next)
}

func (s *checkoutService) transitionLocked(next domain.CheckoutState) error {
	if !s.state.CanTransitionTo(next) {
		err := &errors.ErrInvalidStateTransition{From: s.state, To: next}
		s.logger.Warn("Checkout state transition rejected", zap.Error(err))
		return err
	}
	s.state = next
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
