package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/validation"
)

const (
	PaymentMoMo = "momo"
	PaymentCard = "card"

	defaultCity     = "Kigali"
	defaultCurrency = "RWF"
)

type cartDrainer interface {
	Drain(ctx context.Context) (domain.CartState, error)
}

// Input is the checkout form.
type Input struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=momo card"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required,phone10"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city"`
}

// Prefill fills blank contact fields from the signed-in user.
func (in Input) Prefill(user *domain.User) Input {
	if user != nil {
		if strings.TrimSpace(in.Name) == "" {
			in.Name = user.Name
		}
		if strings.TrimSpace(in.Phone) == "" {
			in.Phone = user.Phone
		}
	}
	if strings.TrimSpace(in.City) == "" {
		in.City = defaultCity
	}
	return in
}

type Service struct {
	logger *zap.Logger
	now    func() time.Time
}

func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, now: time.Now}
}

// PlaceOrder simulates payment for the current cart and clears it. No money
// moves; the order is returned to the caller and not stored.
func (s *Service) PlaceOrder(ctx context.Context, c cartDrainer, in Input) (*domain.Order, error) {
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	phone, _ := validation.CleanPhone(in.Phone)

	state, clearErr := c.Drain(ctx)
	if len(state.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		Reference:     "RWG-" + strings.ToUpper(uuid.NewString()[:8]),
		Items:         state.Items,
		Total:         state.Total,
		Currency:      currencyOf(state.Items),
		PaymentMethod: in.PaymentMethod,
		Contact: domain.OrderContact{
			Name:    in.Name,
			Phone:   phone,
			Address: in.Address,
			City:    in.City,
		},
		PlacedAt: s.now().UTC(),
	}

	if clearErr != nil {
		s.logger.Warn("clear cart after checkout failed", zap.String("reference", order.Reference), zap.Error(clearErr))
	}
	s.logger.Info("order placed",
		zap.String("reference", order.Reference),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.Total),
		zap.String("payment_method", order.PaymentMethod))
	return order, nil
}

func currencyOf(items []domain.CartItem) string {
	for _, it := range items {
		if it.Currency != "" {
			return it.Currency
		}
	}
	return defaultCurrency
}
