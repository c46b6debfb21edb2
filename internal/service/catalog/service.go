package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/cart"
	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/validation"
)

const defaultCurrency = "RWF"

// ErrSignedOut is returned when an authenticated call is made without a token.
var ErrSignedOut = errors.New("sign in required")

type remote interface {
	ListProducts(ctx context.Context, q apiclient.ProductQuery) ([]apiclient.Product, error)
	GetProduct(ctx context.Context, id string) (*apiclient.Product, error)
	ListCategories(ctx context.Context) ([]apiclient.Category, error)
	ListProductMedia(ctx context.Context, productID string) ([]apiclient.Media, error)
	ListProductFeedback(ctx context.Context, productID string) ([]apiclient.Feedback, error)
	CreateFeedback(ctx context.Context, token string, in apiclient.FeedbackRequest) (*apiclient.Feedback, error)
}

// Session is the caller identity used for authenticated catalog calls.
type Session interface {
	AccessToken() string
	Invalidate(ctx context.Context)
}

type cartAdder interface {
	AddItem(ctx context.Context, item domain.CartItem) error
}

type Service struct {
	api    remote
	logger *zap.Logger
}

func New(api remote, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

func (s *Service) List(ctx context.Context, q apiclient.ProductQuery) ([]apiclient.Product, error) {
	return s.api.ListProducts(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*apiclient.Product, error) {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Categories(ctx context.Context) ([]apiclient.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *Service) Media(ctx context.Context, productID string) ([]apiclient.Media, error) {
	return s.api.ListProductMedia(ctx, productID)
}

func (s *Service) Feedback(ctx context.Context, productID string) ([]apiclient.Feedback, error) {
	return s.api.ListProductFeedback(ctx, productID)
}

// FeedbackInput is a review as submitted by a signed-in visitor.
type FeedbackInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// PostFeedback submits a review with the session's token. A token rejected by
// the remote API ends the session.
func (s *Service) PostFeedback(ctx context.Context, sess Session, productID string, in FeedbackInput) (*apiclient.Feedback, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	token := sess.AccessToken()
	if token == "" {
		return nil, ErrSignedOut
	}

	fb, err := s.api.CreateFeedback(ctx, token, apiclient.FeedbackRequest{
		Product: apiclient.ID(productID),
		Rating:  in.Rating,
		Comment: in.Comment,
	})
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			s.logger.Info("feedback token rejected, ending session", zap.String("product_id", productID))
			sess.Invalidate(ctx)
		}
		return nil, err
	}
	return fb, nil
}

// AddToCart fetches productID and appends it to c as one line item.
func (s *Service) AddToCart(ctx context.Context, c cartAdder, productID string) (domain.CartItem, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return domain.CartItem{}, err
	}
	item := CartItemFromProduct(*p)
	if err := c.AddItem(ctx, item); err != nil {
		if cart.Rejected(err) {
			return domain.CartItem{}, err
		}
		s.logger.Warn("cart write-through failed", zap.String("product_id", productID), zap.Error(err))
	}
	return item, nil
}

// CartItemFromProduct converts a catalog product into a cart line.
func CartItemFromProduct(p apiclient.Product) domain.CartItem {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return domain.CartItem{
		ID:       string(p.ID),
		Name:     p.Name,
		Price:    int64(p.Price),
		Image:    p.Image,
		Category: string(p.Category),
		Currency: currency,
	}
}
