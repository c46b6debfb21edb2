package admin

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
	defaultCurrency  = "RWF"
	placeholderImage = "placeholder"
)

type siteStore interface {
	CustomPrinting(ctx context.Context) bool
	SetCustomPrinting(ctx context.Context, enabled bool) error
	Listings(ctx context.Context) []domain.Listing
	UpdateListings(ctx context.Context, fn func([]domain.Listing) ([]domain.Listing, error)) error
	Requests(ctx context.Context) []domain.CustomRequest
	UpdateRequests(ctx context.Context, fn func([]domain.CustomRequest) ([]domain.CustomRequest, error)) error
	Messages(ctx context.Context) []domain.ContactMessage
	UpdateMessages(ctx context.Context, fn func([]domain.ContactMessage) ([]domain.ContactMessage, error)) error
}

type Service struct {
	site   siteStore
	logger *zap.Logger
	now    func() time.Time
}

func New(site siteStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{site: site, logger: logger, now: time.Now}
}

// ListingInput is the admin product form.
type ListingInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Price       int64  `json:"price" validate:"gte=0"`
	Currency    string `json:"currency"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Available   *bool  `json:"available"`
}

func (in ListingInput) normalize() ListingInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if strings.TrimSpace(in.Currency) == "" {
		in.Currency = defaultCurrency
	}
	if strings.TrimSpace(in.Image) == "" {
		in.Image = placeholderImage
	}
	return in
}

func (in ListingInput) apply(l domain.Listing) domain.Listing {
	l.Name = in.Name
	l.Price = in.Price
	l.Currency = in.Currency
	l.Description = in.Description
	l.Category = in.Category
	l.Image = in.Image
	l.Available = in.Available == nil || *in.Available
	return l
}

func (s *Service) Listings(ctx context.Context) []domain.Listing {
	return s.site.Listings(ctx)
}

func (s *Service) CreateListing(ctx context.Context, in ListingInput) (*domain.Listing, error) {
	in = in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	created := in.apply(domain.Listing{ID: uuid.NewString(), CreatedAt: s.now().UTC()})

	err := s.site.UpdateListings(ctx, func(list []domain.Listing) ([]domain.Listing, error) {
		return append(list, created), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("listing created", zap.String("listing_id", created.ID))
	return &created, nil
}

// UpdateListing replaces the editable fields of listing id, keeping its id and
// creation time.
func (s *Service) UpdateListing(ctx context.Context, id string, in ListingInput) (*domain.Listing, error) {
	in = in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated domain.Listing
	err := s.site.UpdateListings(ctx, func(list []domain.Listing) ([]domain.Listing, error) {
		for i := range list {
			if list[i].ID == id {
				list[i] = in.apply(list[i])
				updated = list[i]
				return list, nil
			}
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteListing(ctx context.Context, id string) error {
	return s.site.UpdateListings(ctx, func(list []domain.Listing) ([]domain.Listing, error) {
		return without(list, func(l domain.Listing) bool { return l.ID == id })
	})
}

func (s *Service) Requests(ctx context.Context) []domain.CustomRequest {
	return s.site.Requests(ctx)
}

func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	return s.site.UpdateRequests(ctx, func(list []domain.CustomRequest) ([]domain.CustomRequest, error) {
		return without(list, func(r domain.CustomRequest) bool { return r.ID == id })
	})
}

func (s *Service) Messages(ctx context.Context) []domain.ContactMessage {
	return s.site.Messages(ctx)
}

func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	return s.site.UpdateMessages(ctx, func(list []domain.ContactMessage) ([]domain.ContactMessage, error) {
		return without(list, func(m domain.ContactMessage) bool { return m.ID == id })
	})
}

func (s *Service) CustomPrinting(ctx context.Context) bool {
	return s.site.CustomPrinting(ctx)
}

func (s *Service) SetCustomPrinting(ctx context.Context, enabled bool) error {
	if err := s.site.SetCustomPrinting(ctx, enabled); err != nil {
		return err
	}
	s.logger.Info("custom printing toggled", zap.Bool("enabled", enabled))
	return nil
}

// without drops every element matching match. It fails with ErrNotFound when
// nothing matched.
func without[T any](list []T, match func(T) bool) ([]T, error) {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !match(v) {
			out = append(out, v)
		}
	}
	if len(out) == len(list) {
		return nil, domain.ErrNotFound
	}
	return out, nil
}
