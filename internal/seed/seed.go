package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/importer"
)

type listingSeed struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Category    string
	Image       string
}

var listings = []listingSeed{
	{
		ID:          "seed-geometric-planter",
		Name:        "Geometric Planter",
		Description: "Faceted planter printed in PLA, sized for succulents",
		Price:       15000,
		Category:    "Home Decor",
		Image:       "/images/planter.png",
	},
	{
		ID:          "seed-phone-stand",
		Name:        "Minimalist Phone Stand",
		Description: "Single-piece stand for phones and small tablets",
		Price:       8000,
		Category:    "Gadgets",
		Image:       "/images/stand.png",
	},
	{
		ID:          "seed-articulated-dragon",
		Name:        "Articulated Dragon",
		Description: "Print-in-place dragon in silk PLA",
		Price:       25000,
		Category:    "Toys",
		Image:       "/images/dragon.png",
	},
}

// Apply writes the demo listings into the site scope. It is idempotent:
// listings are keyed by fixed IDs and keep their original creation time.
func Apply(ctx context.Context, store importer.ListingStore, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now().UTC()
	incoming := make([]domain.Listing, 0, len(listings))
	for _, s := range listings {
		incoming = append(incoming, domain.Listing{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Currency:    "RWF",
			Category:    s.Category,
			Image:       s.Image,
			Available:   true,
			CreatedAt:   now,
		})
	}

	err := store.UpdateListings(ctx, func(existing []domain.Listing) ([]domain.Listing, error) {
		return importer.Merge(existing, incoming), nil
	})
	if err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}
	logger.Info("seed listings applied", zap.Int("count", len(incoming)))
	return nil
}
