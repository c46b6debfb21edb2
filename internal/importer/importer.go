package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
)

const defaultCurrency = "RWF"

// ListingStore is the site-scoped listing collection.
type ListingStore interface {
	UpdateListings(ctx context.Context, fn func([]domain.Listing) ([]domain.Listing, error)) error
}

// CSVImporter reads a listings CSV and merges it into the shop's listings.
// Recognised columns: id, name, description, price, currency, category,
// image, available. Unknown columns are ignored.
type CSVImporter struct {
	reader *csv.Reader
	store  ListingStore
	logger *zap.Logger
	now    func() time.Time
}

func NewCSVImporter(r io.Reader, store ListingStore, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader: csvr,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Run parses every row and writes the result in a single update. A row
// without a name or with an unparsable price fails the whole import; blank
// lines are skipped.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}

	var listings []domain.Listing
	line := 1
	for {
		record, err := i.reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		l, err := i.parseRow(record, index)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		listings = append(listings, l)
	}

	if len(listings) == 0 {
		return 0, nil
	}
	err = i.store.UpdateListings(ctx, func(existing []domain.Listing) ([]domain.Listing, error) {
		return Merge(existing, listings), nil
	})
	if err != nil {
		return 0, fmt.Errorf("save listings: %w", err)
	}
	i.logger.Info("listings imported", zap.Int("count", len(listings)))
	return len(listings), nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (domain.Listing, error) {
	l := domain.Listing{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Currency:    strings.ToUpper(pick(record, index, "currency")),
		Category:    pick(record, index, "category"),
		Image:       pick(record, index, "image"),
		Available:   true,
		CreatedAt:   i.now().UTC(),
	}
	if l.Name == "" {
		return domain.Listing{}, errors.New("name is required")
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Currency == "" {
		l.Currency = defaultCurrency
	}
	if l.Image == "" {
		l.Image = "placeholder"
	}

	if raw := pick(record, index, "price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return domain.Listing{}, fmt.Errorf("invalid price %q for %q", raw, l.Name)
		}
		l.Price = int64(math.Round(price))
	}
	if raw := pick(record, index, "available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Listing{}, fmt.Errorf("invalid available %q for %q", raw, l.Name)
		}
		l.Available = v
	}
	return l, nil
}

// Merge upserts incoming into existing by ID. Replaced listings keep their
// position and original creation time; new ones are appended in order.
func Merge(existing, incoming []domain.Listing) []domain.Listing {
	pos := make(map[string]int, len(existing))
	out := make([]domain.Listing, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	for i, l := range out {
		pos[l.ID] = i
	}
	for _, l := range incoming {
		if at, ok := pos[l.ID]; ok {
			l.CreatedAt = out[at].CreatedAt
			out[at] = l
			continue
		}
		pos[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.TrimSuffix(h, ".en")
		idx[h] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
