// Package catalog supplies the promotion catalog snapshot the pricing engine
// computes over. A snapshot is fetched whole, once per computation, so a quote
// stays internally consistent even while the catalog changes concurrently.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/promotion"
	"github.com/noah-isme/backend-pos/internal/repo"
)

// Repo captures the database reads the snapshot layer requires.
type Repo interface {
	ListByBranch(ctx context.Context, branchID pgtype.UUID) ([]repo.PromotionRow, error)
	List(ctx context.Context) ([]repo.PromotionRow, error)
	ListProductSizeTaxRates(ctx context.Context) ([]repo.ProductSizeTaxRow, error)
}

// Snapshot is an immutable view of the catalog for one branch at one instant.
type Snapshot struct {
	BranchID   uuid.UUID                     `json:"branchId"`
	TakenAt    time.Time                     `json:"takenAt"`
	Promotions []promotion.Promotion         `json:"promotions"`
	TaxRates   map[uuid.UUID]decimal.Decimal `json:"taxRates"`
}

// TaxRate looks up the configured VAT rate for a product size.
func (s Snapshot) TaxRate(productSizeID uuid.UUID) (decimal.Decimal, bool) {
	rate, ok := s.TaxRates[productSizeID]
	return rate, ok
}

// StatusEntry is one promotion's coarse lifecycle state, for the admin UI.
type StatusEntry struct {
	ID     uuid.UUID           `json:"id"`
	Name   string              `json:"name"`
	Status promotion.Lifecycle `json:"status"`
}

// Service loads snapshots with a Redis JSON cache in front of Postgres. Rows
// that fail strict mapping are logged and skipped; a broken catalog record
// never takes checkout down.
type Service struct {
	Repo   Repo
	Cache  *Cache
	Logger zerolog.Logger
	Now    func() time.Time
}

const (
	snapshotKeyPrefix = "pos:catalog:snapshot:"
	statusIndexKey    = "pos:catalog:promotion-status"
)

// Snapshot returns the catalog snapshot for a branch, cache first.
func (s *Service) Snapshot(ctx context.Context, branchID uuid.UUID) (Snapshot, error) {
	if s == nil || s.Repo == nil {
		return Snapshot{}, errors.New("catalog service not configured")
	}
	key := snapshotKeyPrefix + branchID.String()
	var cached Snapshot
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err != nil {
		s.Logger.Warn().Err(err).Str("branch_id", branchID.String()).Msg("snapshot cache read failed")
	} else if ok {
		return cached, nil
	}

	rows, err := s.Repo.ListByBranch(ctx, pgtype.UUID{Bytes: branchID, Valid: true})
	if err != nil {
		return Snapshot{}, fmt.Errorf("list promotions: %w", err)
	}
	taxRows, err := s.Repo.ListProductSizeTaxRates(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list tax rates: %w", err)
	}

	snap := Snapshot{
		BranchID:   branchID,
		TakenAt:    s.now().UTC(),
		Promotions: s.mapRows(rows),
		TaxRates:   make(map[uuid.UUID]decimal.Decimal, len(taxRows)),
	}
	for _, row := range taxRows {
		rate, err := decimal.NewFromString(row.Rate)
		if err != nil {
			s.Logger.Warn().Err(err).Str("product_size_id", pgUUID(row.ProductSizeID).String()).Msg("invalid tax rate skipped")
			continue
		}
		snap.TaxRates[pgUUID(row.ProductSizeID)] = rate
	}

	if err := s.Cache.SetJSON(ctx, key, snap); err != nil {
		s.Logger.Warn().Err(err).Str("branch_id", branchID.String()).Msg("snapshot cache write failed")
	}
	return snap, nil
}

// StatusIndex returns the coarse lifecycle status of every promotion. The
// worker refreshes the cached index periodically; on a cache miss the index
// is computed on demand.
func (s *Service) StatusIndex(ctx context.Context) ([]StatusEntry, error) {
	var cached []StatusEntry
	if ok, err := s.Cache.GetJSON(ctx, statusIndexKey, &cached); err != nil {
		s.Logger.Warn().Err(err).Msg("status index cache read failed")
	} else if ok {
		return cached, nil
	}
	return s.RefreshStatusIndex(ctx)
}

// RefreshStatusIndex recomputes the status index from the database and stores
// it in the cache.
func (s *Service) RefreshStatusIndex(ctx context.Context) ([]StatusEntry, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("catalog service not configured")
	}
	rows, err := s.Repo.List(ctx)
	if err != nil {
		if obs.SnapshotRefreshTotal != nil {
			obs.SnapshotRefreshTotal.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	now := s.now()
	entries := make([]StatusEntry, 0, len(rows))
	for _, p := range s.mapRows(rows) {
		entries = append(entries, StatusEntry{ID: p.ID, Name: p.Name, Status: promotion.Status(p, now)})
	}
	if err := s.Cache.SetJSON(ctx, statusIndexKey, entries); err != nil {
		s.Logger.Warn().Err(err).Msg("status index cache write failed")
	}
	if obs.SnapshotRefreshTotal != nil {
		obs.SnapshotRefreshTotal.WithLabelValues("ok").Inc()
	}
	return entries, nil
}

// mapRows converts wire rows into strict promotions, skipping malformed ones.
func (s *Service) mapRows(rows []repo.PromotionRow) []promotion.Promotion {
	out := make([]promotion.Promotion, 0, len(rows))
	for _, row := range rows {
		p, err := MapPromotionRow(row)
		if err != nil {
			s.Logger.Error().Err(err).Str("promotion_id", pgUUID(row.ID).String()).Msg("malformed promotion excluded")
			if obs.MalformedPromotionTotal != nil {
				obs.MalformedPromotionTotal.Inc()
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
