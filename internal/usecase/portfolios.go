package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xlogger "DivScout/pkg/logger"
	"DivScout/pkg/util"

	"github.com/google/uuid"
)

// ErrInvalidPortfolioName rejects names that sanitize to empty or exceed the
// length cap. It is a validation failure, not a storage one; handlers map it
// to 400.
var ErrInvalidPortfolioName = errors.New("portfolio name must be 1-100 characters")

// ParsePortfolioBlob decodes a persisted portfolio collection. Corruption is
// returned as an error so the caller decides what an unreadable blob means
// instead of it being swallowed here.
func ParsePortfolioBlob(raw []byte) ([]models.Portfolio, error) {
	if len(raw) == 0 {
		return []models.Portfolio{}, nil
	}
	var portfolios []models.Portfolio
	if err := json.Unmarshal(raw, &portfolios); err != nil {
		return nil, fmt.Errorf("parse portfolio blob: %w", err)
	}
	return portfolios, nil
}

// PortfolioService implements portfolio CRUD over a blob store. An unreadable
// blob maps to an empty collection; stored data is only rewritten after a
// successful read-modify cycle, so a failed operation never destroys
// previously saved portfolios.
type PortfolioService struct {
	store  drepo.PortfolioBlobStore
	logger *xlogger.Logger

	now   func() time.Time
	newID func() string
}

func NewPortfolioService(store drepo.PortfolioBlobStore, l *xlogger.Logger) *PortfolioService {
	return &PortfolioService{
		store:  store,
		logger: l,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// List returns all portfolios and the active portfolio id for the owner.
func (s *PortfolioService) List(ctx context.Context, owner string) ([]models.Portfolio, string, error) {
	portfolios, err := s.load(ctx, owner)
	if err != nil {
		return nil, "", err
	}
	active, err := s.store.GetActive(ctx, owner)
	if err != nil {
		return nil, "", fmt.Errorf("get active portfolio: %w", err)
	}
	return portfolios, active, nil
}

// Create makes a new empty portfolio, persists it and marks it active.
func (s *PortfolioService) Create(ctx context.Context, owner, name, description string, totalAmount float64) (models.Portfolio, error) {
	name = util.SanitizeName(name)
	if name == "" || len(name) > 100 {
		return models.Portfolio{}, ErrInvalidPortfolioName
	}

	portfolios, err := s.load(ctx, owner)
	if err != nil {
		return models.Portfolio{}, err
	}

	now := s.now().UTC()
	p := models.Portfolio{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		TotalAmount: totalAmount,
		Assets:      []models.PortfolioAsset{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	portfolios = append(portfolios, p)

	if err := s.save(ctx, owner, portfolios); err != nil {
		return models.Portfolio{}, err
	}
	if err := s.store.SetActive(ctx, owner, p.ID); err != nil {
		return models.Portfolio{}, fmt.Errorf("set active portfolio: %w", err)
	}
	return p, nil
}

// Update merges the patch into the portfolio and refreshes updatedAt.
// Unknown ids are silently ignored.
func (s *PortfolioService) Update(ctx context.Context, owner, id string, patch models.PortfolioPatch) error {
	portfolios, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	changed := false
	for i := range portfolios {
		if portfolios[i].ID != id {
			continue
		}
		p := &portfolios[i]
		if patch.Name != nil {
			name := util.SanitizeName(*patch.Name)
			if name == "" || len(name) > 100 {
				return ErrInvalidPortfolioName
			}
			p.Name = name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.TotalAmount != nil {
			p.TotalAmount = *patch.TotalAmount
		}
		if patch.Assets != nil {
			p.Assets = *patch.Assets
		}
		p.UpdatedAt = s.now().UTC()
		changed = true
		break
	}
	if !changed {
		return nil
	}
	return s.save(ctx, owner, portfolios)
}

// Delete removes the portfolio; deleting the active one clears the pointer.
func (s *PortfolioService) Delete(ctx context.Context, owner, id string) error {
	portfolios, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	kept := portfolios[:0]
	removed := false
	for _, p := range portfolios {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return nil
	}
	if err := s.save(ctx, owner, kept); err != nil {
		return err
	}

	active, err := s.store.GetActive(ctx, owner)
	if err != nil {
		return fmt.Errorf("get active portfolio: %w", err)
	}
	if active == id {
		if err := s.store.ClearActive(ctx, owner); err != nil {
			return fmt.Errorf("clear active portfolio: %w", err)
		}
	}
	return nil
}

// Load marks the portfolio active if it exists; unknown ids are a no-op.
func (s *PortfolioService) Load(ctx context.Context, owner, id string) error {
	portfolios, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	for _, p := range portfolios {
		if p.ID == id {
			if err := s.store.SetActive(ctx, owner, id); err != nil {
				return fmt.Errorf("set active portfolio: %w", err)
			}
			return nil
		}
	}
	return nil
}

func (s *PortfolioService) load(ctx context.Context, owner string) ([]models.Portfolio, error) {
	raw, err := s.store.GetBlob(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get portfolio blob: %w", err)
	}
	portfolios, err := ParsePortfolioBlob(raw)
	if err != nil {
		// A corrupt blob reads as "no portfolios"; the next save overwrites it.
		s.logger.Warn("corrupt portfolio blob, treating as empty",
			xlogger.String("owner", owner),
			xlogger.Error(err),
		)
		return []models.Portfolio{}, nil
	}
	return portfolios, nil
}

func (s *PortfolioService) save(ctx context.Context, owner string, portfolios []models.Portfolio) error {
	blob, err := json.Marshal(portfolios)
	if err != nil {
		return fmt.Errorf("encode portfolio blob: %w", err)
	}
	if err := s.store.SetBlob(ctx, owner, blob); err != nil {
		return fmt.Errorf("save portfolio blob: %w", err)
	}
	return nil
}
