package pet

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// Errors
var (
	ErrNameRequired      = errors.New("name is required")
	ErrColorRequired     = errors.New("color is required")
	ErrAccessoryNotOwned = errors.New("accessory is not unlocked")
	ErrInvalidExpAmount  = errors.New("experience amount must be positive")
)

// ActionResult is the outcome of a companion interaction or experience grant
type ActionResult struct {
	Pet       *model.Pet
	ExpGained int
	LeveledUp bool
	Evolved   bool
}

// Service is the companion progression engine. Every mutation runs inside a
// single storage UpdatePet transaction: decay, cap checks, stat changes, and
// experience all commit together or not at all.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a pet service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger,
	}
}

// defaultPet seeds the single companion record on first access
func (s *Service) defaultPet() *model.Pet {
	now := s.clock.Now()
	return &model.Pet{
		ID:            uuid.NewString(),
		Name:          "Mochi",
		Color:         "pink",
		Level:         1,
		Experience:    0,
		Happiness:     80,
		Hunger:        80,
		Evolution:     1,
		Accessories:   []string{},
		EquippedItems: map[string]string{},
		DailyActions:  map[string]model.DailyAction{},
		LastVisitAt:   now,
		CreatedAt:     now,
	}
}

// Get returns companion state with offline decay applied and stale daily
// counters refreshed, creating the default companion if none exists yet
func (s *Service) Get(ctx context.Context) (*model.Pet, error) {
	now := s.clock.Now()
	today := s.clock.Today()
	return s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		applyDecay(p, now)
		refreshDailyCounters(p, today)
		return nil
	})
}

// Feed feeds the companion: hunger +30 capped at 100, 10 exp, at most 3 per
// day. At the cap nothing changes and a DailyLimitError comes back.
func (s *Service) Feed(ctx context.Context) (*ActionResult, error) {
	return s.interact(ctx, ActionFeed, FeedDailyCap, FeedExp, func(p *model.Pet) {
		p.Hunger = clamp(p.Hunger + 30)
		now := s.clock.Now()
		p.LastFedAt = &now
	})
}

// Play plays with the companion: happiness +20, hunger -5, 15 exp, at most 5
// per day.
func (s *Service) Play(ctx context.Context) (*ActionResult, error) {
	return s.interact(ctx, ActionPlay, PlayDailyCap, PlayExp, func(p *model.Pet) {
		p.Happiness = clamp(p.Happiness + 20)
		p.Hunger = clamp(p.Hunger - 5)
		now := s.clock.Now()
		p.LastPlayAt = &now
	})
}

// interact runs one capped interaction as a single transaction: cap check,
// stat adjustment, counter bump, then the experience grant.
func (s *Service) interact(ctx context.Context, action string, cap, exp int, adjust func(*model.Pet)) (*ActionResult, error) {
	today := s.clock.Today()
	var outcome progressOutcome

	updated, err := s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		if err := checkDailyLimit(p, action, cap, today); err != nil {
			return err
		}
		adjust(p)
		bumpDailyCount(p, action, today)
		outcome = applyExperience(p, exp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pet interaction",
		slog.String("action", action),
		slog.Int("exp", exp),
		slog.Int("level", updated.Level),
	)

	return &ActionResult{
		Pet:       updated,
		ExpGained: exp,
		LeveledUp: outcome.LeveledUp,
		Evolved:   outcome.Evolved,
	}, nil
}

// AddExperience grants experience from site activity (guestbook posts, memo
// completions and so on). Source is only used for logging.
func (s *Service) AddExperience(ctx context.Context, amount int, source string) (*ActionResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidExpAmount
	}

	var outcome progressOutcome
	updated, err := s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		outcome = applyExperience(p, amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pet gained experience",
		slog.Int("amount", amount),
		slog.String("source", source),
		slog.Int("level", updated.Level),
	)

	return &ActionResult{
		Pet:       updated,
		ExpGained: amount,
		LeveledUp: outcome.LeveledUp,
		Evolved:   outcome.Evolved,
	}, nil
}

// Rename changes the companion's name
func (s *Service) Rename(ctx context.Context, name string) (*model.Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		p.Name = name
		return nil
	})
}

// ChangeColor changes the companion's color
func (s *Service) ChangeColor(ctx context.Context, color string) (*model.Pet, error) {
	if color == "" {
		return nil, ErrColorRequired
	}
	return s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		p.Color = color
		return nil
	})
}

// Equip replaces the equipped item map. Every referenced item must already
// be unlocked.
func (s *Service) Equip(ctx context.Context, items map[string]string) (*model.Pet, error) {
	if items == nil {
		items = map[string]string{}
	}
	return s.storage.UpdatePet(ctx, s.defaultPet(), func(p *model.Pet) error {
		for _, itemID := range items {
			if !p.HasAccessory(itemID) {
				return ErrAccessoryNotOwned
			}
		}
		p.EquippedItems = items
		return nil
	})
}
