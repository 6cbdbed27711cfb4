package pet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/keepsakehq/keepsake/internal/dependencies/mocks"
	"github.com/keepsakehq/keepsake/internal/storage/memory"
	"github.com/keepsakehq/keepsake/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Get tests

func (s *ServiceSuite) TestGetCreatesDefaultCompanion() {
	p, err := s.service.Get(s.ctx)
	s.Require().NoError(err)

	s.NotEmpty(p.ID)
	s.Equal(1, p.Level)
	s.Equal(0, p.Experience)
	s.Equal(1, p.Evolution)
	s.Empty(p.Accessories)
}

func (s *ServiceSuite) TestGetIsIdempotent() {
	first, _ := s.service.Get(s.ctx)
	second, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
}

// Decay tests

func (s *ServiceSuite) TestDecayAfterOfflineHours() {
	p, _ := s.service.Get(s.ctx)
	startHunger := p.Hunger
	startHappiness := p.Happiness

	// 10 hours offline: hunger -20, happiness -10
	s.clock.Advance(10 * time.Hour)
	p, err := s.service.Get(s.ctx)
	s.Require().NoError(err)

	s.Equal(startHunger-20, p.Hunger)
	s.Equal(startHappiness-10, p.Happiness)
	s.Equal(s.clock.CurrentTime, p.LastVisitAt)
}

func (s *ServiceSuite) TestDecayFloorsAtZero() {
	_, _ = s.service.Get(s.ctx)

	s.clock.Advance(30 * 24 * time.Hour)
	p, err := s.service.Get(s.ctx)
	s.Require().NoError(err)

	s.Equal(0, p.Hunger)
	s.Equal(0, p.Happiness)
}

func (s *ServiceSuite) TestDecayUsesFloorOfFractionalHours() {
	p, _ := s.service.Get(s.ctx)
	startHunger := p.Hunger

	// 90 minutes: floor(1.5 * 2) = 3 hunger
	s.clock.Advance(90 * time.Minute)
	p, _ = s.service.Get(s.ctx)
	s.Equal(startHunger-3, p.Hunger)
}

// Feed tests

func (s *ServiceSuite) TestFeedRaisesHungerAndGrantsExp() {
	p, _ := s.service.Get(s.ctx)
	startHunger := p.Hunger

	result, err := s.service.Feed(s.ctx)
	s.Require().NoError(err)

	s.Equal(FeedExp, result.ExpGained)
	s.Equal(FeedExp, result.Pet.Experience)
	s.Equal(clamp(startHunger+30), result.Pet.Hunger)
	s.Require().NotNil(result.Pet.LastFedAt)
	s.Equal(s.clock.CurrentTime, *result.Pet.LastFedAt)
}

func (s *ServiceSuite) TestFeedCappedPerDay() {
	for i := 0; i < FeedDailyCap; i++ {
		_, err := s.service.Feed(s.ctx)
		s.Require().NoError(err)
	}

	before, _ := s.service.Get(s.ctx)

	_, err := s.service.Feed(s.ctx)
	var limited *DailyLimitError
	s.Require().ErrorAs(err, &limited)
	s.Equal(ActionFeed, limited.Action)
	s.Equal(FeedDailyCap, limited.Cap)

	// Nothing changed on the capped attempt
	after, _ := s.service.Get(s.ctx)
	s.Equal(before.Experience, after.Experience)
	s.Equal(before.Hunger, after.Hunger)
	s.Equal(FeedDailyCap, after.DailyActions[ActionFeed].Count)
}

func (s *ServiceSuite) TestFeedCapResetsNextDay() {
	for i := 0; i < FeedDailyCap; i++ {
		_, _ = s.service.Feed(s.ctx)
	}

	s.clock.Advance(24 * time.Hour)

	result, err := s.service.Feed(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.Pet.DailyActions[ActionFeed].Count)
	s.Equal(s.clock.Today(), result.Pet.DailyActions[ActionFeed].Date)
}

// Play tests

func (s *ServiceSuite) TestPlayAdjustsStats() {
	p, _ := s.service.Get(s.ctx)
	startHappiness := p.Happiness
	startHunger := p.Hunger

	result, err := s.service.Play(s.ctx)
	s.Require().NoError(err)

	s.Equal(PlayExp, result.ExpGained)
	// Play raises happiness 20 plus the 5-point experience bonus
	s.Equal(clamp(startHappiness+20+5), result.Pet.Happiness)
	s.Equal(clamp(startHunger-5), result.Pet.Hunger)
}

func (s *ServiceSuite) TestPlayCappedPerDay() {
	for i := 0; i < PlayDailyCap; i++ {
		_, err := s.service.Play(s.ctx)
		s.Require().NoError(err)
	}

	_, err := s.service.Play(s.ctx)
	var limited *DailyLimitError
	s.Require().ErrorAs(err, &limited)
	s.Equal(ActionPlay, limited.Action)
}

func (s *ServiceSuite) TestFeedAndPlayCapsAreIndependent() {
	for i := 0; i < FeedDailyCap; i++ {
		_, _ = s.service.Feed(s.ctx)
	}

	_, err := s.service.Play(s.ctx)
	s.NoError(err)
}

// Progression tests

func (s *ServiceSuite) TestExperienceCarriesAcrossLevels() {
	// 250 exp from level 1: 100 to level 2, 100 to level 3, 50 left over
	result, err := s.service.AddExperience(s.ctx, 250, "test")
	s.Require().NoError(err)

	s.True(result.LeveledUp)
	s.Equal(3, result.Pet.Level)
	s.Equal(50, result.Pet.Experience)
}

func (s *ServiceSuite) TestExactThresholdLevelsUpToZeroExp() {
	result, err := s.service.AddExperience(s.ctx, 100, "test")
	s.Require().NoError(err)

	s.Equal(2, result.Pet.Level)
	s.Equal(0, result.Pet.Experience)
}

func (s *ServiceSuite) TestEvolutionAtTierBoundaryUnlocksAccessories() {
	// Levels 1-10 need 100 each; 1000 exp crosses into level 11, tier 2
	result, err := s.service.AddExperience(s.ctx, 1000, "test")
	s.Require().NoError(err)

	s.True(result.Evolved)
	s.Equal(11, result.Pet.Level)
	s.Equal(2, result.Pet.Evolution)
	s.ElementsMatch([]string{"bow", "scarf"}, result.Pet.Accessories)
}

func (s *ServiceSuite) TestNoEvolutionWithinSameTier() {
	result, err := s.service.AddExperience(s.ctx, 100, "test")
	s.Require().NoError(err)

	s.True(result.LeveledUp)
	s.False(result.Evolved)
	s.Empty(result.Pet.Accessories)
}

func (s *ServiceSuite) TestAccessoriesAccumulateAcrossTiers() {
	// Ten tier-1 levels at 100 plus fifteen tier-2 levels at 200 reaches
	// level 26, tier 3
	_, err := s.service.AddExperience(s.ctx, 10*100+15*200, "test")
	s.Require().NoError(err)

	p, _ := s.service.Get(s.ctx)
	s.Equal(26, p.Level)
	s.Equal(3, p.Evolution)
	s.ElementsMatch([]string{"bow", "scarf", "crown", "glasses"}, p.Accessories)
}

func (s *ServiceSuite) TestExperienceGrantsHappinessBonus() {
	p, _ := s.service.Get(s.ctx)
	startHappiness := p.Happiness

	result, err := s.service.AddExperience(s.ctx, 10, "test")
	s.Require().NoError(err)
	s.Equal(clamp(startHappiness+5), result.Pet.Happiness)
}

func (s *ServiceSuite) TestAddExperienceRejectsNonPositiveAmount() {
	_, err := s.service.AddExperience(s.ctx, 0, "test")
	s.ErrorIs(err, ErrInvalidExpAmount)

	_, err = s.service.AddExperience(s.ctx, -5, "test")
	s.ErrorIs(err, ErrInvalidExpAmount)
}

// Cosmetics tests

func (s *ServiceSuite) TestRename() {
	p, err := s.service.Rename(s.ctx, "  Pudding ")
	s.Require().NoError(err)
	s.Equal("Pudding", p.Name)
}

func (s *ServiceSuite) TestRenameRejectsEmptyName() {
	_, err := s.service.Rename(s.ctx, "   ")
	s.ErrorIs(err, ErrNameRequired)
}

func (s *ServiceSuite) TestChangeColor() {
	p, err := s.service.ChangeColor(s.ctx, "mint")
	s.Require().NoError(err)
	s.Equal("mint", p.Color)
}

func (s *ServiceSuite) TestEquipUnlockedAccessory() {
	_, err := s.service.AddExperience(s.ctx, 1000, "test")
	s.Require().NoError(err)

	p, err := s.service.Equip(s.ctx, map[string]string{"head": "bow"})
	s.Require().NoError(err)
	s.Equal("bow", p.EquippedItems["head"])
}

func (s *ServiceSuite) TestEquipLockedAccessoryFails() {
	_, err := s.service.Equip(s.ctx, map[string]string{"head": "crown"})
	s.ErrorIs(err, ErrAccessoryNotOwned)
}

func (s *ServiceSuite) TestEquipEmptyMapClearsEquipment() {
	_, _ = s.service.AddExperience(s.ctx, 1000, "test")
	_, _ = s.service.Equip(s.ctx, map[string]string{"head": "bow"})

	p, err := s.service.Equip(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(p.EquippedItems)
}

// Unit tests for the step functions

func (s *ServiceSuite) TestRequiredExpSteps() {
	s.Equal(100, RequiredExp(1))
	s.Equal(100, RequiredExp(10))
	s.Equal(200, RequiredExp(11))
	s.Equal(200, RequiredExp(25))
	s.Equal(350, RequiredExp(26))
	s.Equal(350, RequiredExp(50))
	s.Equal(500, RequiredExp(51))
}

func (s *ServiceSuite) TestTierBoundaries() {
	s.Equal(1, tierOf(10))
	s.Equal(2, tierOf(11))
	s.Equal(2, tierOf(25))
	s.Equal(3, tierOf(26))
	s.Equal(3, tierOf(50))
	s.Equal(4, tierOf(51))
}
