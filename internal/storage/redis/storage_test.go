package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/keepsakehq/keepsake/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.AttemptTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Question tests

func (s *StorageSuite) TestSaveAndGetQuestion() {
	q := &model.SecurityQuestion{
		ID:         "q-1",
		Question:   "Where did we first meet?",
		Hint:       "outdoors",
		AnswerHash: "hash",
		CreatedAt:  time.Now().UTC(),
	}

	s.Require().NoError(s.storage.SaveQuestion(s.ctx, q))

	got, err := s.storage.GetQuestion(s.ctx, "q-1")
	s.Require().NoError(err)
	s.Equal(q.Question, got.Question)
	s.Equal(q.AnswerHash, got.AnswerHash)
}

func (s *StorageSuite) TestGetQuestionNotFound() {
	_, err := s.storage.GetQuestion(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *StorageSuite) TestListQuestionsNewestFirst() {
	base := time.Now().UTC()
	_ = s.storage.SaveQuestion(s.ctx, &model.SecurityQuestion{ID: "q-1", CreatedAt: base})
	_ = s.storage.SaveQuestion(s.ctx, &model.SecurityQuestion{ID: "q-2", CreatedAt: base.Add(time.Minute)})

	questions, err := s.storage.ListQuestions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(questions, 2)
	s.Equal("q-2", questions[0].ID)
}

func (s *StorageSuite) TestDeleteQuestion() {
	_ = s.storage.SaveQuestion(s.ctx, &model.SecurityQuestion{ID: "q-1"})

	s.Require().NoError(s.storage.DeleteQuestion(s.ctx, "q-1"))
	s.ErrorIs(s.storage.DeleteQuestion(s.ctx, "q-1"), model.ErrQuestionNotFound)
}

// Admin tests

func (s *StorageSuite) TestSaveAndGetAdminByUsername() {
	admin := &model.AdminAccount{ID: "a-1", Username: "alice", Status: model.AdminStatusApproved}
	s.Require().NoError(s.storage.SaveAdmin(s.ctx, admin))

	got, err := s.storage.GetAdminByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("a-1", got.ID)
}

func (s *StorageSuite) TestGetAdminNotFound() {
	_, err := s.storage.GetAdmin(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAdminNotFound)
}

func (s *StorageSuite) TestCountAdmins() {
	_ = s.storage.SaveAdmin(s.ctx, &model.AdminAccount{ID: "a-1", Username: "alice"})
	_ = s.storage.SaveAdmin(s.ctx, &model.AdminAccount{ID: "a-2", Username: "bob"})

	count, err := s.storage.CountAdmins(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *StorageSuite) TestDeleteAdminRunsGuardWithApprovedCount() {
	_ = s.storage.SaveAdmin(s.ctx, &model.AdminAccount{ID: "a-1", Username: "alice", Status: model.AdminStatusApproved})
	_ = s.storage.SaveAdmin(s.ctx, &model.AdminAccount{ID: "a-2", Username: "bob", Status: model.AdminStatusApproved})

	var sawApproved int
	err := s.storage.DeleteAdmin(s.ctx, "a-1", func(target *model.AdminAccount, approvedCount int) error {
		sawApproved = approvedCount
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, sawApproved)

	_, err = s.storage.GetAdmin(s.ctx, "a-1")
	s.ErrorIs(err, model.ErrAdminNotFound)
	_, err = s.storage.GetAdminByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrAdminNotFound)
}

func (s *StorageSuite) TestDeleteAdminGuardErrorAbortsDelete() {
	_ = s.storage.SaveAdmin(s.ctx, &model.AdminAccount{ID: "a-1", Username: "alice", Status: model.AdminStatusApproved})

	guardErr := errors.New("nope")
	err := s.storage.DeleteAdmin(s.ctx, "a-1", func(*model.AdminAccount, int) error {
		return guardErr
	})
	s.ErrorIs(err, guardErr)

	_, err = s.storage.GetAdmin(s.ctx, "a-1")
	s.NoError(err)
}

// Attempt tests

func (s *StorageSuite) TestCountFailedAttemptsWindow() {
	now := time.Now()
	_ = s.storage.RecordAttempt(s.ctx, &model.AuthAttempt{ID: "1", ClientID: "c-1", Success: false, CreatedAt: now.Add(-time.Hour)})
	_ = s.storage.RecordAttempt(s.ctx, &model.AuthAttempt{ID: "2", ClientID: "c-1", Success: false, CreatedAt: now})
	_ = s.storage.RecordAttempt(s.ctx, &model.AuthAttempt{ID: "3", ClientID: "c-1", Success: true, CreatedAt: now})
	_ = s.storage.RecordAttempt(s.ctx, &model.AuthAttempt{ID: "4", ClientID: "c-2", Success: false, CreatedAt: now})

	count, err := s.storage.CountFailedAttempts(s.ctx, "c-1", now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestCountFailedAttemptsIncludesWholeWindow() {
	now := time.Now()
	for i := 0; i < 3; i++ {
		_ = s.storage.RecordAttempt(s.ctx, &model.AuthAttempt{ID: string(rune('a' + i)), ClientID: "c-1", Success: false, CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}

	count, err := s.storage.CountFailedAttempts(s.ctx, "c-1", now.Add(-15*time.Minute))
	s.Require().NoError(err)
	s.Equal(3, count)
}

// Pet tests

func (s *StorageSuite) TestGetPetNotFoundBeforeSeed() {
	_, err := s.storage.GetPet(s.ctx)
	s.ErrorIs(err, model.ErrPetNotFound)
}

func (s *StorageSuite) TestUpdatePetSeedsWhenAbsent() {
	seed := &model.Pet{ID: "p-1", Name: "Mochi", Level: 1}

	updated, err := s.storage.UpdatePet(s.ctx, seed, func(p *model.Pet) error {
		p.Level = 2
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, updated.Level)

	got, err := s.storage.GetPet(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, got.Level)
}

func (s *StorageSuite) TestUpdatePetFnErrorLeavesStateUntouched() {
	seed := &model.Pet{ID: "p-1", Level: 1}
	_, _ = s.storage.UpdatePet(s.ctx, seed, func(*model.Pet) error { return nil })

	boom := errors.New("boom")
	_, err := s.storage.UpdatePet(s.ctx, seed, func(p *model.Pet) error {
		p.Level = 99
		return boom
	})
	s.ErrorIs(err, boom)

	got, _ := s.storage.GetPet(s.ctx)
	s.Equal(1, got.Level)
}

func (s *StorageSuite) TestUpdatePetPersistsCollections() {
	seed := &model.Pet{ID: "p-1"}
	_, err := s.storage.UpdatePet(s.ctx, seed, func(p *model.Pet) error {
		p.Accessories = []string{"bow"}
		p.EquippedItems = map[string]string{"head": "bow"}
		p.DailyActions = map[string]model.DailyAction{"feed": {Count: 2, Date: "2024-01-01"}}
		return nil
	})
	s.Require().NoError(err)

	got, _ := s.storage.GetPet(s.ctx)
	s.Equal([]string{"bow"}, got.Accessories)
	s.Equal("bow", got.EquippedItems["head"])
	s.Equal(2, got.DailyActions["feed"].Count)
}

// Record tests

func (s *StorageSuite) TestSaveListDeleteMessage() {
	base := time.Now().UTC()
	_ = s.storage.SaveMessage(s.ctx, &model.Message{ID: "m-1", Nickname: "Alice", CreatedAt: base})
	_ = s.storage.SaveMessage(s.ctx, &model.Message{ID: "m-2", Nickname: "Bob", CreatedAt: base.Add(time.Minute)})

	messages, err := s.storage.ListMessages(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(messages, 2)
	s.Equal("m-2", messages[0].ID)

	s.Require().NoError(s.storage.DeleteMessage(s.ctx, "m-1"))
	s.ErrorIs(s.storage.DeleteMessage(s.ctx, "m-1"), model.ErrMessageNotFound)
}

func (s *StorageSuite) TestSaveGetDeleteMemo() {
	memo := &model.Memo{ID: "memo-1", Title: "buy flowers"}
	s.Require().NoError(s.storage.SaveMemo(s.ctx, memo))

	got, err := s.storage.GetMemo(s.ctx, "memo-1")
	s.Require().NoError(err)
	s.Equal("buy flowers", got.Title)

	s.Require().NoError(s.storage.DeleteMemo(s.ctx, "memo-1"))
	_, err = s.storage.GetMemo(s.ctx, "memo-1")
	s.ErrorIs(err, model.ErrMemoNotFound)
}

func (s *StorageSuite) TestSaveListDeletePhoto() {
	_ = s.storage.SavePhoto(s.ctx, &model.Photo{ID: "p-1", URL: "https://example.com/a.jpg"})

	photos, err := s.storage.ListPhotos(s.ctx)
	s.Require().NoError(err)
	s.Len(photos, 1)

	s.Require().NoError(s.storage.DeletePhoto(s.ctx, "p-1"))
	s.ErrorIs(s.storage.DeletePhoto(s.ctx, "p-1"), model.ErrPhotoNotFound)
}
