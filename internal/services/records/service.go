package records

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/pet"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// Experience granted for site activity. Completing things pays better than
// creating them.
const (
	MessageExp      = 15
	MemoAddExp      = 10
	MemoCompleteExp = 20
)

// Errors
var (
	ErrNicknameRequired = errors.New("nickname is required")
	ErrContentRequired  = errors.New("content is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrURLRequired      = errors.New("url is required")
)

// Service is the thin pass-through layer for guestbook messages, memos, and
// photos. It does no business logic beyond field validation; its one side
// effect is reporting activity experience into the companion engine.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	pets    *pet.Service
	logger  *slog.Logger
}

// New creates a records service
func New(store storage.Storage, clk clock.Clock, pets *pet.Service, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		pets:    pets,
		logger:  logger,
	}
}

// Messages

// CreateMessage stores a guestbook entry and reports the activity
func (s *Service) CreateMessage(ctx context.Context, nickname, content string) (*model.Message, error) {
	nickname = strings.TrimSpace(nickname)
	content = strings.TrimSpace(content)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveMessage(ctx, message); err != nil {
		return nil, err
	}

	s.reportActivity(ctx, MessageExp, "message")
	return message, nil
}

// ListMessages returns all guestbook entries, newest first
func (s *Service) ListMessages(ctx context.Context) ([]*model.Message, error) {
	return s.storage.ListMessages(ctx)
}

// DeleteMessage removes a guestbook entry
func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	return s.storage.DeleteMessage(ctx, id)
}

// Memos

// CreateMemo stores a memo and reports the activity
func (s *Service) CreateMemo(ctx context.Context, title, content string) (*model.Memo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	memo := &model.Memo{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   strings.TrimSpace(content),
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveMemo(ctx, memo); err != nil {
		return nil, err
	}

	s.reportActivity(ctx, MemoAddExp, "memo_add")
	return memo, nil
}

// SetMemoDone toggles a memo's completion. Completing one (not un-completing)
// reports activity.
func (s *Service) SetMemoDone(ctx context.Context, id string, done bool) (*model.Memo, error) {
	memo, err := s.storage.GetMemo(ctx, id)
	if err != nil {
		return nil, err
	}

	wasDone := memo.Done
	memo.Done = done
	if err := s.storage.SaveMemo(ctx, memo); err != nil {
		return nil, err
	}

	if done && !wasDone {
		s.reportActivity(ctx, MemoCompleteExp, "memo_complete")
	}
	return memo, nil
}

// ListMemos returns all memos, newest first
func (s *Service) ListMemos(ctx context.Context) ([]*model.Memo, error) {
	return s.storage.ListMemos(ctx)
}

// DeleteMemo removes a memo
func (s *Service) DeleteMemo(ctx context.Context, id string) error {
	return s.storage.DeleteMemo(ctx, id)
}

// Photos

// CreatePhoto stores a photo wall entry
func (s *Service) CreatePhoto(ctx context.Context, url, caption string) (*model.Photo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrURLRequired
	}

	photo := &model.Photo{
		ID:        uuid.NewString(),
		URL:       url,
		Caption:   strings.TrimSpace(caption),
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SavePhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos returns all photo entries, newest first
func (s *Service) ListPhotos(ctx context.Context) ([]*model.Photo, error) {
	return s.storage.ListPhotos(ctx)
}

// DeletePhoto removes a photo entry
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	return s.storage.DeletePhoto(ctx, id)
}

// reportActivity feeds experience into the companion engine. Record CRUD
// must not fail because the companion update did, so errors are only logged.
func (s *Service) reportActivity(ctx context.Context, amount int, source string) {
	if _, err := s.pets.AddExperience(ctx, amount, source); err != nil {
		s.logger.Warn("failed to report activity experience",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
	}
}
