package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/dependencies/random"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/session"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// LockedError reports that the client must wait before trying again
type LockedError struct {
	RetryAfter time.Duration
}

// Error implements error
func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry after %s", e.RetryAfter)
}

// IncorrectAnswerError reports a wrong answer and how many attempts remain
// before lockout
type IncorrectAnswerError struct {
	Remaining int
}

// Error implements error
func (e *IncorrectAnswerError) Error() string {
	return fmt.Sprintf("incorrect answer, %d attempts remaining", e.Remaining)
}

// Service is the challenge authority: it issues random knowledge challenges
// and verifies answers, gating the whole site behind them.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	sessions *session.Service
	tracker  *LockoutTracker
	logger   *slog.Logger
}

// New creates a challenge service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, sessions *session.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		clock:    clk,
		random:   rnd,
		sessions: sessions,
		tracker:  NewLockoutTracker(store, clk),
		logger:   logger,
	}
}

// IssueChallenge picks one stored question uniformly at random. The answer
// hash never leaves this layer.
func (s *Service) IssueChallenge(ctx context.Context) (*model.SecurityQuestion, error) {
	questions, err := s.storage.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, model.ErrNoQuestions
	}
	return questions[s.random.Intn(len(questions))], nil
}

// Verify checks a submitted answer. Locked clients are rejected before the
// stored hash is ever consulted. Every non-locked call appends exactly one
// attempt record; on failure the remaining-attempt count comes from the same
// window query the lockout decision uses.
func (s *Service) Verify(ctx context.Context, clientID, questionID, answer string) (string, error) {
	locked, err := s.tracker.Locked(ctx, clientID)
	if err != nil {
		return "", err
	}
	if locked {
		return "", &LockedError{RetryAfter: LockoutWindow}
	}

	question, err := s.storage.GetQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}

	normalized := NormalizeAnswer(answer)
	ok := bcrypt.CompareHashAndPassword([]byte(question.AnswerHash), []byte(normalized)) == nil

	if err := s.tracker.Record(ctx, clientID, ok); err != nil {
		return "", err
	}

	if !ok {
		// Count taken after recording this failure, so it reflects it
		failures, err := s.tracker.FailuresInWindow(ctx, clientID)
		if err != nil {
			return "", err
		}
		remaining := MaxAttempts - failures
		if remaining < 0 {
			remaining = 0
		}
		s.logger.Info("challenge answer rejected",
			slog.String("client_id", clientID),
			slog.Int("remaining", remaining),
		)
		return "", &IncorrectAnswerError{Remaining: remaining}
	}

	token, err := s.sessions.MintGuest(clientID)
	if err != nil {
		return "", err
	}

	s.logger.Info("guest session issued", slog.String("client_id", clientID))
	return token, nil
}

// CreateQuestion stores a new challenge with a bcrypt hash of the normalized
// answer. Admin-only; the boundary enforces that.
func (s *Service) CreateQuestion(ctx context.Context, prompt, hint, answer string) (*model.SecurityQuestion, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(NormalizeAnswer(answer)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	question := &model.SecurityQuestion{
		ID:         uuid.NewString(),
		Question:   strings.TrimSpace(prompt),
		Hint:       strings.TrimSpace(hint),
		AnswerHash: string(hash),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.storage.SaveQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// ListQuestions returns all stored questions, newest first
func (s *Service) ListQuestions(ctx context.Context) ([]*model.SecurityQuestion, error) {
	return s.storage.ListQuestions(ctx)
}

// DeleteQuestion removes a question
func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	return s.storage.DeleteQuestion(ctx, id)
}

// NormalizeAnswer trims whitespace and lower-cases an answer so comparison is
// case-insensitive. Hashing and verification must use the same normalization.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
