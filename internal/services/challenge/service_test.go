package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/keepsakehq/keepsake/internal/dependencies/mocks"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/session"
	"github.com/keepsakehq/keepsake/internal/storage/memory"
	"github.com/keepsakehq/keepsake/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	sessions *session.Service
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	var err error
	s.sessions, err = session.New([]byte("test-secret"), s.clock)
	s.Require().NoError(err)

	s.service = New(s.storage, s.clock, s.random, s.sessions, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createQuestion(prompt, answer string) *model.SecurityQuestion {
	q, err := s.service.CreateQuestion(s.ctx, prompt, "a hint", answer)
	s.Require().NoError(err)
	return q
}

// IssueChallenge tests

func (s *ServiceSuite) TestIssueChallengeFailsWithNoQuestions() {
	_, err := s.service.IssueChallenge(s.ctx)
	s.ErrorIs(err, model.ErrNoQuestions)
}

func (s *ServiceSuite) TestIssueChallengeReturnsAQuestion() {
	created := s.createQuestion("Where did we first meet?", "the park")

	q, err := s.service.IssueChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal(created.ID, q.ID)
}

func (s *ServiceSuite) TestIssueChallengePicksByRandomIndex() {
	s.createQuestion("first", "a")
	s.clock.Advance(time.Minute)
	second := s.createQuestion("second", "b")

	// Listing is newest first, so index 0 is the second question
	s.random.QueueIntn(0)
	q, err := s.service.IssueChallenge(s.ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, q.ID)
}

// Verify tests

func (s *ServiceSuite) TestVerifyCorrectAnswerMintsGuestSession() {
	q := s.createQuestion("Where did we first meet?", "the park")

	token, err := s.service.Verify(s.ctx, "client-1", q.ID, "the park")
	s.Require().NoError(err)
	s.NotEmpty(token)

	c := s.sessions.Classify(token)
	s.Equal(session.Valid, c.Status)
	guest, ok := c.Identity.(session.Guest)
	s.Require().True(ok)
	s.Equal("client-1", guest.ClientID)
}

func (s *ServiceSuite) TestVerifyIsCaseAndSpaceInsensitive() {
	q := s.createQuestion("Where did we first meet?", "The Park")

	_, err := s.service.Verify(s.ctx, "client-1", q.ID, "  the park  ")
	s.NoError(err)
}

func (s *ServiceSuite) TestVerifyWrongAnswerReportsRemaining() {
	q := s.createQuestion("Where did we first meet?", "the park")

	_, err := s.service.Verify(s.ctx, "client-1", q.ID, "the beach")

	var incorrect *IncorrectAnswerError
	s.Require().ErrorAs(err, &incorrect)
	s.Equal(MaxAttempts-1, incorrect.Remaining)
}

func (s *ServiceSuite) TestVerifyRemainingCountsDown() {
	q := s.createQuestion("Where did we first meet?", "the park")

	for i := 1; i <= 3; i++ {
		_, err := s.service.Verify(s.ctx, "client-1", q.ID, "wrong")
		var incorrect *IncorrectAnswerError
		s.Require().ErrorAs(err, &incorrect)
		s.Equal(MaxAttempts-i, incorrect.Remaining)
	}
}

func (s *ServiceSuite) TestVerifyUnknownQuestionFails() {
	s.createQuestion("Where did we first meet?", "the park")

	_, err := s.service.Verify(s.ctx, "client-1", "nonexistent", "anything")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

// Lockout tests

func (s *ServiceSuite) lockOut(clientID, questionID string) {
	for i := 0; i < MaxAttempts; i++ {
		_, err := s.service.Verify(s.ctx, clientID, questionID, "wrong")
		var incorrect *IncorrectAnswerError
		s.Require().ErrorAs(err, &incorrect)
	}
}

func (s *ServiceSuite) TestLockoutAfterMaxFailures() {
	q := s.createQuestion("Where did we first meet?", "the park")
	s.lockOut("client-1", q.ID)

	_, err := s.service.Verify(s.ctx, "client-1", q.ID, "wrong")
	var locked *LockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal(LockoutWindow, locked.RetryAfter)
}

func (s *ServiceSuite) TestLockedClientRejectedEvenWithCorrectAnswer() {
	q := s.createQuestion("Where did we first meet?", "the park")
	s.lockOut("client-1", q.ID)

	_, err := s.service.Verify(s.ctx, "client-1", q.ID, "the park")
	var locked *LockedError
	s.ErrorAs(err, &locked)
}

func (s *ServiceSuite) TestLockoutDoesNotAffectOtherClients() {
	q := s.createQuestion("Where did we first meet?", "the park")
	s.lockOut("client-1", q.ID)

	_, err := s.service.Verify(s.ctx, "client-2", q.ID, "the park")
	s.NoError(err)
}

func (s *ServiceSuite) TestLockoutClearsAfterWindowElapses() {
	q := s.createQuestion("Where did we first meet?", "the park")
	s.lockOut("client-1", q.ID)

	s.clock.Advance(LockoutWindow + time.Second)

	_, err := s.service.Verify(s.ctx, "client-1", q.ID, "the park")
	s.NoError(err)
}

func (s *ServiceSuite) TestSuccessfulAttemptsDoNotCountTowardLockout() {
	q := s.createQuestion("Where did we first meet?", "the park")

	for i := 0; i < MaxAttempts+2; i++ {
		_, err := s.service.Verify(s.ctx, "client-1", q.ID, "the park")
		s.Require().NoError(err)
	}
}

// Question management tests

func (s *ServiceSuite) TestCreateQuestionHashesAnswer() {
	q := s.createQuestion("Where did we first meet?", "The Park")

	s.NotEmpty(q.AnswerHash)
	s.NotContains(q.AnswerHash, "park")
}

func (s *ServiceSuite) TestDeleteQuestion() {
	q := s.createQuestion("Where did we first meet?", "the park")

	s.Require().NoError(s.service.DeleteQuestion(s.ctx, q.ID))

	_, err := s.storage.GetQuestion(s.ctx, q.ID)
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *ServiceSuite) TestNormalizeAnswer() {
	s.Equal("the park", NormalizeAnswer("  The PARK "))
}
