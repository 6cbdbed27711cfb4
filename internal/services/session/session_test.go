package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/keepsakehq/keepsake/internal/dependencies/mocks"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	var err error
	s.service, err = New([]byte("test-secret"), s.clock)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestNewRejectsEmptySecret() {
	_, err := New(nil, s.clock)
	s.ErrorIs(err, ErrMissingSecret)
}

// Guest sessions

func (s *ServiceSuite) TestMintGuestClassifiesValid() {
	token, err := s.service.MintGuest("203.0.113.7")
	s.Require().NoError(err)

	c := s.service.Classify(token)
	s.Equal(Valid, c.Status)

	guest, ok := c.Identity.(Guest)
	s.Require().True(ok)
	s.Equal("203.0.113.7", guest.ClientID)
	// Decoded mint time must come back in UTC, not the process-local zone
	s.Equal(s.clock.CurrentTime, guest.MintedAt)
	s.Equal(time.UTC, guest.MintedAt.Location())
}

func (s *ServiceSuite) TestGuestValidJustBeforeLifetime() {
	token, _ := s.service.MintGuest("client")

	s.clock.Advance(GuestLifetime - time.Second)
	s.Equal(Valid, s.service.Classify(token).Status)
}

func (s *ServiceSuite) TestGuestExpiresAfterLifetime() {
	token, _ := s.service.MintGuest("client")

	s.clock.Advance(GuestLifetime + time.Second)
	c := s.service.Classify(token)
	s.Equal(Expired, c.Status)

	// Identity is still decodable from an expired token
	guest, ok := c.Identity.(Guest)
	s.Require().True(ok)
	s.Equal("client", guest.ClientID)
}

// Admin sessions

func (s *ServiceSuite) TestMintAdminClassifiesValid() {
	token, err := s.service.MintAdmin("admin-1", "alice")
	s.Require().NoError(err)

	c := s.service.Classify(token)
	s.Equal(Valid, c.Status)

	admin, ok := c.Identity.(Admin)
	s.Require().True(ok)
	s.Equal("admin-1", admin.AdminID)
	s.Equal("alice", admin.Username)
	s.Equal(s.clock.CurrentTime, admin.MintedAt)
}

func (s *ServiceSuite) TestAdminLifetimeShorterThanGuest() {
	token, _ := s.service.MintAdmin("admin-1", "alice")

	s.clock.Advance(AdminLifetime + time.Second)
	s.Equal(Expired, s.service.Classify(token).Status)
}

// Classification of bad tokens

func (s *ServiceSuite) TestClassifyEmptyTokenIsAnonymous() {
	c := s.service.Classify("")
	s.Equal(Anonymous, c.Status)
	s.Nil(c.Identity)
}

func (s *ServiceSuite) TestClassifyGarbageIsAnonymous() {
	s.Equal(Anonymous, s.service.Classify("not-a-jwt").Status)
}

func (s *ServiceSuite) TestClassifyWrongSecretIsAnonymous() {
	other, err := New([]byte("different-secret"), s.clock)
	s.Require().NoError(err)

	token, _ := other.MintGuest("client")
	s.Equal(Anonymous, s.service.Classify(token).Status)
}

func (s *ServiceSuite) TestClassifyTamperedTokenIsAnonymous() {
	token, _ := s.service.MintGuest("client")

	tampered := token[:len(token)-4] + "AAAA"
	s.Equal(Anonymous, s.service.Classify(tampered).Status)
}
