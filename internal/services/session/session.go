package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
)

// Session lifetimes. Expiry is always computed from the issued-at claim
// against the current clock; tokens carry no stored expiry and there is no
// server-side revocation list.
const (
	GuestLifetime = 7 * 24 * time.Hour
	AdminLifetime = 24 * time.Hour
)

const issuer = "keepsake"

// Errors
var (
	ErrMissingSecret = errors.New("session secret must not be empty")
)

// Identity is the decoded form of a session token. It is a closed sum:
// exactly Guest and Admin implement it, so callers can switch exhaustively.
type Identity interface {
	// IssuedAt returns when the session was minted
	IssuedAt() time.Time
	// Lifetime returns how long this kind of session stays valid
	Lifetime() time.Duration

	sealed()
}

// Guest is an anonymous visitor who passed the knowledge challenge
type Guest struct {
	ClientID string
	MintedAt time.Time
}

func (Guest) sealed() {}

// IssuedAt returns when the session was minted
func (g Guest) IssuedAt() time.Time { return g.MintedAt }

// Lifetime returns the guest session lifetime
func (Guest) Lifetime() time.Duration { return GuestLifetime }

// Admin is a credentialed administrator
type Admin struct {
	AdminID  string
	Username string
	MintedAt time.Time
}

func (Admin) sealed() {}

// IssuedAt returns when the session was minted
func (a Admin) IssuedAt() time.Time { return a.MintedAt }

// Lifetime returns the admin session lifetime
func (Admin) Lifetime() time.Duration { return AdminLifetime }

// Status classifies a token
type Status int

const (
	// Anonymous means the token was absent, malformed, or not ours
	Anonymous Status = iota
	// Expired means the token decoded but its lifetime has elapsed
	Expired
	// Valid means the token decoded and is within its lifetime
	Valid
)

// Classification is the result of decoding a token. Identity is set for
// Expired and Valid, nil for Anonymous.
type Classification struct {
	Status   Status
	Identity Identity
}

// Service mints and classifies session tokens. It is stateless: every method
// is a pure function of the token, the secret, and the current time.
type Service struct {
	secret []byte
	clock  clock.Clock
}

// New creates a session service signing with the given secret
func New(secret []byte, clk clock.Clock) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &Service{secret: secret, clock: clk}, nil
}

// tokenClaims is the raw wire schema shared by both token kinds. Which kind a
// token is gets decided once at decode time, never by field probing later.
type tokenClaims struct {
	Authenticated bool   `json:"authenticated,omitempty"`
	ClientID      string `json:"client_id,omitempty"`
	AdminID       string `json:"admin_id,omitempty"`
	Username      string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// MintGuest creates a guest session token for the given client identifier
func (s *Service) MintGuest(clientID string) (string, error) {
	claims := tokenClaims{
		Authenticated: true,
		ClientID:      clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(s.clock.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// MintAdmin creates an admin session token
func (s *Service) MintAdmin(adminID, username string) (string, error) {
	claims := tokenClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(s.clock.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Classify decodes a token and classifies the caller. It never returns an
// error: anything that fails to decode is simply Anonymous.
func (s *Service) Classify(token string) Classification {
	if token == "" {
		return Classification{Status: Anonymous}
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return Classification{Status: Anonymous}
	}
	if claims.IssuedAt == nil {
		return Classification{Status: Anonymous}
	}

	identity, ok := identityFromClaims(&claims)
	if !ok {
		return Classification{Status: Anonymous}
	}

	if s.clock.Now().After(identity.IssuedAt().Add(identity.Lifetime())) {
		return Classification{Status: Expired, Identity: identity}
	}
	return Classification{Status: Valid, Identity: identity}
}

// identityFromClaims resolves the sum type: admin tokens carry admin_id,
// guest tokens carry the authenticated flag. Anything else is no identity.
func identityFromClaims(c *tokenClaims) (Identity, bool) {
	// NumericDate round-trips through time.Unix in the local zone; pin the
	// result back to UTC so minted and decoded identities compare equal
	mintedAt := c.IssuedAt.Time.UTC()
	switch {
	case c.AdminID != "":
		return Admin{AdminID: c.AdminID, Username: c.Username, MintedAt: mintedAt}, true
	case c.Authenticated:
		return Guest{ClientID: c.ClientID, MintedAt: mintedAt}, true
	default:
		return nil, false
	}
}
