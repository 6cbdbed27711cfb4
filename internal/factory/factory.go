package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/dependencies/random"
	"github.com/keepsakehq/keepsake/internal/services/admin"
	"github.com/keepsakehq/keepsake/internal/services/challenge"
	"github.com/keepsakehq/keepsake/internal/services/pet"
	"github.com/keepsakehq/keepsake/internal/services/records"
	"github.com/keepsakehq/keepsake/internal/services/session"
	"github.com/keepsakehq/keepsake/internal/storage"
	"github.com/keepsakehq/keepsake/internal/storage/memory"
	redisstorage "github.com/keepsakehq/keepsake/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SessionService   *session.Service
	ChallengeService *challenge.Service
	AdminService     *admin.Service
	PetService       *pet.Service
	RecordsService   *records.Service
}

// Config holds configuration for the application factory
type Config struct {
	// SessionSecret signs session tokens (required)
	SessionSecret []byte
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.SessionSecret, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, secret []byte, logger *slog.Logger) (*App, error) {
	sessionService, err := session.New(secret, clk)
	if err != nil {
		return nil, err
	}

	challengeService := challenge.New(store, clk, rnd, sessionService, logger)
	adminService := admin.New(store, clk, sessionService, logger)
	petService := pet.New(store, clk, logger)
	recordsService := records.New(store, clk, petService, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		SessionService:   sessionService,
		ChallengeService: challengeService,
		AdminService:     adminService,
		PetService:       petService,
		RecordsService:   recordsService,
	}, nil
}
