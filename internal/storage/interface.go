package storage

import (
	"context"
	"time"

	"github.com/keepsakehq/keepsake/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Security question operations
	SaveQuestion(ctx context.Context, q *model.SecurityQuestion) error
	GetQuestion(ctx context.Context, id string) (*model.SecurityQuestion, error)
	ListQuestions(ctx context.Context) ([]*model.SecurityQuestion, error)
	DeleteQuestion(ctx context.Context, id string) error

	// Admin account operations
	SaveAdmin(ctx context.Context, admin *model.AdminAccount) error
	GetAdmin(ctx context.Context, id string) (*model.AdminAccount, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.AdminAccount, error)
	ListAdmins(ctx context.Context) ([]*model.AdminAccount, error)
	CountAdmins(ctx context.Context) (int, error)
	// DeleteAdmin removes an account after the guard passes. The guard runs
	// atomically with the delete against the current approved-account count,
	// so invariants like "keep at least one approved admin" cannot race with
	// concurrent deletes.
	DeleteAdmin(ctx context.Context, id string, guard func(target *model.AdminAccount, approvedCount int) error) error

	// Auth attempt operations. Records are append-only; reads filter by age.
	RecordAttempt(ctx context.Context, attempt *model.AuthAttempt) error
	CountFailedAttempts(ctx context.Context, clientID string, since time.Time) (int, error)

	// Companion operations. UpdatePet is the only mutation path: it applies
	// fn to the stored record (or to seed when no record exists yet) as a
	// single atomic read-modify-write and returns the stored result. If fn
	// returns an error nothing is persisted.
	GetPet(ctx context.Context) (*model.Pet, error)
	UpdatePet(ctx context.Context, seed *model.Pet, fn func(pet *model.Pet) error) (*model.Pet, error)

	// Pass-through record operations
	SaveMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context) ([]*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	SaveMemo(ctx context.Context, m *model.Memo) error
	GetMemo(ctx context.Context, id string) (*model.Memo, error)
	ListMemos(ctx context.Context) ([]*model.Memo, error)
	DeleteMemo(ctx context.Context, id string) error

	SavePhoto(ctx context.Context, p *model.Photo) error
	ListPhotos(ctx context.Context) ([]*model.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
}
