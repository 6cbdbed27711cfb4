package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	questions     map[string]*model.SecurityQuestion
	admins        map[string]*model.AdminAccount
	usernameIndex map[string]string
	attempts      []*model.AuthAttempt
	pet           *model.Pet
	messages      map[string]*model.Message
	memos         map[string]*model.Memo
	photos        map[string]*model.Photo
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		questions:     make(map[string]*model.SecurityQuestion),
		admins:        make(map[string]*model.AdminAccount),
		usernameIndex: make(map[string]string),
		messages:      make(map[string]*model.Message),
		memos:         make(map[string]*model.Memo),
		photos:        make(map[string]*model.Photo),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Security question operations

func (s *Storage) SaveQuestion(ctx context.Context, q *model.SecurityQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id string) (*model.SecurityQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	return q, nil
}

func (s *Storage) ListQuestions(ctx context.Context) ([]*model.SecurityQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]*model.SecurityQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}

func (s *Storage) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return model.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// Admin account operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.AdminAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[admin.ID] = admin
	s.usernameIndex[admin.Username] = admin.ID
	return nil
}

func (s *Storage) GetAdmin(ctx context.Context, id string) (*model.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[id]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	return admin, nil
}

func (s *Storage) GetAdminByUsername(ctx context.Context, username string) (*model.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	admin, ok := s.admins[id]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	return admin, nil
}

func (s *Storage) ListAdmins(ctx context.Context) ([]*model.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins := make([]*model.AdminAccount, 0, len(s.admins))
	for _, a := range s.admins {
		admins = append(admins, a)
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.After(admins[j].CreatedAt)
	})
	return admins, nil
}

func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}

func (s *Storage) DeleteAdmin(ctx context.Context, id string, guard func(target *model.AdminAccount, approvedCount int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.admins[id]
	if !ok {
		return model.ErrAdminNotFound
	}

	approved := 0
	for _, a := range s.admins {
		if a.Status == model.AdminStatusApproved {
			approved++
		}
	}

	if err := guard(target, approved); err != nil {
		return err
	}

	delete(s.admins, id)
	delete(s.usernameIndex, target.Username)
	return nil
}

// Auth attempt operations

func (s *Storage) RecordAttempt(ctx context.Context, attempt *model.AuthAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *Storage) CountFailedAttempts(ctx context.Context, clientID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.attempts {
		if a.ClientID == clientID && !a.Success && !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// Companion operations

func (s *Storage) GetPet(ctx context.Context) (*model.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pet == nil {
		return nil, model.ErrPetNotFound
	}
	return clonePet(s.pet), nil
}

func (s *Storage) UpdatePet(ctx context.Context, seed *model.Pet, fn func(pet *model.Pet) error) (*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Work on a copy so a failing fn leaves the stored record untouched
	var working *model.Pet
	if s.pet != nil {
		working = clonePet(s.pet)
	} else {
		working = clonePet(seed)
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	s.pet = working
	return clonePet(working), nil
}

func clonePet(p *model.Pet) *model.Pet {
	c := *p
	c.Accessories = append([]string(nil), p.Accessories...)
	c.EquippedItems = make(map[string]string, len(p.EquippedItems))
	for k, v := range p.EquippedItems {
		c.EquippedItems[k] = v
	}
	c.DailyActions = make(map[string]model.DailyAction, len(p.DailyActions))
	for k, v := range p.DailyActions {
		c.DailyActions[k] = v
	}
	return &c
}

// Pass-through record operations

func (s *Storage) SaveMessage(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = m
	return nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]*model.Message, 0, len(s.messages))
	for _, m := range s.messages {
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (s *Storage) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return model.ErrMessageNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *Storage) SaveMemo(ctx context.Context, m *model.Memo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memos[m.ID] = m
	return nil
}

func (s *Storage) GetMemo(ctx context.Context, id string) (*model.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memos[id]
	if !ok {
		return nil, model.ErrMemoNotFound
	}
	return m, nil
}

func (s *Storage) ListMemos(ctx context.Context) ([]*model.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memos := make([]*model.Memo, 0, len(s.memos))
	for _, m := range s.memos {
		memos = append(memos, m)
	}
	sort.Slice(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
	return memos, nil
}

func (s *Storage) DeleteMemo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memos[id]; !ok {
		return model.ErrMemoNotFound
	}
	delete(s.memos, id)
	return nil
}

func (s *Storage) SavePhoto(ctx context.Context, p *model.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[p.ID] = p
	return nil
}

func (s *Storage) ListPhotos(ctx context.Context) ([]*model.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	photos := make([]*model.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
	return photos, nil
}

func (s *Storage) DeletePhoto(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		return model.ErrPhotoNotFound
	}
	delete(s.photos, id)
	return nil
}
