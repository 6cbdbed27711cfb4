package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// maxTxRetries bounds optimistic-lock retries on watched keys
const maxTxRetries = 5

// ErrTxRetriesExceeded is returned when a watched transaction keeps losing
// races against concurrent writers
var ErrTxRetriesExceeded = errors.New("redis transaction retries exceeded")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Security question operations

func (s *Storage) SaveQuestion(ctx context.Context, q *model.SecurityQuestion) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, questionKey(q.ID), data, 0)
	pipe.SAdd(ctx, questionIndexKey(), q.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetQuestion(ctx context.Context, id string) (*model.SecurityQuestion, error) {
	data, err := s.client.Get(ctx, questionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, err
	}

	var q model.SecurityQuestion
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Storage) ListQuestions(ctx context.Context) ([]*model.SecurityQuestion, error) {
	ids, err := s.client.SMembers(ctx, questionIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	questions := make([]*model.SecurityQuestion, 0, len(ids))
	for _, id := range ids {
		q, err := s.GetQuestion(ctx, id)
		if errors.Is(err, model.ErrQuestionNotFound) {
			// Index can briefly outlive a deleted record
			continue
		}
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}

func (s *Storage) DeleteQuestion(ctx context.Context, id string) error {
	exists, err := s.client.Exists(ctx, questionKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrQuestionNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, questionKey(id))
	pipe.SRem(ctx, questionIndexKey(), id)
	_, err = pipe.Exec(ctx)
	return err
}

// Admin account operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.AdminAccount) error {
	data, err := json.Marshal(admin)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, adminKey(admin.ID), data, 0)
	pipe.SAdd(ctx, adminIndexKey(), admin.ID)
	pipe.Set(ctx, usernameIndexKey(admin.Username), admin.ID, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAdmin(ctx context.Context, id string) (*model.AdminAccount, error) {
	data, err := s.client.Get(ctx, adminKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	var admin model.AdminAccount
	if err := json.Unmarshal(data, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Storage) GetAdminByUsername(ctx context.Context, username string) (*model.AdminAccount, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	return s.GetAdmin(ctx, id)
}

func (s *Storage) ListAdmins(ctx context.Context) ([]*model.AdminAccount, error) {
	ids, err := s.client.SMembers(ctx, adminIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	admins := make([]*model.AdminAccount, 0, len(ids))
	for _, id := range ids {
		admin, err := s.GetAdmin(ctx, id)
		if errors.Is(err, model.ErrAdminNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.After(admins[j].CreatedAt)
	})
	return admins, nil
}

func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, adminIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteAdmin runs the guard and the delete under WATCH so the approved-count
// check cannot race with a concurrent delete of another admin.
func (s *Storage) DeleteAdmin(ctx context.Context, id string, guard func(target *model.AdminAccount, approvedCount int) error) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, adminKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrAdminNotFound
			}
			return err
		}

		var target model.AdminAccount
		if err := json.Unmarshal(data, &target); err != nil {
			return err
		}

		ids, err := tx.SMembers(ctx, adminIndexKey()).Result()
		if err != nil {
			return err
		}

		approved := 0
		for _, otherID := range ids {
			other, err := tx.Get(ctx, adminKey(otherID)).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return err
			}
			var a model.AdminAccount
			if err := json.Unmarshal(other, &a); err != nil {
				return err
			}
			if a.Status == model.AdminStatusApproved {
				approved++
			}
		}

		if err := guard(&target, approved); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, adminKey(id))
			pipe.SRem(ctx, adminIndexKey(), id)
			pipe.Del(ctx, usernameIndexKey(target.Username))
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, adminKey(id), adminIndexKey())
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTxRetriesExceeded
}

// Auth attempt operations

func (s *Storage) RecordAttempt(ctx context.Context, attempt *model.AuthAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	// Append-only audit log of every attempt
	pipe.RPush(ctx, attemptLogKey(), data)
	// Failures additionally land in a per-client ZSET scored by time, so the
	// lockout window is a single ZCOUNT
	if !attempt.Success {
		key := failedAttemptsKey(attempt.ClientID)
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(attempt.CreatedAt.UnixMilli()),
			Member: attempt.ID,
		})
		pipe.Expire(ctx, key, s.cfg.AttemptTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) CountFailedAttempts(ctx context.Context, clientID string, since time.Time) (int, error) {
	n, err := s.client.ZCount(ctx, failedAttemptsKey(clientID),
		strconv.FormatInt(since.UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Companion operations

func (s *Storage) GetPet(ctx context.Context) (*model.Pet, error) {
	data, err := s.client.Get(ctx, petKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPetNotFound
		}
		return nil, err
	}

	var pet model.Pet
	if err := json.Unmarshal(data, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// UpdatePet applies fn inside a WATCH transaction so concurrent interactions
// cannot both pass a daily-cap check on the same stale counter.
func (s *Storage) UpdatePet(ctx context.Context, seed *model.Pet, fn func(pet *model.Pet) error) (*model.Pet, error) {
	var result *model.Pet

	txf := func(tx *redis.Tx) error {
		var pet model.Pet

		data, err := tx.Get(ctx, petKey()).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &pet); err != nil {
				return err
			}
		case errors.Is(err, redis.Nil):
			pet = *seed
		default:
			return err
		}

		if err := fn(&pet); err != nil {
			return err
		}

		out, err := json.Marshal(&pet)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, petKey(), out, 0)
			return nil
		})
		if err != nil {
			return err
		}

		result = &pet
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, petKey())
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrTxRetriesExceeded
}

// Pass-through record operations

func (s *Storage) SaveMessage(ctx context.Context, m *model.Message) error {
	return s.saveIndexed(ctx, messageKey(m.ID), messageIndexKey(), m.ID, m)
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	ids, err := s.client.SMembers(ctx, messageIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0, len(ids))
	for _, id := range ids {
		var m model.Message
		ok, err := s.getJSON(ctx, messageKey(id), &m)
		if err != nil {
			return nil, err
		}
		if ok {
			messages = append(messages, &m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (s *Storage) DeleteMessage(ctx context.Context, id string) error {
	return s.deleteIndexed(ctx, messageKey(id), messageIndexKey(), id, model.ErrMessageNotFound)
}

func (s *Storage) SaveMemo(ctx context.Context, m *model.Memo) error {
	return s.saveIndexed(ctx, memoKey(m.ID), memoIndexKey(), m.ID, m)
}

func (s *Storage) GetMemo(ctx context.Context, id string) (*model.Memo, error) {
	var m model.Memo
	ok, err := s.getJSON(ctx, memoKey(id), &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrMemoNotFound
	}
	return &m, nil
}

func (s *Storage) ListMemos(ctx context.Context) ([]*model.Memo, error) {
	ids, err := s.client.SMembers(ctx, memoIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	memos := make([]*model.Memo, 0, len(ids))
	for _, id := range ids {
		var m model.Memo
		ok, err := s.getJSON(ctx, memoKey(id), &m)
		if err != nil {
			return nil, err
		}
		if ok {
			memos = append(memos, &m)
		}
	}
	sort.Slice(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
	return memos, nil
}

func (s *Storage) DeleteMemo(ctx context.Context, id string) error {
	return s.deleteIndexed(ctx, memoKey(id), memoIndexKey(), id, model.ErrMemoNotFound)
}

func (s *Storage) SavePhoto(ctx context.Context, p *model.Photo) error {
	return s.saveIndexed(ctx, photoKey(p.ID), photoIndexKey(), p.ID, p)
}

func (s *Storage) ListPhotos(ctx context.Context) ([]*model.Photo, error) {
	ids, err := s.client.SMembers(ctx, photoIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	photos := make([]*model.Photo, 0, len(ids))
	for _, id := range ids {
		var p model.Photo
		ok, err := s.getJSON(ctx, photoKey(id), &p)
		if err != nil {
			return nil, err
		}
		if ok {
			photos = append(photos, &p)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
	return photos, nil
}

func (s *Storage) DeletePhoto(ctx context.Context, id string) error {
	return s.deleteIndexed(ctx, photoKey(id), photoIndexKey(), id, model.ErrPhotoNotFound)
}

// Shared helpers

func (s *Storage) saveIndexed(ctx context.Context, key, indexKey, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

func (s *Storage) deleteIndexed(ctx context.Context, key, indexKey, id string, notFound error) error {
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return notFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, indexKey, id)
	_, err = pipe.Exec(ctx)
	return err
}
