package response

import (
	"time"

	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/admin"
	"github.com/keepsakehq/keepsake/internal/services/pet"
)

// Question represents a challenge question in API responses. The answer hash
// never appears here.
type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionFromModel converts a model.SecurityQuestion to a response Question
func QuestionFromModel(q *model.SecurityQuestion) Question {
	return Question{
		ID:        q.ID,
		Question:  q.Question,
		Hint:      q.Hint,
		CreatedAt: q.CreatedAt,
	}
}

// QuestionsFromModel converts a slice of questions
func QuestionsFromModel(qs []*model.SecurityQuestion) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = QuestionFromModel(q)
	}
	return out
}

// VerifyResponse is the response for a correct challenge answer
type VerifyResponse struct {
	Token string `json:"token"`
}

// SessionResponse describes the caller's session
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
}

// AdminAccount represents an admin account in API responses, without the
// password hash
type AdminAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminAccountFromModel converts a model.AdminAccount
func AdminAccountFromModel(a *model.AdminAccount) AdminAccount {
	return AdminAccount{
		ID:        a.ID,
		Username:  a.Username,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

// AdminAccountsFromModel converts a slice of accounts
func AdminAccountsFromModel(as []*model.AdminAccount) []AdminAccount {
	out := make([]AdminAccount, len(as))
	for i, a := range as {
		out[i] = AdminAccountFromModel(a)
	}
	return out
}

// LoginResponse is the response for a successful admin login
type LoginResponse struct {
	Token string       `json:"token"`
	Admin AdminAccount `json:"admin"`
}

// LoginResponseFromResult creates a LoginResponse from a login result
func LoginResponseFromResult(r *admin.LoginResult) LoginResponse {
	return LoginResponse{
		Token: r.Token,
		Admin: AdminAccountFromModel(r.Admin),
	}
}

// DailyAction represents one daily interaction counter
type DailyAction struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Pet represents the companion in API responses
type Pet struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Color         string                 `json:"color"`
	Level         int                    `json:"level"`
	Experience    int                    `json:"experience"`
	RequiredExp   int                    `json:"required_exp"`
	Happiness     int                    `json:"happiness"`
	Hunger        int                    `json:"hunger"`
	Evolution     int                    `json:"evolution"`
	Accessories   []string               `json:"accessories"`
	EquippedItems map[string]string      `json:"equipped_items"`
	DailyActions  map[string]DailyAction `json:"daily_actions"`
	LastVisitAt   time.Time              `json:"last_visit_at"`
	LastFedAt     *time.Time             `json:"last_fed_at,omitempty"`
	LastPlayAt    *time.Time             `json:"last_play_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// PetFromModel converts a model.Pet to a response Pet
func PetFromModel(p *model.Pet) Pet {
	actions := make(map[string]DailyAction, len(p.DailyActions))
	for action, counter := range p.DailyActions {
		actions[action] = DailyAction{Count: counter.Count, Date: counter.Date}
	}
	accessories := p.Accessories
	if accessories == nil {
		accessories = []string{}
	}
	equipped := p.EquippedItems
	if equipped == nil {
		equipped = map[string]string{}
	}
	return Pet{
		ID:            p.ID,
		Name:          p.Name,
		Color:         p.Color,
		Level:         p.Level,
		Experience:    p.Experience,
		RequiredExp:   pet.RequiredExp(p.Level),
		Happiness:     p.Happiness,
		Hunger:        p.Hunger,
		Evolution:     p.Evolution,
		Accessories:   accessories,
		EquippedItems: equipped,
		DailyActions:  actions,
		LastVisitAt:   p.LastVisitAt,
		LastFedAt:     p.LastFedAt,
		LastPlayAt:    p.LastPlayAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ActionResponse is the response for companion interactions and experience
// grants
type ActionResponse struct {
	Pet       Pet  `json:"pet"`
	ExpGained int  `json:"exp_gained"`
	LeveledUp bool `json:"leveled_up"`
	Evolved   bool `json:"evolved"`
}

// ActionResponseFromResult creates an ActionResponse from an action result
func ActionResponseFromResult(r *pet.ActionResult) ActionResponse {
	return ActionResponse{
		Pet:       PetFromModel(r.Pet),
		ExpGained: r.ExpGained,
		LeveledUp: r.LeveledUp,
		Evolved:   r.Evolved,
	}
}

// Message represents a guestbook message
type Message struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageFromModel converts a model.Message
func MessageFromModel(m *model.Message) Message {
	return Message{
		ID:        m.ID,
		Nickname:  m.Nickname,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// MessagesFromModel converts a slice of messages
func MessagesFromModel(ms []*model.Message) []Message {
	out := make([]Message, len(ms))
	for i, m := range ms {
		out[i] = MessageFromModel(m)
	}
	return out
}

// Memo represents a memo
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoFromModel converts a model.Memo
func MemoFromModel(m *model.Memo) Memo {
	return Memo{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Done:      m.Done,
		CreatedAt: m.CreatedAt,
	}
}

// MemosFromModel converts a slice of memos
func MemosFromModel(ms []*model.Memo) []Memo {
	out := make([]Memo, len(ms))
	for i, m := range ms {
		out[i] = MemoFromModel(m)
	}
	return out
}

// Photo represents a photo wall entry
type Photo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoFromModel converts a model.Photo
func PhotoFromModel(p *model.Photo) Photo {
	return Photo{
		ID:        p.ID,
		URL:       p.URL,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}

// PhotosFromModel converts a slice of photos
func PhotosFromModel(ps []*model.Photo) []Photo {
	out := make([]Photo, len(ps))
	for i, p := range ps {
		out[i] = PhotoFromModel(p)
	}
	return out
}
