package request

// VerifyRequest is the request body for answering a challenge
type VerifyRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// RegisterRequest is the request body for admin registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ApprovalRequest is the request body for approving or rejecting an account
type ApprovalRequest struct {
	Approve bool `json:"approve"`
}

// ChangePasswordRequest is the request body for changing a password
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// CreateQuestionRequest is the request body for creating a challenge question
type CreateQuestionRequest struct {
	Question string `json:"question"`
	Hint     string `json:"hint"`
	Answer   string `json:"answer"`
}

// RenamePetRequest is the request body for renaming the companion
type RenamePetRequest struct {
	Name string `json:"name"`
}

// ChangeColorRequest is the request body for changing the companion's color
type ChangeColorRequest struct {
	Color string `json:"color"`
}

// EquipRequest is the request body for changing equipped items, keyed by slot
type EquipRequest struct {
	Items map[string]string `json:"items"`
}

// AddExperienceRequest is the request body for granting activity experience
type AddExperienceRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

// CreateMessageRequest is the request body for posting a guestbook message
type CreateMessageRequest struct {
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
}

// CreateMemoRequest is the request body for creating a memo
type CreateMemoRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateMemoRequest is the request body for toggling a memo's completion
type UpdateMemoRequest struct {
	Done bool `json:"done"`
}

// CreatePhotoRequest is the request body for adding a photo wall entry
type CreatePhotoRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}
