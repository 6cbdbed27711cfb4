package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsakehq/keepsake/internal/api/request"
	"github.com/keepsakehq/keepsake/internal/api/response"
	"github.com/keepsakehq/keepsake/internal/services/challenge"
)

// QuestionHandler handles challenge question management. All routes sit
// behind the admin gate.
type QuestionHandler struct {
	challenges *challenge.Service
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(challenges *challenge.Service) *QuestionHandler {
	return &QuestionHandler{
		challenges: challenges,
	}
}

// Create handles POST /api/v1/admin/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Question == "" {
		WriteError(w, NewInvalidRequestError("question is required"))
		return
	}
	if req.Answer == "" {
		WriteError(w, NewInvalidRequestError("answer is required"))
		return
	}

	question, err := h.challenges.CreateQuestion(r.Context(), req.Question, req.Hint, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.QuestionFromModel(question))
}

// List handles GET /api/v1/admin/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.challenges.ListQuestions(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.QuestionsFromModel(questions))
}

// Delete handles DELETE /api/v1/admin/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.challenges.DeleteQuestion(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
