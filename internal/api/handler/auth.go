package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/keepsakehq/keepsake/internal/api/middleware"
	"github.com/keepsakehq/keepsake/internal/api/request"
	"github.com/keepsakehq/keepsake/internal/api/response"
	"github.com/keepsakehq/keepsake/internal/services/challenge"
	"github.com/keepsakehq/keepsake/internal/services/session"
)

// AuthHandler handles the knowledge challenge and session endpoints
type AuthHandler struct {
	challenges *challenge.Service
	sessions   *session.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(challenges *challenge.Service, sessions *session.Service) *AuthHandler {
	return &AuthHandler{
		challenges: challenges,
		sessions:   sessions,
	}
}

// GetQuestion handles GET /api/v1/auth/question
func (h *AuthHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.challenges.IssueChallenge(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.QuestionFromModel(question))
}

// Verify handles POST /api/v1/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.QuestionID == "" {
		WriteError(w, NewInvalidRequestError("question_id is required"))
		return
	}
	if req.Answer == "" {
		WriteError(w, NewInvalidRequestError("answer is required"))
		return
	}

	token, err := h.challenges.Verify(r.Context(), clientIP(r), req.QuestionID, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	setSessionCookie(w, middleware.GuestCookieName, token, session.GuestLifetime)
	response.JSON(w, http.StatusOK, response.VerifyResponse{Token: token})
}

// Logout handles POST /api/v1/auth/logout. Tokens are not revocable, so
// logout just clears both session cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	clearSessionCookie(w, middleware.GuestCookieName)
	clearSessionCookie(w, middleware.AdminCookieName)
	response.NoContent(w)
}

// GetSession handles GET /api/v1/auth/session. It reports how the caller's
// tokens classify without gating the request.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	for _, token := range middleware.CandidateTokens(r) {
		c := h.sessions.Classify(token)
		if c.Status != session.Valid {
			continue
		}
		role := "guest"
		if _, ok := c.Identity.(session.Admin); ok {
			role = "admin"
		}
		response.JSON(w, http.StatusOK, response.SessionResponse{
			Authenticated: true,
			Role:          role,
		})
		return
	}
	response.JSON(w, http.StatusOK, response.SessionResponse{Authenticated: false})
}

// clientIP resolves the caller's address for rate limiting, preferring
// proxy-set headers over the socket address
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
