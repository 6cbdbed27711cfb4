package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsakehq/keepsake/internal/api/middleware"
	"github.com/keepsakehq/keepsake/internal/api/request"
	"github.com/keepsakehq/keepsake/internal/api/response"
	"github.com/keepsakehq/keepsake/internal/services/admin"
	"github.com/keepsakehq/keepsake/internal/services/session"
)

// AdminHandler handles admin account endpoints
type AdminHandler struct {
	admins *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admins *admin.Service) *AdminHandler {
	return &AdminHandler{
		admins: admins,
	}
}

// Register handles POST /api/v1/admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	account, err := h.admins.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AdminAccountFromModel(account))
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	result, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	setSessionCookie(w, middleware.AdminCookieName, result.Token, session.AdminLifetime)
	response.JSON(w, http.StatusOK, response.LoginResponseFromResult(result))
}

// List handles GET /api/v1/admin/accounts
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.admins.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AdminAccountsFromModel(accounts))
}

// SetApproval handles PATCH /api/v1/admin/accounts/{id}/approval
func (h *AdminHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req request.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	account, err := h.admins.SetApproval(r.Context(), id, req.Approve)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AdminAccountFromModel(account))
}

// ChangePassword handles PATCH /api/v1/admin/accounts/{id}/password
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.admins.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/admin/accounts/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.admins.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
