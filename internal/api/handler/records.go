package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsakehq/keepsake/internal/api/request"
	"github.com/keepsakehq/keepsake/internal/api/response"
	"github.com/keepsakehq/keepsake/internal/services/records"
)

// RecordsHandler handles guestbook messages, memos, and photo wall endpoints
type RecordsHandler struct {
	records *records.Service
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(recordsService *records.Service) *RecordsHandler {
	return &RecordsHandler{
		records: recordsService,
	}
}

// CreateMessage handles POST /api/v1/messages
func (h *RecordsHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	message, err := h.records.CreateMessage(r.Context(), req.Nickname, req.Content)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageFromModel(message))
}

// ListMessages handles GET /api/v1/messages
func (h *RecordsHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.records.ListMessages(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MessagesFromModel(messages))
}

// DeleteMessage handles DELETE /api/v1/admin/messages/{id}
func (h *RecordsHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteMessage(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// CreateMemo handles POST /api/v1/memos
func (h *RecordsHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	memo, err := h.records.CreateMemo(r.Context(), req.Title, req.Content)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MemoFromModel(memo))
}

// ListMemos handles GET /api/v1/memos
func (h *RecordsHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.records.ListMemos(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MemosFromModel(memos))
}

// UpdateMemo handles PATCH /api/v1/memos/{id}
func (h *RecordsHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	memo, err := h.records.SetMemoDone(r.Context(), mux.Vars(r)["id"], req.Done)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MemoFromModel(memo))
}

// DeleteMemo handles DELETE /api/v1/memos/{id}
func (h *RecordsHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteMemo(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// CreatePhoto handles POST /api/v1/admin/photos
func (h *RecordsHandler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	photo, err := h.records.CreatePhoto(r.Context(), req.URL, req.Caption)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PhotoFromModel(photo))
}

// ListPhotos handles GET /api/v1/photos
func (h *RecordsHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.records.ListPhotos(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PhotosFromModel(photos))
}

// DeletePhoto handles DELETE /api/v1/admin/photos/{id}
func (h *RecordsHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeletePhoto(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
