package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsakehq/keepsake/internal/api/handler"
	"github.com/keepsakehq/keepsake/internal/api/middleware"
	"github.com/keepsakehq/keepsake/internal/services/admin"
	"github.com/keepsakehq/keepsake/internal/services/challenge"
	"github.com/keepsakehq/keepsake/internal/services/pet"
	"github.com/keepsakehq/keepsake/internal/services/records"
	"github.com/keepsakehq/keepsake/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	SessionService   *session.Service
	ChallengeService *challenge.Service
	AdminService     *admin.Service
	PetService       *pet.Service
	RecordsService   *records.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.ChallengeService, cfg.SessionService)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)
	questionHandler := handler.NewQuestionHandler(cfg.ChallengeService)
	petHandler := handler.NewPetHandler(cfg.PetService)
	recordsHandler := handler.NewRecordsHandler(cfg.RecordsService)

	// Create middleware
	siteGate := middleware.SiteGate(cfg.SessionService)
	adminGate := middleware.AdminGate(cfg.SessionService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (the site gate's own entrance, no session required)
	api.HandleFunc("/auth/question", authHandler.GetQuestion).Methods(http.MethodGet)
	api.HandleFunc("/auth/verify", authHandler.Verify).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", authHandler.GetSession).Methods(http.MethodGet)

	// Admin entrance routes (no session required)
	api.HandleFunc("/admin/register", adminHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Companion routes (any valid session)
	pets := api.PathPrefix("/pet").Subrouter()
	pets.Use(siteGate)
	pets.HandleFunc("", petHandler.Get).Methods(http.MethodGet)
	pets.HandleFunc("/feed", petHandler.Feed).Methods(http.MethodPost)
	pets.HandleFunc("/play", petHandler.Play).Methods(http.MethodPost)
	pets.HandleFunc("/experience", petHandler.AddExperience).Methods(http.MethodPost)
	pets.HandleFunc("/name", petHandler.Rename).Methods(http.MethodPatch)
	pets.HandleFunc("/color", petHandler.ChangeColor).Methods(http.MethodPatch)
	pets.HandleFunc("/equipment", petHandler.Equip).Methods(http.MethodPut)

	// Guestbook routes (any valid session)
	messages := api.PathPrefix("/messages").Subrouter()
	messages.Use(siteGate)
	messages.HandleFunc("", recordsHandler.CreateMessage).Methods(http.MethodPost)
	messages.HandleFunc("", recordsHandler.ListMessages).Methods(http.MethodGet)

	// Memo routes (any valid session)
	memos := api.PathPrefix("/memos").Subrouter()
	memos.Use(siteGate)
	memos.HandleFunc("", recordsHandler.CreateMemo).Methods(http.MethodPost)
	memos.HandleFunc("", recordsHandler.ListMemos).Methods(http.MethodGet)
	memos.HandleFunc("/{id}", recordsHandler.UpdateMemo).Methods(http.MethodPatch)
	memos.HandleFunc("/{id}", recordsHandler.DeleteMemo).Methods(http.MethodDelete)

	// Photo wall routes (any valid session; uploads are admin-only)
	photos := api.PathPrefix("/photos").Subrouter()
	photos.Use(siteGate)
	photos.HandleFunc("", recordsHandler.ListPhotos).Methods(http.MethodGet)

	// Admin management routes (admin session required)
	adminProtected := api.PathPrefix("/admin").Subrouter()
	adminProtected.Use(adminGate)
	adminProtected.HandleFunc("/accounts", adminHandler.List).Methods(http.MethodGet)
	adminProtected.HandleFunc("/accounts/{id}/approval", adminHandler.SetApproval).Methods(http.MethodPatch)
	adminProtected.HandleFunc("/accounts/{id}/password", adminHandler.ChangePassword).Methods(http.MethodPatch)
	adminProtected.HandleFunc("/accounts/{id}", adminHandler.Delete).Methods(http.MethodDelete)
	adminProtected.HandleFunc("/questions", questionHandler.Create).Methods(http.MethodPost)
	adminProtected.HandleFunc("/questions", questionHandler.List).Methods(http.MethodGet)
	adminProtected.HandleFunc("/questions/{id}", questionHandler.Delete).Methods(http.MethodDelete)
	adminProtected.HandleFunc("/messages/{id}", recordsHandler.DeleteMessage).Methods(http.MethodDelete)
	adminProtected.HandleFunc("/photos", recordsHandler.CreatePhoto).Methods(http.MethodPost)
	adminProtected.HandleFunc("/photos/{id}", recordsHandler.DeletePhoto).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
