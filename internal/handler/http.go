package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avolkov/url-shortener/internal/logger"
	"github.com/avolkov/url-shortener/internal/middleware"
	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

type URLService interface {
	CreateShortURL(ctx context.Context, ownerID, targetURL, customShortID string) (model.URL, error)
	ResolveShortURL(ctx context.Context, shortID string) (string, error)
	CheckQuota(ctx context.Context, userID string) (model.QuotaStatus, error)
	AdjustURLLimit(ctx context.Context, adminID, targetUserID string, newLimit int) error
	ListUserURLs(ctx context.Context, userID string) ([]model.UserURL, error)
	ListAllURLs(ctx context.Context, adminID string) ([]model.UserURL, error)
	ShortURL(shortID string) string
}

type AccountService interface {
	Register(ctx context.Context, username, password string, isAdmin bool) (model.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetAccount(ctx context.Context, userID string) (model.Account, error)
}

type DBPinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	urlService URLService
	accounts   AccountService
	dbPinger   DBPinger
	authMW     *middleware.AuthMiddleware
}

func NewHandler(urlService URLService, accounts AccountService, dbPinger DBPinger, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{
		urlService: urlService,
		accounts:   accounts,
		dbPinger:   dbPinger,
		authMW:     authMW,
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Post("/api/users", h.handleRegister)
	r.Post("/api/token", h.handleLogin)
	r.Get("/ping", h.handlePing)
	r.Get("/{shortID}", h.handleRedirect)

	r.Group(func(r chi.Router) {
		r.Use(h.authMW.RequireAuth)

		r.Post("/api/shorten", h.handleShorten)
		r.Get("/api/user/urls", h.handleListUserURLs)
		r.Get("/api/user/quota", h.handleQuota)
		r.Get("/api/urls", h.handleListAllURLs)
		r.Post("/api/users/{userID}/limit", h.handleAdjustLimit)
		r.Get("/api/users/me", h.handleCurrentUser)
		r.Post("/api/users/password", h.handleChangePassword)
	})

	return r
}

func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	shortID := chi.URLParam(r, "shortID")
	if shortID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	originalURL, err := h.urlService.ResolveShortURL(r.Context(), shortID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if errors.Is(err, storage.ErrUnavailable) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", originalURL)
	w.Header().Set("X-Original-URL", originalURL)
	w.WriteHeader(http.StatusTemporaryRedirect)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if h.dbPinger == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.dbPinger.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
