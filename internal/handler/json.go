package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/url-shortener/internal/auth"
	"github.com/avolkov/url-shortener/internal/middleware"
	"github.com/avolkov/url-shortener/internal/service"
	"github.com/avolkov/url-shortener/internal/storage"
)

type ShortenRequest struct {
	URL     string `json:"url"`
	ShortID string `json:"short_id,omitempty"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AdjustLimitRequest struct {
	Limit int `json:"limit"`
}

type AdjustLimitResponse struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

type AccountResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	URLLimit int    `json:"url_limit"`
	IsAdmin  bool   `json:"is_admin"`
}

type ErrorResponse struct {
	Error        string `json:"error"`
	ShortID      string `json:"short_id,omitempty"`
	Limit        *int   `json:"limit,omitempty"`
	CurrentCount *int   `json:"current_count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	response, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// decodeJSON reads the request body as JSON. A JSON content type is
// required unless the payload arrives gzip-compressed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	contentType := r.Header.Get("Content-Type")
	contentEncoding := r.Header.Get("Content-Encoding")

	if contentEncoding != "gzip" && !strings.Contains(contentType, "application/json") {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}

	return true
}

func (h *Handler) handleShorten(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var request ShortenRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	mapping, err := h.urlService.CreateShortURL(r.Context(), userID, request.URL, request.ShortID)
	if err != nil {
		h.writeShortenError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ShortenResponse{Result: h.urlService.ShortURL(mapping.ShortID)})
}

func (h *Handler) writeShortenError(w http.ResponseWriter, err error) {
	var quotaErr *service.QuotaExceededError
	if errors.As(err, &quotaErr) {
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error:        "quota exceeded",
			Limit:        &quotaErr.Limit,
			CurrentCount: &quotaErr.Count,
		})
		return
	}

	var takenErr *service.ShortIDTakenError
	if errors.As(err, &takenErr) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "short ID already in use",
			ShortID: takenErr.ShortID,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrAllocationExhausted):
		// A distinct "try again" condition: every generated candidate
		// collided, no mapping was written.
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "allocation attempts exhausted, try again"})
	case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidShortID):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAccountNotFound):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, storage.ErrUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) handleListUserURLs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	urls, err := h.urlService.ListUserURLs(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, urls)
}

func (h *Handler) handleListAllURLs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	urls, err := h.urlService.ListAllURLs(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			w.WriteHeader(http.StatusForbidden)
		case errors.Is(err, service.ErrAccountNotFound):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, urls)
}

func (h *Handler) handleQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	status, err := h.urlService.CheckQuota(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleAdjustLimit(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	targetUserID := chi.URLParam(r, "userID")
	if targetUserID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var request AdjustLimitRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	err := h.urlService.AdjustURLLimit(r.Context(), adminID, targetUserID, request.Limit)
	if err != nil {
		var limitErr *service.InvalidLimitError
		if errors.As(err, &limitErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:        err.Error(),
				Limit:        &limitErr.Requested,
				CurrentCount: &limitErr.Current,
			})
			return
		}

		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			w.WriteHeader(http.StatusForbidden)
		case errors.Is(err, service.ErrAccountNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, AdjustLimitResponse{UserID: targetUserID, Limit: request.Limit})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Username == "" || request.Password == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}

	account, err := h.accounts.Register(r.Context(), request.Username, request.Password, request.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAccountExists):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "username already taken"})
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		UserID:   account.UserID,
		Username: account.Username,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	token, err := h.accounts.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, auth.ErrAccountDisabled):
			w.WriteHeader(http.StatusForbidden)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		UserID:   account.UserID,
		Username: account.Username,
		URLLimit: account.URLLimit,
		IsAdmin:  account.IsAdmin,
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var request ChangePasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "new password is required"})
		return
	}

	err := h.accounts.ChangePassword(r.Context(), userID, request.OldPassword, request.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, storage.ErrUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
