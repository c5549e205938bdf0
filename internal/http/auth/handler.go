package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/user"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *user.User, error)
	Authenticate(ctx context.Context, raw string) (*user.User, *user.Claims, error)
	Logout(ctx context.Context, claims *user.Claims) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts login publicly and logout behind Authenticate.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.With(h.Authenticate).Post("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Admin: u.Admin, CreatedAt: u.CreatedAt}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Token: token, User: ToUserResponse(u)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := FromContext(r.Context())

	if err := h.svc.Logout(r.Context(), claims); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ctxKey struct{}

type principal struct {
	user   *user.User
	claims *user.Claims
}

// FromContext returns the caller set by Authenticate.
func FromContext(ctx context.Context) (*user.User, *user.Claims, bool) {
	p, ok := ctx.Value(ctxKey{}).(principal)
	if !ok {
		return nil, nil, false
	}

	return p.user, p.claims, true
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respond.Error(w, r, user.ErrInvalidToken)
			return
		}

		u, claims, err := h.svc.Authenticate(r.Context(), strings.TrimSpace(raw))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, principal{user: u, claims: claims})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _, ok := FromContext(r.Context())
		if !ok || !u.Admin {
			respond.JSON(w, http.StatusForbidden, map[string]string{"error": "admin only"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
