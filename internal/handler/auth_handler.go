package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/monitoring"
	"microblog/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users  repository.UserStore
	tokens *auth.TokenManager
	google auth.GoogleVerifier
}

func NewAuthHandler(users repository.UserStore, tokens *auth.TokenManager, google auth.GoogleVerifier) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, google: google}
}

func validateSignup(req domain.SignupRequest) string {
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 20 {
		return "Username must be 3-20 characters"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return "Invalid email address"
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	if n := utf8.RuneCountInString(req.DisplayName); n < 1 || n > 50 {
		return "Display name must be 1-50 characters"
	}
	return ""
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateSignup(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate uuid")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.CreateUser(ctx, id.String(), req.Username, req.Email, req.Password, req.DisplayName, nil, nil)
	if errors.Is(err, repository.ErrDuplicateUser) {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	monitoring.SignupSuccess.Inc()
	respondJSON(w, http.StatusOK, domain.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		monitoring.LoginFailure.WithLabelValues("unknown_email").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to look up user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	userAuth, err := h.users.GetUserAuth(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load credentials")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.users.VerifyPassword(userAuth.HashedPassword, req.Password); err != nil {
		monitoring.LoginFailure.WithLabelValues("bad_password").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	monitoring.LoginSuccess.Inc()
	respondJSON(w, http.StatusOK, domain.AuthResponse{User: user, Token: token})
}

// Google exchanges a verified Google ID token for a session, provisioning an
// account on first sight of the email address.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Credential == "" {
		respondError(w, http.StatusBadRequest, "Credential is required")
		return
	}

	claims, err := h.google.Verify(ctx, req.Credential)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid assertion")
		return
	}

	user, err := h.users.GetUserByEmail(ctx, claims.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = h.provision(r, claims)
		if err != nil {
			logrus.WithError(err).Error("Failed to provision google account")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		monitoring.SignupSuccess.Inc()
	} else if err != nil {
		logrus.WithError(err).Error("Failed to look up user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	monitoring.LoginSuccess.Inc()
	respondJSON(w, http.StatusOK, domain.AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) provision(r *http.Request, claims *auth.GoogleClaims) (*domain.User, error) {
	ctx := r.Context()

	base := usernameFromEmail(claims.Email)
	username := base
	for suffix := 1; ; suffix++ {
		exists, err := h.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		username = base + strconv.Itoa(suffix)
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = base
	}
	var avatar *string
	if claims.Picture != "" {
		avatar = &claims.Picture
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	// The account never logs in with a password; store an unguessable one.
	return h.users.CreateUser(ctx, id.String(), username, claims.Email, uuid.NewString(), displayName, nil, avatar)
}

// usernameFromEmail derives a handle from the address's local part, keeping
// only word characters.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToLower(local)

	var b strings.Builder
	for _, c := range local {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
