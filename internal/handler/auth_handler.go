package handler

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/middleware"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	resetCodeTTL      = 15 * time.Minute
	resetJobTimeout   = 30 * time.Second
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

type AuthHandler struct {
	jwtSecret string
	tokenTTL  time.Duration
	repo      *repository.AccountRepository
	codes     *repository.ResetCodeRepository
	mailer    Mailer
	logger    *zap.Logger
	jobs      sync.WaitGroup
}

func NewAuthHandler(
	jwtSecret string,
	tokenTTL time.Duration,
	repo *repository.AccountRepository,
	codes *repository.ResetCodeRepository,
	mailer Mailer,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		repo:      repo,
		codes:     codes,
		mailer:    mailer,
		logger:    logger,
	}
}

// Wait blocks until every background reset job has finished.
func (h *AuthHandler) Wait() {
	h.jobs.Wait()
}

// validEmail wants one "@" with a local part before it and a domain whose last
// dot has a label on both sides.
func validEmail(email string) bool {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(host, "@") {
		return false
	}
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if username == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}

	ctx := r.Context()
	if existing, err := h.repo.GetByUsername(ctx, username); err != nil {
		h.logger.Error("register: username lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "username already exists")
		return
	}
	if existing, err := h.repo.GetByEmail(ctx, email); err != nil {
		h.logger.Error("register: email lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "email already exists")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	accountID, err := h.repo.Create(ctx, username, email, string(passwordHash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "username or email already exists")
			return
		}
		h.logger.Error("register: create account failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	token, err := middleware.GenerateToken(accountID, username, h.jwtSecret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.logger.Info("account created", zap.Int64("account_id", accountID), zap.String("username", username))
	writeJSON(w, http.StatusCreated, domain.TokenResponse{Token: token, Username: username})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	account, err := h.repo.GetByUsername(r.Context(), username)
	if err != nil {
		h.logger.Error("login: lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}
	if account == nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(account.ID, account.Username, h.jwtSecret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, domain.TokenResponse{Token: token, Username: account.Username})
}

// ForgotPassword always answers the same way so callers cannot tell which
// emails are registered. The lookup and mail happen in a background job.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	const reply = "if the email exists, a code has been sent"

	var req domain.ForgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": reply})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email != "" {
		h.jobs.Add(1)
		go func() {
			defer h.jobs.Done()
			ctx, cancel := context.WithTimeout(context.Background(), resetJobTimeout)
			defer cancel()
			h.sendResetCode(ctx, email)
		}()
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}

func (h *AuthHandler) sendResetCode(ctx context.Context, email string) {
	log := h.logger.With(zap.String("email", email))

	account, err := h.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("forgot-password: lookup failed", zap.Error(err))
		return
	}
	if account == nil {
		return
	}

	if err := h.codes.DeleteByAccountID(ctx, account.ID); err != nil {
		log.Warn("forgot-password: failed to delete old codes", zap.Error(err))
	}

	code, err := generateOTP()
	if err != nil {
		log.Error("forgot-password: failed to generate code", zap.Error(err))
		return
	}

	if err := h.codes.Create(ctx, account.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		log.Error("forgot-password: failed to save code", zap.Error(err))
		return
	}

	if err := h.mailer.SendPasswordReset(ctx, email, code); err != nil {
		log.Error("forgot-password: failed to send mail", zap.Error(err))
		return
	}
	log.Info("forgot-password: reset code sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Code == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, code and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	ctx := r.Context()
	code, err := h.codes.GetValid(ctx, email, req.Code)
	if err != nil {
		h.logger.Error("reset-password: lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to verify code")
		return
	}
	if code == nil {
		if err := h.codes.RecordFailedAttempt(ctx, email); err != nil {
			h.logger.Warn("reset-password: failed to record attempt", zap.Error(err))
		}
		writeError(w, http.StatusUnauthorized, "invalid or expired code")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.repo.UpdatePassword(ctx, code.AccountID, string(passwordHash)); err != nil {
		h.logger.Error("reset-password: update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	if err := h.codes.MarkUsed(ctx, code.ID); err != nil {
		h.logger.Warn("reset-password: failed to mark code used", zap.Int64("code_id", code.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset successful"})
}

func generateOTP() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	return fmt.Sprintf("%06d", n%1000000), nil
}
