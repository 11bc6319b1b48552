// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers holds the HTTP handlers of the public and admin APIs.
package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"recree/internal/apperrors"
	"recree/internal/httputil"
	"recree/internal/middleware"
	"recree/internal/models"
	"recree/internal/session"
	"recree/internal/validate"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "reCree"

// UserRepository is the subset of store.UserStore the auth handlers need.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	ResetTOTP(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Auth groups the login, two-factor and logout handlers.
type Auth struct {
	sessions *session.Store
	users    UserRepository
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users UserRepository) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// loginResponse tells the client which two-factor step comes next.
type loginResponse struct {
	User          *models.User `json:"user"`
	TwoFactorStep string       `json:"two_factor_step"` // "setup" or "verify"
}

type setupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCodePNG  string `json:"qr_code_png"` // base64
}

// Login checks credentials and opens a session that still needs the
// second factor.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid email or password"))
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	step := "verify"
	if user.Needs2FASetup() {
		step = "setup"
	}
	slog.Info("login", "user_id", user.ID, "two_factor_step", step)
	httputil.WriteData(w, http.StatusOK, loginResponse{User: user, TwoFactorStep: step})
}

// TwoFASetup generates a new TOTP secret for a user who has not enrolled
// yet and returns it with a QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("session user no longer exists"))
		return
	}
	if user.TOTPEnabled {
		httputil.WriteError(w, r, apperrors.Forbidden("two-factor authentication is already enrolled"))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, setupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCodePNG:  base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify checks a TOTP code. The first valid code after setup enables
// two-factor authentication for the user.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req verifyRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("session user no longer exists"))
		return
	}
	if user.TOTPSecret == nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("two-factor setup has not been started"))
		return
	}
	if !totp.Validate(req.Code, *user.TOTPSecret) {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid two-factor code"))
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		user.TOTPEnabled = true
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	slog.Info("two-factor verified", "user_id", user.ID)
	httputil.WriteData(w, http.StatusOK, user)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session of the current user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, middleware.SessionFromCtx(r.Context()))
}

// ResetTwoFA clears another user's TOTP enrollment so they set it up again
// on their next login. Admin only.
func (a *Auth) ResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, urlParam(r, "id"))
	if !ok {
		return
	}

	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if user == nil {
		httputil.WriteError(w, r, apperrors.NotFound("user", id.String()))
		return
	}
	if err := a.users.ResetTOTP(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	slog.Info("two-factor reset", "user_id", id, "by", middleware.SessionFromCtx(r.Context()).UserID)
	w.WriteHeader(http.StatusNoContent)
}
