package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/mailer"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

const resetTokenTTL = time.Hour

// Options tune session lifetimes and the simulated identity check.
type Options struct {
	JWTSecret         string
	SessionTTL        time.Duration
	RememberMeTTL     time.Duration
	ResetURL          string
	VerificationDelay time.Duration
}

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	resetRepo   repository.PasswordResetRepository
	mailer      mailer.Mailer
	validate    *validator.Validate
	opts        Options
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.PasswordResetRepository,
	m mailer.Mailer,
	v *validator.Validate,
	opts Options,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		mailer:      m,
		validate:    v,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

// SignupRequest represents the sign up form
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest represents the sign in form
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// ConfirmResetRequest sets a new password with a reset token
type ConfirmResetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// Signup registers a new account and signs it in.
func (uc *AuthUseCase) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.RegisteredUser{
		User: domain.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Verified:  false,
			CreatedAt: uc.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if err := uc.userRepo.Register(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	uc.logger.Info("user signed up", zap.String("user_id", user.ID))

	resp, err := uc.createSession(ctx, &user.User, uc.opts.SessionTTL)
	if err != nil {
		return nil, err
	}
	resp.IsNewUser = true
	return resp, nil
}

// Login checks the credentials and starts a session. Remember me extends
// the session lifetime.
func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrIncorrectPassword
	}

	ttl := uc.opts.SessionTTL
	if req.RememberMe {
		ttl = uc.opts.RememberMeTTL
	}

	u := user.User
	u.Verified = true
	return uc.createSession(ctx, &u, ttl)
}

// Logout ends the user's session. The stored profile is kept.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	if err := uc.sessionRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Me returns the signed-in user.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	session, err := uc.sessionRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

// ResetPassword e-mails a one-time password reset link.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := uc.validate.Var(email, "required,email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email address")
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	reset := &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: uc.now().Add(resetTokenTTL),
	}
	if err := uc.resetRepo.Save(ctx, reset); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	link := uc.opts.ResetURL + "?" + url.Values{"email": {email}, "token": {token}}.Encode()
	if err := uc.mailer.SendPasswordReset(ctx, email, link); err != nil {
		return err
	}
	return nil
}

// ConfirmPasswordReset sets a new password and signs out every session.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, req *ConfirmResetRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(uc.validate, req); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	reset, err := uc.resetRepo.Get(ctx, user.ID)
	if err != nil {
		return err
	}
	if reset.IsExpired(uc.now()) ||
		subtle.ConstantTimeCompare([]byte(reset.TokenHash), []byte(hashToken(req.Token))) != 1 {
		return domain.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := uc.resetRepo.Delete(ctx, user.ID); err != nil {
		uc.logger.Warn("failed to delete used reset token", zap.String("user_id", user.ID), zap.Error(err))
	}
	return uc.Logout(ctx, user.ID)
}

// VerifyAge reports whether someone born on birthDate is an adult on today.
func (uc *AuthUseCase) VerifyAge(birthDate, today time.Time) bool {
	return domain.IsAdult(birthDate, today)
}

// VerifyIdentity simulates the identity check: it waits for the configured
// delay and accepts any non-empty selfie and document.
func (uc *AuthUseCase) VerifyIdentity(ctx context.Context, selfie, document string) (bool, error) {
	if strings.TrimSpace(selfie) == "" || strings.TrimSpace(document) == "" {
		return false, domain.NewValidationError("selfie", "selfie and document are required")
	}

	timer := time.NewTimer(uc.opts.VerificationDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}

// VerifyToken verifies JWT token and returns the user ID
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.opts.JWTSecret), nil
	}, jwt.WithTimeFunc(uc.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", domain.ErrSessionExpired
	}
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", domain.ErrInvalidToken
	}

	// Only the latest session of a user is valid
	session, err := uc.sessionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if session.TokenHash != hashToken(tokenString) {
		return "", domain.ErrSessionNotFound
	}
	if uc.now().After(session.ExpiresAt) {
		return "", domain.ErrSessionExpired
	}

	return userID, nil
}

// createSession signs a JWT and stores it as the user's current session.
func (uc *AuthUseCase) createSession(ctx context.Context, user *domain.User, ttl time.Duration) (*AuthResponse, error) {
	now := uc.now()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString([]byte(uc.opts.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.Session{
		User:      *user,
		TokenHash: hashToken(tokenString),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
