package service

import (
	"context"
	"errors"
	"time"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/common/security"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/sessions"

	"github.com/google/uuid"
)

// RefreshTokenStore holds opaque refresh tokens between requests.
// *sessions.TokenStore is the Redis-backed implementation.
type RefreshTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   RefreshTokenStore
	log      *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens RefreshTokenStore, log *logger.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, log: log}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	LoginField string `json:"login_field" validate:"required"` // Can be username or email
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleLearner, // Signup never grants admin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate username/email
		return nil, common.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Try finding by email first, then by username
	user, err := s.userRepo.FindByEmail(ctx, req.LoginField)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
		}
	}

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, common.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the old one is revoked and a new pair is
// issued. An unknown or expired token maps to Unauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, common.ErrBadRequest
	}

	userID, err := s.tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sessions.ErrTokenNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.Errorf("failed to look up refresh token: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.Errorf("failed to find user: %w", err)
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, common.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.ErrBadRequest
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return common.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to find user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*AuthResponse, error) {
	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.tokens.Save(ctx, refreshToken, user.ID, config.AppConfig.RefreshExp); err != nil {
		return nil, common.Errorf("failed to store refresh token: %w", err)
	}

	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token, RefreshToken: refreshToken}, nil
}
