package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/logger"
	"github.com/guttosm/fipe-service/internal/repository"
)

// AuthService provides authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error)
	Register(ctx context.Context, name, email, password string) (*dto.TokenPair, *model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, *model.User, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*model.User, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

// AuthServiceImpl implements AuthService.
// It handles user authentication and delegates token operations to TokenService.
type AuthServiceImpl struct {
	userRepo     repository.UserRepositoryInterface
	tokenService TokenService
	bcryptCost   int
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	tokenRepo repository.TokenRepositoryInterface,
	authConfig config.AuthConfig,
) AuthService {
	return NewAuthServiceWithTokenService(userRepo, NewTokenService(tokenRepo, NewTokenConfigFromAuthConfig(authConfig)))
}

// NewAuthServiceWithTokenService creates an authentication service sharing an existing TokenService.
func NewAuthServiceWithTokenService(userRepo repository.UserRepositoryInterface, tokenService TokenService) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

// Login authenticates a user, revokes its previous refresh tokens and issues a new pair.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || !user.Active {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.tokenService.InvalidateUserTokens(ctx, user.ID); err != nil {
		return nil, nil, fmt.Errorf("invalidate existing tokens: %w", err)
	}
	pair, err := s.tokenService.GenerateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token pair: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log := logger.Component("auth")
		log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to record last login")
	} else {
		now := time.Now().UTC()
		user.LastLogin = &now
	}
	return pair, user, nil
}

// Register creates a user with the default role and signs it in.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*dto.TokenPair, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrUserExists
	}

	user, err := s.newUser(name, email, password, model.RoleUser)
	if err != nil {
		return nil, nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokenService.GenerateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token pair: %w", err)
	}
	return pair, user, nil
}

// RefreshToken rotates a refresh token: the presented one is consumed and a new pair issued.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, *model.User, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.tokenService.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored == nil || stored.Type != model.TokenTypeRefresh || stored.Expired(time.Now()) {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.tokenService.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("delete old refresh token: %w", err)
	}
	pair, err := s.tokenService.GenerateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token pair: %w", err)
	}
	return pair, user, nil
}

// ValidateToken validates an access token.
func (s *AuthServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	return s.tokenService.ValidateAccessToken(ctx, tokenString)
}

// CurrentUser returns the active user behind a validated token.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Logout blacklists the access token and deletes the refresh token. Either may be empty.
func (s *AuthServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.Component("auth")
	var errs []error

	if accessToken != "" {
		if err := s.tokenService.InvalidateAccessToken(ctx, accessToken); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate access token during logout")
			errs = append(errs, fmt.Errorf("invalidate access token: %w", err))
		}
	}
	if refreshToken != "" {
		if err := s.tokenService.DeleteRefreshToken(ctx, refreshToken); err != nil {
			log.Warn().Err(err).Msg("Failed to delete refresh token during logout")
			errs = append(errs, fmt.Errorf("delete refresh token: %w", err))
		}
	}
	return errors.Join(errs...)
}

// EnsureAdmin creates the admin account unless a user with that email already exists.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, name, email, password string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	admin, err := s.newUser(name, email, password, model.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}
	log := logger.Component("auth")
	log.Info().Str("email", admin.Email).Msg("Admin user created")
	return nil
}

func (s *AuthServiceImpl) newUser(name, email, password, role string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &model.User{
		Name:     name,
		Email:    model.NormalizeEmail(email),
		Password: string(hashed),
		Role:     role,
		Active:   true,
	}, nil
}
