package dto

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRequest represents the JSON request body for the login endpoint.
//
// @Description Request to authenticate a user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"Senha123"`
} // @name LoginRequest

// RegisterRequest represents the JSON request body for the register endpoint.
//
// @Description Request to register a new user
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"João Silva"`
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"Senha123"`
} // @name RegisterRequest

// AuthResponse is returned by login, register and refresh.
//
// @Description Successful authentication response with JWT tokens
type AuthResponse struct {
	Token        string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string        `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn    int64         `json:"expires_in" example:"86400"`
	User         *UserResponse `json:"user,omitempty"`
} // @name AuthResponse

// TokenPair holds an access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims are the application claims carried by issued JWTs.
type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
	Role   string             `json:"role"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string     `json:"id" example:"65f0c2a1e4b0a1b2c3d4e5f6"`
	Name      string     `json:"name" example:"João Silva"`
	Email     string     `json:"email" example:"user@example.com"`
	Role      string     `json:"role" example:"user"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
} // @name UserResponse

// NewUserResponse builds the public view of u.
func NewUserResponse(u *model.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// NewAuthResponse combines a token pair and the user it was issued for.
func NewAuthResponse(pair *TokenPair, u *model.User) AuthResponse {
	return AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         NewUserResponse(u),
	}
}

// Validate performs custom validation on the login request.
func (r *LoginRequest) Validate() error {
	r.Email = model.NormalizeEmail(r.Email)
	if !validEmail(r.Email) {
		return invalid("email", "must be a valid email address")
	}
	if r.Password == "" {
		return invalid("password", "is required")
	}
	return nil
}

// Validate performs custom validation on the register request.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = model.NormalizeEmail(r.Email)

	if n := utf8.RuneCountInString(r.Name); n < 2 || n > 50 {
		return invalid("name", "must have between 2 and 50 characters")
	}
	if !validEmail(r.Email) {
		return invalid("email", "must be a valid email address")
	}
	return ValidatePassword(r.Password)
}

// ValidatePassword requires at least 6 characters with a lowercase letter,
// an uppercase letter and a digit.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return invalid("password", "must have at least 6 characters")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return invalid("password", "must contain a lowercase letter, an uppercase letter and a number")
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
