package service

import "errors"

// Authentication errors.
var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when trying to register an existing user.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidToken is returned when token is invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenBlacklisted is returned when token is blacklisted.
	ErrTokenBlacklisted = errors.New("token is blacklisted")
)

// Favorite errors.
var (
	ErrFavoriteExists   = errors.New("vehicle already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFavoriteLimit    = errors.New("favorites limit reached")
	ErrCompareTooFew    = errors.New("at least two favorites are required for a comparison")
	ErrCompareTooMany   = errors.New("too many favorites to compare")
)

// ErrHistoryItemNotFound is returned when a history item does not exist for the user.
var ErrHistoryItemNotFound = errors.New("history item not found")

// Upload errors.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrFileForbidden = errors.New("file belongs to another user")
	ErrFileType      = errors.New("file type not allowed")
	ErrFileTooLarge  = errors.New("file too large")
	ErrTooManyFiles  = errors.New("too many files")
	ErrNoFile        = errors.New("no file provided")
)
