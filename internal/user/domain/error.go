package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("user with this email already exists")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrSamePassword     = errors.New("new password cannot be the same as the current one")
	ErrInvalidTheme     = errors.New("invalid theme mode")
	ErrInvalidLang      = errors.New("invalid language")
)
