package database

import "errors"

// Sentinel error repository; controller memetakan via errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAlreadyEnrolled   = errors.New("user is already enrolled as a student")
	ErrAttemptsExhausted = errors.New("attempts limit reached")
	ErrInvalidReference  = errors.New("referenced record does not exist")
)
