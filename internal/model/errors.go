package model

import "errors"

// Common errors used across the application
var (
	// Security question errors
	ErrNoQuestions      = errors.New("no security questions configured")
	ErrQuestionNotFound = errors.New("security question not found")

	// Admin account errors
	ErrAdminNotFound  = errors.New("admin account not found")
	ErrUsernameExists = errors.New("username already exists")

	// Companion errors
	ErrPetNotFound = errors.New("pet not found")

	// Record errors
	ErrMessageNotFound = errors.New("message not found")
	ErrMemoNotFound    = errors.New("memo not found")
	ErrPhotoNotFound   = errors.New("photo not found")
)
