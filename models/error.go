package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)
// all of these are terminal for the triggering call - retrying with the
// same input reproduces the same outcome. only wrapped store errors
// (helpers.SystemError) are worth a retry.

// verification
var (
	ErrInvalidSubject = errors.New("subject is required and must resolve to a user")
	ErrTokenNotFound  = errors.New("no such verification token")
	ErrTokenExpired   = errors.New("verification token expired")
)

// engagement
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrAlreadyLiked      = errors.New("user already liked this content")
	ErrNotLiked          = errors.New("user has not liked this content")
	ErrAlreadyBookmarked = errors.New("user already bookmarked this content")
	ErrNotBookmarked     = errors.New("user has not bookmarked this content")
	ErrInvalidTarget     = errors.New("unknown target type")
)

// moderation
var (
	ErrInvalidReport  = errors.New("target type, url and reason are required")
	ErrReportNotFound = errors.New("no such report")
)

// user
var (
	ErrUserNameNotAvailable = errors.New("user name is not available")
	ErrInvalidUser          = errors.New("invalid user name or password")
	ErrInvalidPassword      = errors.New("password does not meet rules")
)
