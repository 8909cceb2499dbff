package service

import "errors"

// Sentinel errors returned across the service boundary. Handlers map each to
// a distinct HTTP status with errors.Is; services never panic across the
// boundary.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrLotNotFound      = errors.New("parking lot not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")

	ErrNotRatingAuthor   = errors.New("only the rating's author may modify it")
	ErrNotBookmarkOwner  = errors.New("only the bookmark's owner may delete it")
	ErrInvalidScore      = errors.New("score must be between 0 and 5")
	ErrDuplicateRating   = errors.New("user has already rated this parking lot")
	ErrBookmarkExists    = errors.New("parking lot already bookmarked")
	ErrLotNameInUse      = errors.New("parking lot name already registered")
	ErrNicknameInUse     = errors.New("nickname already in use")
	ErrEmailInUse        = errors.New("email already in use")
	ErrPasswordMismatch  = errors.New("current password does not match")
	ErrInvalidPreference = errors.New("unknown preferred factor")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	ErrScoringUnavailable = errors.New("scoring service unavailable")
	ErrPreferenceUnmapped = errors.New("preference has no matching scoring dimension")
)
