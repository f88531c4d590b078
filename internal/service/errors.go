package service

import "errors"

// Business errors the handlers map onto HTTP status codes. Anything else
// coming out of the service layer is a storage failure and surfaces as a
// 500 without translation.
var (
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrSelfChat            = errors.New("cannot open a chat with yourself")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrProfileMissing      = errors.New("profile not found")
	ErrNotParticipant      = errors.New("not a chat participant")
)
