package members

import "errors"

var (
	ErrMemberNotFound     = errors.New("members: member not found")
	ErrEmailTaken         = errors.New("members: email already registered")
	ErrInvalidCredentials = errors.New("members: invalid credentials")
	ErrInvalidEmail       = errors.New("members: invalid email")
	ErrWeakPassword       = errors.New("members: password too short")
	ErrInactiveMember     = errors.New("members: member is inactive")
	ErrInvalidRole        = errors.New("members: role cannot be assigned within a tenant")
)
