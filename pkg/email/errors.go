package email

import "errors"

var (
	ErrSendFailed     = errors.New("email: send failed")
	ErrInvalidConfig  = errors.New("email: invalid config")
	ErrInvalidMessage = errors.New("email: invalid message")
)
