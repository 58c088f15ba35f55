package directory

import "errors"

var (
	ErrSlugTaken     = errors.New("directory: slug already taken")
	ErrDomainTaken   = errors.New("directory: domain already claimed")
	ErrInvalidName   = errors.New("directory: invalid tenant name")
	ErrInvalidDomain = errors.New("directory: invalid domain")
	ErrInvalidSlug   = errors.New("directory: invalid slug")
)
