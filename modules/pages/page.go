package pages

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Page is a tenant-owned content page. Blocks is an opaque JSON document;
// rendering and widget composition happen in the web layer, not here.
type Page struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Blocks    json.RawMessage `json:"blocks"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

var (
	ErrNotFound    = errors.New("pages: page not found")
	ErrSlugTaken   = errors.New("pages: slug already used by this tenant")
	ErrInvalidSlug = errors.New("pages: invalid slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidSlug reports whether s is usable as a page path segment.
func ValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= 120 && slugPattern.MatchString(s)
}
