package pages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/collectif/platform/modules/pages"
)

func TestValidSlug(t *testing.T) {
	t.Parallel()

	valid := []string{"about", "our-team", "2024-report", "a"}
	for _, s := range valid {
		assert.True(t, pages.ValidSlug(s), s)
	}

	invalid := []string{"", "-about", "About", "with space", "tr/aversal", "café"}
	for _, s := range invalid {
		assert.False(t, pages.ValidSlug(s), s)
	}
}
