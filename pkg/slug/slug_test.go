package slug_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Les Amis du Quartier", "les-amis-du-quartier"},
		{"diacritics", "Association Générale des Étudiants", "association-generale-des-etudiants"},
		{"punctuation collapses", "Hello,   World!!", "hello-world"},
		{"no leading or trailing dash", "--Acme--", "acme"},
		{"digits kept", "Club 42", "club-42"},
		{"empty", "", ""},
		{"only symbols", "***", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, slug.Make(tc.in))
		})
	}
}

func TestMakeMaxLength(t *testing.T) {
	t.Parallel()

	got := slug.Make("a very long association name that keeps going", slug.MaxLength(10))
	assert.LessOrEqual(t, len(got), 10)
	assert.NotEmpty(t, got)
	assert.False(t, got[len(got)-1] == '-', "must not end with a dash")
}

func TestMakeWithSuffix(t *testing.T) {
	t.Parallel()

	got := slug.Make("Acme", slug.WithSuffix(6))
	require.Regexp(t, regexp.MustCompile(`^acme-[a-z0-9]{6}$`), got)

	// Suffix makes collisions vanishingly unlikely.
	other := slug.Make("Acme", slug.WithSuffix(6))
	assert.NotEqual(t, got, other)
}

func TestMakeWithSuffixRespectsMaxLength(t *testing.T) {
	t.Parallel()

	got := slug.Make("a long name with lots of words", slug.MaxLength(16), slug.WithSuffix(6))
	assert.LessOrEqual(t, len(got), 16)
	require.Regexp(t, regexp.MustCompile(`[a-z0-9]{6}$`), got)
}
