package slug

import (
	"crypto/rand"
	"strings"
	"unicode"
)

const separator = '-'

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength    int
	suffixLength int
}

// MaxLength truncates the slug to at most n runes. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// WithSuffix appends a random lowercase alphanumeric suffix of the given
// length, separated by a dash. Used for collision retries when a slug is
// already taken.
func WithSuffix(n int) Option {
	return func(c *config) { c.suffixLength = n }
}

// Make turns a display name into a DNS-label-safe slug: lowercase ASCII
// letters and digits separated by single dashes, no leading or trailing
// dash. Latin diacritics fold to their ASCII base; everything else
// collapses into a dash.
func Make(s string, opts ...Option) string {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	budget := cfg.maxLength
	if budget > 0 && cfg.suffixLength > 0 {
		// Reserve room for "-suffix".
		budget -= cfg.suffixLength + 1
		if budget < 0 {
			budget = 0
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	lastWasSep := true
	count := 0

	for _, r := range s {
		if budget > 0 && count >= budget {
			break
		}
		r = unicode.ToLower(r)
		if folded, ok := diacriticMap[r]; ok {
			r = folded
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			count++
			continue
		}
		if !lastWasSep {
			if budget > 0 && count+1 >= budget {
				break
			}
			b.WriteByte(separator)
			lastWasSep = true
			count++
		}
	}

	result := strings.TrimSuffix(b.String(), string(separator))

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if result == "" {
			return suffix
		}
		return result + string(separator) + suffix
	}
	return result
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("slug: rand.Read: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf)
}

// diacriticMap folds common Latin diacritics to ASCII. Not exhaustive;
// covers the major European languages.
var diacriticMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'đ': 'd', 'ď': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o', 'ő': 'o',
	'ŕ': 'r', 'ř': 'r',
	'ś': 's', 'š': 's', 'ş': 's', 'ș': 's', 'ß': 's',
	'ť': 't', 'ţ': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ű': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ż': 'z', 'ž': 'z',
	'æ': 'a', 'œ': 'o',
}
