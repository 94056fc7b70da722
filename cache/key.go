package cache

import (
	"strconv"
	"strings"
	"unicode"
)

// KeySeparator delimits the entity type from the primary key value.
const KeySeparator = ":"

// Key builds the cache key for a single entity snapshot. The mapping is
// deterministic and injective across entity types: the type segment is
// normalized once, the separator never appears inside it, and the id is
// rendered in decimal.
func Key(entityType string, id int64) string {
	return normalizeType(entityType) + KeySeparator + strconv.FormatInt(id, 10)
}

// TypePrefix returns the key prefix shared by every snapshot of the given
// entity type, separator included.
func TypePrefix(entityType string) string {
	return normalizeType(entityType) + KeySeparator
}

// normalizeType converts an entity type name to a lower snake_case key
// segment using ASCII-aware rules. Punctuation that can show up in reflected
// or generic type names (pointers, brackets, spaces) is collapsed to
// underscores; leaving it in would produce keys some backends reject and
// could let two distinct type names collide with the separator.
func normalizeType(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				if !unicode.IsDigit(prev) && prev != '_' && !lastUnderscore {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r)
			lastUnderscore = false

		case r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		case r == '-' || unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
