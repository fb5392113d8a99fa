// Package slug derives human-readable, URL-safe post identifiers.
//
// A slug is "{id}-{normalized-title}". The id comes from the store and is
// globally unique, so the composite is unique by construction and no
// collision probing is needed. Because the id is only known after the first
// insert, posts are created with a random placeholder slug and relabeled
// once; Placeholder and IsPlaceholder support that flow and the repair sweep
// behind it.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Fallback replaces a title that normalizes to nothing.
const Fallback = "untitled"

// placeholderPrefix marks slugs that have not been relabeled yet.
const placeholderPrefix = "pending-"

// maxTitleRunes bounds the normalized title fragment. The id segment is
// never truncated.
const maxTitleRunes = 200

// Make builds the final slug for a post from its assigned id and title.
func Make(id int64, title string) string {
	return strconv.FormatInt(id, 10) + "-" + Normalize(title)
}

// Normalize lowercases the title, keeps letters and digits of any script,
// collapses whitespace runs into single hyphens and trims the result. An
// empty result falls back to Fallback. Input is NFC-composed first so that
// decomposed Hangul (and other combining sequences) survive the filter.
func Normalize(title string) string {
	title = norm.NFC.String(title)
	title = strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(title))
	hyphen := false
	n := 0
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
				n++
			}
			hyphen = false
			b.WriteRune(r)
			n++
		case unicode.IsSpace(r) || r == '-':
			hyphen = true
		default:
			// Punctuation and symbols are dropped without acting as
			// separators, matching "foo!bar" -> "foobar".
		}
		if n >= maxTitleRunes {
			break
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return Fallback
	}
	return out
}

// Placeholder returns a fresh unique placeholder slug for a post whose id is
// not known yet.
func Placeholder() string {
	return placeholderPrefix + uuid.NewString()
}

// IsPlaceholder reports whether s is a placeholder slug that still needs the
// relabel pass.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, placeholderPrefix)
}

// PlaceholderPattern is the SQL LIKE pattern matching placeholder slugs.
func PlaceholderPattern() string {
	return placeholderPrefix + "%"
}

// ExtractID parses the leading id segment of a slug, up to the first hyphen.
// It returns 0 and false when the slug does not start with a numeric id,
// which includes placeholder slugs.
func ExtractID(s string) (int64, bool) {
	head, _, found := strings.Cut(s, "-")
	if !found {
		head = s
	}
	id, err := strconv.ParseInt(head, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
