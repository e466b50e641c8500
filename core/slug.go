package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStripRegex  = regexp.MustCompile(`[^\w\s-]`)
	slugDashesRegex = regexp.MustCompile(`[-\s]+`)

	nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })
)

// SlugTakenFunc reports whether a slug is already held by a record.
type SlugTakenFunc func(ctx context.Context, slug string) (bool, error)

// Slugify converts `s` to a lowercase, hyphenated, ASCII-only token.
// Accents are folded ("Café" -> "cafe"); anything else that is not a letter, digit,
// underscore, space or hyphen is dropped.
func Slugify(s string) string {
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(nonASCII)), s)
	if err != nil {
		ascii = strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, s)
	}
	ascii = slugStripRegex.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = slugDashesRegex.ReplaceAllString(strings.TrimSpace(ascii), "-")
	return strings.Trim(ascii, "-_")
}

// UniqueSlug returns the slug of `title`, suffixed with -1, -2, ... until `taken` reports it free.
// An empty base still works: "", "-1", "-2", ...
// Two concurrent callers may pick the same slug; the storage unique index rejects the second write.
func UniqueSlug(ctx context.Context, title string, taken SlugTakenFunc) (string, error) {
	base := Slugify(title)
	slug := base
	for n := 1; ; n++ {
		exists, err := taken(ctx, slug)
		if err != nil {
			return "", errors.Wrap(err, "checking slug")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
