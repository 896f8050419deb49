// Package slug derives URL-safe identifiers from program titles and resolves
// collisions against the slugs already stored.
package slug

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/mo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLength is the maximum slug length in characters
const MaxLength = 255

// FallbackBase is used when a title normalizes to the empty string
const FallbackBase = "program"

// Normalize lowercases the title, keeps Unicode letters and digits, turns
// runs of whitespace, underscores and hyphens into a single hyphen, trims
// hyphens at both ends and truncates to MaxLength characters.
//
//	Normalize("Hello World!")    // "hello-world"
//	Normalize("  Test___Slug  ") // "test-slug"
//	Normalize("بودكاست فنجان")   // "بودكاست-فنجان"
func Normalize(title string) string {
	// cases.Caser keeps state, so one per call
	lowered := cases.Lower(language.Und).String(title)

	var b strings.Builder
	b.Grow(len(lowered))
	n := 0
	pendingHyphen := false

	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingHyphen && n > 0 {
				b.WriteByte('-')
				n++
			}
			pendingHyphen = false
			b.WriteRune(r)
			n++
		case unicode.IsSpace(r) || r == '_' || r == '-':
			pendingHyphen = true
		}
		if n >= MaxLength {
			break
		}
	}

	return truncate(b.String())
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) > MaxLength {
		runes := []rune(s)
		s = string(runes[:MaxLength])
	}
	return strings.TrimRight(s, "-")
}

// Store is the slice of persistence the allocator needs. Both lookups must
// consider archived rows, since slugs are unique across the whole table.
type Store interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	// FindLatestSlugSuffix returns the greatest slug matching base-<digits>,
	// ordered by length and then lexicographically.
	FindLatestSlugSuffix(ctx context.Context, base string) (mo.Option[string], error)
}

// Allocator turns titles into slugs that do not collide with stored ones
type Allocator struct {
	store Store
}

// NewAllocator creates an allocator backed by store
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// Allocate returns Normalize(title) if it is free, otherwise base-(n+1) where
// base-n is the highest suffixed slug on record. It performs at most two
// lookups and is not race-free: the store's unique constraint is the
// backstop for two imports computing the same candidate.
func (a *Allocator) Allocate(ctx context.Context, title string) (string, error) {
	base := Normalize(title)
	if base == "" {
		base = FallbackBase
	}

	exists, err := a.store.SlugExists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", base, err)
	}
	if !exists {
		return base, nil
	}

	latest, err := a.store.FindLatestSlugSuffix(ctx, base)
	if err != nil {
		return "", fmt.Errorf("find latest suffix for %q: %w", base, err)
	}

	next := 1
	if s, ok := latest.Get(); ok {
		if n, ok := parseSuffix(s, base); ok {
			next = n + 1
		}
	}
	return Suffixed(base, next), nil
}

// Suffixed joins base and n as base-n
func Suffixed(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}

// parseSuffix extracts n from base-n
func parseSuffix(s, base string) (int, bool) {
	prefix := base + "-"
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(s[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsSuffixOf reports whether s has the form base-<digits>
func IsSuffixOf(s, base string) bool {
	prefix := base + "-"
	if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
		return false
	}
	for _, r := range s[len(prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
