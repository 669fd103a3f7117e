package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Package slug derives URL-safe identifiers from titles and guarantees they
// do not collide with existing records at allocation time. Uniqueness is
// checked through an injected predicate so the allocator stays free of any
// storage dependency; the authoritative enforcement is the database UNIQUE
// constraint, which callers treat as a retryable conflict.

// ErrExhausted is returned when the suffix probe exceeds MaxAttempts.
var ErrExhausted = errors.New("slug: exhausted collision suffixes")

// ExistsFunc reports whether candidate already denotes a live record in the
// target collection. Errors propagate to the caller unwrapped.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Defaults used when an Allocator field is zero.
const (
	DefaultMaxLength   = 60
	DefaultFallback    = "post"
	DefaultMaxAttempts = 1000
)

// Allocator mints unique slugs for one logical collection. The zero value
// is ready to use with the defaults above. Different collections carry
// different column widths, so MaxLength is a field rather than a constant.
type Allocator struct {
	MaxLength   int
	Fallback    string
	MaxAttempts int
}

// Allocate normalizes seed into the slug alphabet, then probes exists with
// -2, -3, ... suffixes until a free candidate is found. The returned slug
// is guaranteed not to satisfy exists at the instant of return.
func (a Allocator) Allocate(ctx context.Context, seed string, exists ExistsFunc) (string, error) {
	maxLen := a.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	fallback := a.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	maxAttempts := a.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	base := truncate(Make(seed), maxLen)
	if base == "" {
		base = fallback
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 2; i <= maxAttempts; i++ {
		trial := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(ctx, trial)
		if err != nil {
			return "", err
		}
		if !taken {
			return trial, nil
		}
	}
	return "", ErrExhausted
}

// Make lower-cases seed and collapses runs of anything outside [a-z0-9]
// into a single dash, with no leading or trailing dashes. Non-ASCII input
// is stripped rather than transliterated.
func Make(seed string) string {
	var b strings.Builder
	b.Grow(len(seed))

	lastDash := false
	for _, r := range strings.ToLower(seed) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// truncate cuts s to max bytes, dropping any dash the cut lands on. The
// slug alphabet is ASCII, so byte and rune lengths agree.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}
