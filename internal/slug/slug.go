package slug

import (
	"errors"
	"regexp"
	"strings"
)

// MaxAssetBytes is the exclusive upper bound for a product photo.
// A payload of exactly this size is rejected.
const MaxAssetBytes = 1_000_000

var (
	reNonToken = regexp.MustCompile(`[^a-z0-9]+`)

	ErrAssetTooLarge = errors.New("image should be less than 1mb in size")
)

// Derive turns a display name into a URL-safe lowercase token.
// Deriving from the same name always yields the same slug, and
// deriving from an existing slug is a no-op.
func Derive(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = reNonToken.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateAsset checks a binary payload against the size ceiling.
// An empty payload means "no asset" and passes.
func ValidateAsset(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if len(b) >= MaxAssetBytes {
		return ErrAssetTooLarge
	}
	return nil
}
