package domain

import (
	"errors"
	"strings"
)

// Platform identifies a social network provider.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// ErrUnknownPlatform is returned by ParsePlatform for unrecognised names.
var ErrUnknownPlatform = errors.New("domain: unknown platform")

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{PlatformTikTok, PlatformInstagram}
}

// ParsePlatform is case-insensitive.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrUnknownPlatform
	}
	return p, nil
}

func (p Platform) Valid() bool {
	return p == PlatformTikTok || p == PlatformInstagram
}

func (p Platform) String() string { return string(p) }
