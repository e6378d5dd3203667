package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/domain"
	"github.com/stretchr/testify/require"
)

func TestTokenRecordIsExpired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issued.Add(3600 * time.Second)
	rec := domain.TokenRecord{ExpiresAt: &expiresAt}

	require.False(t, rec.IsExpired(issued.Add(3599*time.Second)))
	require.False(t, rec.IsExpired(expiresAt), "expiry instant itself is not past")
	require.True(t, rec.IsExpired(issued.Add(3601*time.Second)))

	never := domain.TokenRecord{}
	require.False(t, never.IsExpired(issued.Add(100*365*24*time.Hour)))
}

func TestTokenRecordExpiresWithin(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := now.Add(time.Hour)
	rec := domain.TokenRecord{ExpiresAt: &expiresAt}

	require.False(t, rec.ExpiresWithin(now, 0))
	require.False(t, rec.ExpiresWithin(now, 59*time.Minute))
	require.True(t, rec.ExpiresWithin(now, 61*time.Minute))
	require.False(t, (&domain.TokenRecord{}).ExpiresWithin(now, 24*time.Hour))
}

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	p, err := domain.ParsePlatform(" TikTok ")
	require.NoError(t, err)
	require.Equal(t, domain.PlatformTikTok, p)

	p, err = domain.ParsePlatform("instagram")
	require.NoError(t, err)
	require.Equal(t, domain.PlatformInstagram, p)

	_, err = domain.ParsePlatform("myspace")
	require.ErrorIs(t, err, domain.ErrUnknownPlatform)
}
