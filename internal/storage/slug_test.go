package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Maren Voss", "maren-voss"},
		{"Carrow's Reach", "carrow-s-reach"},
		{"  The   Graywood  ", "the-graywood"},
		{"Café Étoile", "cafe-etoile"},
		{"Ñandú über alles", "nandu-uber-alles"},
		{"Chapter #3: The End?", "chapter-3-the-end"},
		{"---", "item"},
		{"", "item"},
		{"УЖЕ-latin-mix", "latin-mix"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input: %q", tc.in)
	}
}

func TestUniqueSlug_FirstFree(t *testing.T) {
	slug, err := UniqueSlug(context.Background(), "Maren Voss",
		func(ctx context.Context, s string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "maren-voss", slug)
}

func TestUniqueSlug_ProbesSuffixes(t *testing.T) {
	taken := map[string]bool{"maren-voss": true, "maren-voss-2": true}
	slug, err := UniqueSlug(context.Background(), "Maren Voss",
		func(ctx context.Context, s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "maren-voss-3", slug)
}

func TestUniqueSlug_TimestampAfterLimit(t *testing.T) {
	slug, err := UniqueSlug(context.Background(), "busy",
		func(ctx context.Context, s string) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.Regexp(t, `^busy-\d{13,}$`, slug)
}

func TestUniqueSlug_PropagatesProbeError(t *testing.T) {
	probeErr := fmt.Errorf("db down")
	_, err := UniqueSlug(context.Background(), "x",
		func(ctx context.Context, s string) (bool, error) { return false, probeErr })
	assert.ErrorIs(t, err, probeErr)
}
