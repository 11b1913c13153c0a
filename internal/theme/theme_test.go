package theme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glimpse/internal/scheme"
)

func TestResolve_SchemeSelectsGlamourStyle(t *testing.T) {
	dark := Resolve("default", scheme.Dark)
	require.Equal(t, "dark", dark.GlamourStyle)
	require.Equal(t, scheme.Dark, dark.Scheme)

	light := Resolve("default", scheme.Light)
	require.Equal(t, "light", light.GlamourStyle)
	require.Equal(t, scheme.Light, light.Scheme)
}

func TestResolve_UnknownNameFallsBackToDefault(t *testing.T) {
	r := Resolve("no-such-theme", scheme.Dark)
	require.Equal(t, "default", r.Name)
	require.Equal(t, "dark", r.GlamourStyle)
}

func TestResolve_ReturnsFreshValues(t *testing.T) {
	// Scheme swaps must hand out a new object, never mutate in place.
	a := Resolve("nord", scheme.Dark)
	b := Resolve("nord", scheme.Dark)
	require.NotSame(t, a, b)
}

func TestResolve_BuiltinsCoverBothSchemes(t *testing.T) {
	for _, name := range Names() {
		dark := Resolve(name, scheme.Dark)
		light := Resolve(name, scheme.Light)
		require.NotEmpty(t, dark.Background, "theme %s dark background", name)
		require.NotEmpty(t, light.Background, "theme %s light background", name)
		require.NotEqual(t, dark.Background, light.Background, "theme %s should differ by scheme", name)
	}
}
