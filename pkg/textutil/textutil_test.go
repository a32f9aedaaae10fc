package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "chimiegénérale", NormalizeName("  Chimie  Générale\n"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Chimie Générale", []string{"chimie"}))
	require.False(t, MatchName("Philosophie", []string{"chimie", "physique"}))
}

func TestClosest(t *testing.T) {
	courses := []string{
		"Chimie générale 202-NYA-05",
		"Calcul différentiel 201-NYA-05",
		"Philosophie et rationalité 340-101-MQ",
	}

	testCases := []struct {
		name     string
		expected string
		ok       bool
	}{
		{name: "Chimie générale 202-NYA-05", expected: "Chimie générale 202-NYA-05", ok: true},
		{name: "chimie", expected: "Chimie générale 202-NYA-05", ok: true},
		{name: "philosophie et rationalite", expected: "Philosophie et rationalité 340-101-MQ", ok: true},
		{name: "zzz", ok: false},
		{name: "", ok: false},
	}

	for _, test := range testCases {
		got, ok := Closest(test.name, courses, 0.8)
		require.Equal(t, test.ok, ok, test.name)
		if test.ok {
			require.Equal(t, test.expected, got, test.name)
		}
	}
}
