package game

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	require.Equal(t, "______", Mask("python"))
	require.Equal(t, "", Mask(""))
}

func TestApplyLetter(t *testing.T) {
	masked, hit := ApplyLetter("python", "______", "y")
	require.True(t, hit)
	require.Equal(t, "_y____", masked)

	masked, hit = ApplyLetter("python", "_y____", "z")
	require.False(t, hit)
	require.Equal(t, "_y____", masked)

	// repeated letters unmask every position
	masked, hit = ApplyLetter("coffee", "______", "f")
	require.True(t, hit)
	require.Equal(t, "__ff__", masked)

	// case-insensitive match, original case preserved
	masked, hit = ApplyLetter("Python", "______", "p")
	require.True(t, hit)
	require.Equal(t, "P_____", masked)
}

func TestNonASCIIWords(t *testing.T) {
	// the bank accepts non-ASCII words; masking counts letters, not bytes
	require.Equal(t, "____", Mask("کتاب"))
	require.Equal(t, "____", Mask("café"))

	masked, hit := ApplyLetter("کتاب", "____", "ت")
	require.True(t, hit)
	require.Equal(t, "_ت__", masked)
	require.True(t, utf8.ValidString(masked))

	masked, hit = ApplyLetter("café", "____", "é")
	require.True(t, hit)
	require.Equal(t, "___é", masked)

	masked, pos := RevealRandom("کتاب", "____")
	require.GreaterOrEqual(t, pos, 0)
	require.Less(t, pos, 4)
	require.True(t, utf8.ValidString(masked))
	require.Equal(t, 3, strings.Count(masked, "_"))
	require.Equal(t, []rune("کتاب")[pos], []rune(masked)[pos])
}

func TestRevealed(t *testing.T) {
	require.False(t, Revealed("_y____"))
	require.True(t, Revealed("python"))
}

func TestRevealRandom(t *testing.T) {
	masked, pos := RevealRandom("game", "____")
	require.GreaterOrEqual(t, pos, 0)
	require.Less(t, pos, 4)
	require.Equal(t, 1, 4-strings.Count(masked, "_"))
	require.Equal(t, string("game"[pos]), string(masked[pos]))

	same, pos := RevealRandom("game", "game")
	require.Equal(t, -1, pos)
	require.Equal(t, "game", same)
}

func TestDuration(t *testing.T) {
	require.Equal(t, 10*time.Minute, Duration(1))
	require.Equal(t, 7*time.Minute, Duration(2))
	require.Equal(t, 5*time.Minute, Duration(3))
	require.Equal(t, 10*time.Minute, Duration(99), "unknown difficulty falls back to easy")
}
