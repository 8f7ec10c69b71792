package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	m := New([]string{"/static/**", "**/*.css", "**/*.ico"})

	require.True(t, m.Match("/static/js/app.js"))
	require.True(t, m.Match("/api/v1/theme.css"))
	require.True(t, m.Match("/favicon.ico"))
	require.False(t, m.Match("/api/v1/games"))
	require.False(t, m.Match("/api/v1/leaderboard"))
}

func TestEmptyPatternsMatchNothing(t *testing.T) {
	m := New(nil)
	require.False(t, m.Match("/anything"))
}
