package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXPForLevel(t *testing.T) {
	require.Equal(t, 0, XPForLevel(1))
	require.Equal(t, 100, XPForLevel(2))  // level 1 -> 2 costs 100
	require.Equal(t, 250, XPForLevel(3))  // +150
	require.Equal(t, 450, XPForLevel(4))  // +200
	require.Equal(t, 0, XPForLevel(0))
}

func TestAddXP(t *testing.T) {
	u := &User{Level: 1}

	leveled, gained := u.AddXP(0)
	require.False(t, leveled)
	require.Zero(t, gained)

	leveled, gained = u.AddXP(99)
	require.False(t, leveled)
	require.Equal(t, 1, u.Level)

	// crosses two thresholds at once: 99+151 = 250 = level 3
	leveled, gained = u.AddXP(151)
	require.True(t, leveled)
	require.Equal(t, 2, gained)
	require.Equal(t, 3, u.Level)
}

func TestCoins(t *testing.T) {
	u := &User{}
	require.False(t, u.AddCoins(0))
	require.True(t, u.AddCoins(50))
	require.Equal(t, 50, u.Coin)

	require.False(t, u.DeductCoins(100), "overdraft must fail")
	require.False(t, u.DeductCoins(0))
	require.True(t, u.DeductCoins(30))
	require.Equal(t, 20, u.Coin)
}

func TestXPProgress(t *testing.T) {
	u := &User{Level: 1, XP: 50}
	require.InDelta(t, 50.0, u.XPProgress(), 0.001)

	u = &User{Level: 1, XP: 100}
	require.InDelta(t, 100.0, u.XPProgress(), 0.001)
}
