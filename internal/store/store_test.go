package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Migrate(context.Background())
	require.NoError(t, err)
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	applied, err := s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, applied)

	applied, err = s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, applied, "second run must apply nothing")
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotZero(t, u.ID)
	require.Equal(t, RolePlayer, u.Role)
	require.Equal(t, 1, u.Level)

	dup := &User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	require.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

	dup = &User{Username: "bob", Email: "alice@example.com", PasswordHash: "x"}
	require.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{Username: "carol", Email: "carol@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.UserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.UserByID(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveUserProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{Username: "dave", Email: "dave@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	u.AddXP(250)
	u.AddCoins(40)
	require.NoError(t, s.SaveUserProgress(ctx, u))

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 250, got.XP)
	require.Equal(t, 2, got.Level)
	require.Equal(t, 40, got.Coin)
}

func TestRandomWord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.RandomWord(ctx, DifficultyEasy)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.CreateWord(ctx, &Word{Word: "game", Difficulty: DifficultyEasy}))
	require.NoError(t, s.CreateWord(ctx, &Word{Word: "python", Difficulty: DifficultyMedium}))

	w, err := s.RandomWord(ctx, DifficultyEasy)
	require.NoError(t, err)
	require.Equal(t, "game", w)
}

func TestTopUsersByXP(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, u := range []*User{
		{Username: "low", Email: "low@example.com", PasswordHash: "h", XP: 10},
		{Username: "high", Email: "high@example.com", PasswordHash: "h", XP: 300},
		{Username: "mid", Email: "mid@example.com", PasswordHash: "h", XP: 100},
	} {
		require.NoError(t, s.CreateUser(ctx, u))
		require.NoError(t, s.SaveUserProgress(ctx, u))
	}

	top, err := s.TopUsersByXP(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "high", top[0].Username)
	require.Equal(t, 300, top[0].TotalScore)
	require.Equal(t, "mid", top[1].Username)
}

func TestGameRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{Username: "erin", Email: "erin@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	g := &Game{CreatorID: u.ID, Difficulty: DifficultyEasy, Word: "game", MaskedWord: "____", Status: StatusWaiting}
	require.NoError(t, s.CreateGame(ctx, g))

	open, err := s.HasOpenGame(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, open)

	got, err := s.GameByID(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "game", got.Word)
	require.Nil(t, got.StartTime)
	require.Nil(t, got.CurrentTurnID)

	games, err := s.Games(ctx, StatusWaiting)
	require.NoError(t, err)
	require.Len(t, games, 1)

	games, err = s.Games(ctx, StatusActive)
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestPlayersUniquePerGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &User{Username: "finn", Email: "finn@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	g := &Game{CreatorID: u.ID, Difficulty: DifficultyEasy, Word: "game", MaskedWord: "____", Status: StatusWaiting}
	require.NoError(t, s.CreateGame(ctx, g))

	p := &Player{UserID: u.ID, GameID: g.ID}
	require.NoError(t, s.AddPlayer(ctx, p))
	require.ErrorIs(t, s.AddPlayer(ctx, &Player{UserID: u.ID, GameID: g.ID}), ErrDuplicate)

	players, err := s.PlayersForGame(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "finn", players[0].Username)
}
