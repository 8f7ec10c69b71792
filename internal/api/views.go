package api

import (
	"context"
	"time"

	"github.com/MoFaraz/guess-words/internal/store"
)

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type playerView struct {
	ID    int64    `json:"id"`
	User  userView `json:"user"`
	Score int      `json:"score"`
}

type gameListView struct {
	ID          int64     `json:"id"`
	Difficulty  int       `json:"difficulty"`
	Status      int       `json:"status"`
	Creator     userView  `json:"creator"`
	PlayerCount int       `json:"player_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type gameDetailView struct {
	ID            int64        `json:"id"`
	Difficulty    int          `json:"difficulty"`
	MaskedWord    string       `json:"masked_word"`
	Status        int          `json:"status"`
	Creator       userView     `json:"creator"`
	Players       []playerView `json:"players"`
	CurrentTurn   *userView    `json:"current_turn"`
	StartTime     *time.Time   `json:"start_time"`
	EndTime       *time.Time   `json:"end_time"`
	TimeRemaining *int         `json:"time_remaining"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type guessView struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Letter    string    `json:"letter"`
	IsCorrect bool      `json:"is_correct"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

type profileView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	Coin      int    `json:"coin"`
}

func newProfileView(u *store.User) profileView {
	return profileView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Level:     u.Level,
		XP:        u.XP,
		Coin:      u.Coin,
	}
}

func newPlayerView(p *store.Player) playerView {
	return playerView{
		ID:    p.ID,
		User:  userView{ID: p.UserID, Username: p.Username},
		Score: p.Score,
	}
}

// timeRemaining is null unless the game is active, zero once past the
// deadline, otherwise whole seconds left.
func timeRemaining(g *store.Game) *int {
	if g.Status != store.StatusActive || g.EndTime == nil {
		return nil
	}
	secs := int(time.Until(*g.EndTime).Seconds())
	if secs < 0 {
		secs = 0
	}
	return &secs
}

func (s *Server) gameListView(ctx context.Context, g *store.Game) (gameListView, error) {
	creator, err := s.Store.UserByID(ctx, g.CreatorID)
	if err != nil {
		return gameListView{}, err
	}
	count, err := s.Store.CountPlayers(ctx, g.ID)
	if err != nil {
		return gameListView{}, err
	}
	return gameListView{
		ID:          g.ID,
		Difficulty:  g.Difficulty,
		Status:      g.Status,
		Creator:     userView{ID: creator.ID, Username: creator.Username},
		PlayerCount: count,
		CreatedAt:   g.CreatedAt,
	}, nil
}

func (s *Server) gameDetailView(ctx context.Context, g *store.Game) (gameDetailView, error) {
	creator, err := s.Store.UserByID(ctx, g.CreatorID)
	if err != nil {
		return gameDetailView{}, err
	}
	players, err := s.Store.PlayersForGame(ctx, g.ID)
	if err != nil {
		return gameDetailView{}, err
	}
	pviews := make([]playerView, 0, len(players))
	var turn *userView
	for _, p := range players {
		pviews = append(pviews, newPlayerView(p))
		if g.CurrentTurnID != nil && p.UserID == *g.CurrentTurnID {
			turn = &userView{ID: p.UserID, Username: p.Username}
		}
	}
	return gameDetailView{
		ID:            g.ID,
		Difficulty:    g.Difficulty,
		MaskedWord:    g.MaskedWord,
		Status:        g.Status,
		Creator:       userView{ID: creator.ID, Username: creator.Username},
		Players:       pviews,
		CurrentTurn:   turn,
		StartTime:     g.StartTime,
		EndTime:       g.EndTime,
		TimeRemaining: timeRemaining(g),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}, nil
}
