package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const gameCols = `id, creator_id, difficulty, word, masked_word, start_time, end_time, status, current_turn_id, created_at, updated_at`

func scanGame(sc interface{ Scan(...any) error }) (*Game, error) {
	var (
		g      Game
		masked sql.NullString
		start  sql.NullTime
		end    sql.NullTime
		turn   sql.NullInt64
	)
	err := sc.Scan(&g.ID, &g.CreatorID, &g.Difficulty, &g.Word, &masked,
		&start, &end, &g.Status, &turn, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g.MaskedWord = masked.String
	if start.Valid {
		t := start.Time
		g.StartTime = &t
	}
	if end.Valid {
		t := end.Time
		g.EndTime = &t
	}
	if turn.Valid {
		id := turn.Int64
		g.CurrentTurnID = &id
	}
	return &g, nil
}

func (s *Store) CreateGame(ctx context.Context, g *Game) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO games (creator_id, difficulty, word, masked_word, status)
		 VALUES (?, ?, ?, ?, ?)`,
		g.CreatorID, g.Difficulty, g.Word, g.MaskedWord, g.Status)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	g.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GameByID(ctx context.Context, id int64) (*Game, error) {
	return scanGame(s.DB.QueryRowContext(ctx,
		`SELECT `+gameCols+` FROM games WHERE id = ?`, id))
}

// Games lists games newest first, optionally filtered by status (0 = all).
func (s *Store) Games(ctx context.Context, status int) ([]*Game, error) {
	q := `SELECT ` + gameCols + ` FROM games`
	args := []any{}
	if status != 0 {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGame persists the mutable game fields and bumps updated_at.
func (s *Store) UpdateGame(ctx context.Context, g *Game) error {
	var (
		start, end any
		turn       any
	)
	if g.StartTime != nil {
		start = *g.StartTime
	}
	if g.EndTime != nil {
		end = *g.EndTime
	}
	if g.CurrentTurnID != nil {
		turn = *g.CurrentTurnID
	}
	g.UpdatedAt = time.Now().UTC()
	_, err := s.DB.ExecContext(ctx,
		`UPDATE games SET masked_word = ?, start_time = ?, end_time = ?, status = ?, current_turn_id = ?, updated_at = ?
		 WHERE id = ?`,
		g.MaskedWord, start, end, g.Status, turn, g.UpdatedAt, g.ID)
	return err
}

func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasOpenGame reports whether the user has created a game that is still
// waiting or active.
func (s *Store) HasOpenGame(ctx context.Context, creatorID int64) (bool, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM games WHERE creator_id = ? AND status IN (?, ?)`,
		creatorID, StatusWaiting, StatusActive).Scan(&n)
	return n > 0, err
}

// ActiveGameForUser returns the active game the user plays in, or ErrNotFound.
func (s *Store) ActiveGameForUser(ctx context.Context, userID int64) (*Game, error) {
	return scanGame(s.DB.QueryRowContext(ctx,
		`SELECT g.`+strings.ReplaceAll(gameCols, ", ", ", g.")+`
		 FROM games g JOIN players p ON p.game_id = g.id
		 WHERE p.user_id = ? AND g.status = ?
		 ORDER BY g.id LIMIT 1`, userID, StatusActive))
}

// ActiveGames returns all games currently in the active state.
func (s *Store) ActiveGames(ctx context.Context) ([]*Game, error) {
	return s.Games(ctx, StatusActive)
}

func (s *Store) AddPlayer(ctx context.Context, p *Player) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO players (user_id, game_id, score) VALUES (?, ?, ?)`,
		p.UserID, p.GameID, p.Score)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// PlayersForGame returns the game's players in join order with usernames.
func (s *Store) PlayersForGame(ctx context.Context, gameID int64) ([]*Player, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.game_id, p.score, p.joined_at, u.username
		 FROM players p JOIN users u ON u.id = p.user_id
		 WHERE p.game_id = ? ORDER BY p.id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.UserID, &p.GameID, &p.Score, &p.JoinedAt, &p.Username); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *Store) PlayerInGame(ctx context.Context, userID, gameID int64) (*Player, error) {
	var p Player
	err := s.DB.QueryRowContext(ctx,
		`SELECT p.id, p.user_id, p.game_id, p.score, p.joined_at, u.username
		 FROM players p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ? AND p.game_id = ?`, userID, gameID).
		Scan(&p.ID, &p.UserID, &p.GameID, &p.Score, &p.JoinedAt, &p.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdatePlayerScore(ctx context.Context, playerID int64, score int) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE players SET score = ? WHERE id = ?`, score, playerID)
	return err
}

func (s *Store) CountPlayers(ctx context.Context, gameID int64) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM players WHERE game_id = ?`, gameID).Scan(&n)
	return n, err
}
