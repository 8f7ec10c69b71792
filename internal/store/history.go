package store

import "context"

func (s *Store) AddGuess(ctx context.Context, g *GuessRecord) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO guess_history (player_id, game_id, letter, is_correct, points)
		 VALUES (?, ?, ?, ?, ?)`,
		g.PlayerID, g.GameID, g.Letter, g.IsCorrect, g.Points)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

// GuessesForGame returns a game's guesses newest first.
func (s *Store) GuessesForGame(ctx context.Context, gameID int64) ([]GuessRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT gh.id, gh.player_id, gh.game_id, gh.letter, gh.is_correct, gh.points, gh.created_at, u.username
		 FROM guess_history gh
		 JOIN players p ON p.id = gh.player_id
		 JOIN users u ON u.id = p.user_id
		 WHERE gh.game_id = ?
		 ORDER BY gh.created_at DESC, gh.id DESC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GuessRecord{}
	for rows.Next() {
		var g GuessRecord
		if err := rows.Scan(&g.ID, &g.PlayerID, &g.GameID, &g.Letter, &g.IsCorrect, &g.Points, &g.CreatedAt, &g.Username); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) AddGameRecord(ctx context.Context, r *GameRecord) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO game_history (game_id, player_id, score, result, guessed_word)
		 VALUES (?, ?, ?, ?, ?)`,
		r.GameID, r.PlayerID, r.Score, r.Result, r.GuessedWord)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// GameRecordsForUser returns the caller's game-history rows newest first.
func (s *Store) GameRecordsForUser(ctx context.Context, userID int64) ([]GameRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT gh.id, gh.game_id, gh.player_id, gh.score, gh.result, gh.guessed_word, gh.created_at
		 FROM game_history gh
		 JOIN players p ON p.id = gh.player_id
		 WHERE p.user_id = ?
		 ORDER BY gh.created_at DESC, gh.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		if err := rows.Scan(&r.ID, &r.GameID, &r.PlayerID, &r.Score, &r.Result, &r.GuessedWord, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
