package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateWord(ctx context.Context, w *Word) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO words (word, difficulty) VALUES (?, ?)`, w.Word, w.Difficulty)
	if err != nil {
		return err
	}
	w.ID, err = res.LastInsertId()
	return err
}

func (s *Store) WordByID(ctx context.Context, id int64) (*Word, error) {
	var w Word
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, word, difficulty FROM words WHERE id = ?`, id).
		Scan(&w.ID, &w.Word, &w.Difficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) Words(ctx context.Context) ([]Word, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, word, difficulty FROM words ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Word{}
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.ID, &w.Word, &w.Difficulty); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) UpdateWord(ctx context.Context, w *Word) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE words SET word = ?, difficulty = ? WHERE id = ?`, w.Word, w.Difficulty, w.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteWord(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllWords clears the bank before reseeding.
func (s *Store) DeleteAllWords(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM words`)
	return err
}

// RandomWord picks a uniformly random word of the given difficulty.
// Returns ErrNotFound when the bank has no word at that difficulty.
func (s *Store) RandomWord(ctx context.Context, difficulty int) (string, error) {
	var w string
	err := s.DB.QueryRowContext(ctx,
		`SELECT word FROM words WHERE difficulty = ? ORDER BY RANDOM() LIMIT 1`, difficulty).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return w, err
}
