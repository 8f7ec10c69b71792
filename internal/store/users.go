package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicate is returned when a unique constraint (username, email) trips.
var ErrDuplicate = errors.New("already exists")

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.Role == "" {
		u.Role = RolePlayer
	}
	if u.Level == 0 {
		u.Level = 1
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash, role, level, xp, coin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.Level, u.XP, u.Coin)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

const userCols = `id, username, email, first_name, last_name, password_hash, role, level, xp, coin, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.Level, &u.XP, &u.Coin, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE username = ?`, username))
}

// UpdateUserNames updates the mutable profile fields.
func (s *Store) UpdateUserNames(ctx context.Context, u *User) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, username = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.Username, u.ID)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// SaveUserProgress persists level, xp and coins after game rewards.
func (s *Store) SaveUserProgress(ctx context.Context, u *User) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET level = ?, xp = ?, coin = ? WHERE id = ?`,
		u.Level, u.XP, u.Coin, u.ID)
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ResetUserCoins(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET coin = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TopUsersByXP returns the leaderboard: usernames ordered by total XP.
func (s *Store) TopUsersByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT username, xp FROM users ORDER BY xp DESC, username ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
