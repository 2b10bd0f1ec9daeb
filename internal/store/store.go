// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package store persists users and their dot history in SQLite.
// Reads and user management run synchronously; dot inserts go through
// a single background writer so request handlers never wait on disk.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mzheludkov/pinpoint/internal/models"
)

var (
	// ErrLoginTaken reports a register conflict.
	ErrLoginTaken = errors.New("login already taken")
	// ErrNotFound reports a missing user.
	ErrNotFound = errors.New("user not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  login           TEXT NOT NULL UNIQUE,
  hashed_password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS dots (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  x         TEXT NOT NULL,
  y         TEXT NOT NULL,
  r         TEXT NOT NULL,
  hit       INTEGER NOT NULL,
  exec_time INTEGER NOT NULL,
  cur_time  TEXT NOT NULL,
  user_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
`

// Store wraps the SQLite handle and its prepared statements.
type Store struct {
	db  *sql.DB
	log zerolog.Logger

	createUser *sql.Stmt
	selectHash *sql.Stmt
	deleteUser *sql.Stmt
	insertDot  *sql.Stmt
	selectDots *sql.Stmt
	clearDots  *sql.Stmt
}

// Open creates or opens the database at path, applies the schema and
// prepares the statement set.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection sidesteps
	// SQLITE_BUSY between the writer goroutine and sync calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db, log: log.With().Str("component", "store").Logger()}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error
	prep := func(dst **sql.Stmt, query string) {
		if err != nil {
			return
		}
		*dst, err = s.db.Prepare(query)
	}

	prep(&s.createUser, `INSERT INTO users(login, hashed_password) VALUES(?, ?)`)
	prep(&s.selectHash, `SELECT hashed_password FROM users WHERE login = ?`)
	prep(&s.deleteUser, `DELETE FROM users WHERE login = ?`)
	prep(&s.insertDot, `INSERT INTO dots(x, y, r, hit, exec_time, cur_time, user_id)
		VALUES(?, ?, ?, ?, ?, ?, (SELECT id FROM users WHERE login = ?))`)
	prep(&s.selectDots, `SELECT d.x, d.y, d.r, d.hit, d.exec_time, d.cur_time
		FROM dots d JOIN users u ON d.user_id = u.id
		WHERE u.login = ? ORDER BY d.id`)
	prep(&s.clearDots, `DELETE FROM dots WHERE user_id IN
		(SELECT id FROM users WHERE login = ?)`)

	if err != nil {
		return fmt.Errorf("prepare statements: %w", err)
	}
	return nil
}

// Close releases the statements and the handle.
func (s *Store) Close() error {
	for _, st := range []*sql.Stmt{
		s.createUser, s.selectHash, s.deleteUser,
		s.insertDot, s.selectDots, s.clearDots,
	} {
		if st != nil {
			st.Close()
		}
	}
	return s.db.Close()
}

// CreateUser inserts a new account. Returns ErrLoginTaken when the
// login exists.
func (s *Store) CreateUser(ctx context.Context, login, passwordHash string) error {
	_, err := s.createUser.ExecContext(ctx, login, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLoginTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// PasswordHash fetches the stored hash for login. Returns ErrNotFound
// for an unknown login.
func (s *Store) PasswordHash(ctx context.Context, login string) (string, error) {
	var hash string
	err := s.selectHash.QueryRowContext(ctx, login).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetch password hash: %w", err)
	}
	return hash, nil
}

// DeleteUser removes the account; its dots go with it through the
// cascade. Returns ErrNotFound when nothing was deleted.
func (s *Store) DeleteUser(ctx context.Context, login string) error {
	res, err := s.deleteUser.ExecContext(ctx, login)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertDot appends one dot to the login's history.
func (s *Store) InsertDot(ctx context.Context, login string, d models.Dot) error {
	_, err := s.insertDot.ExecContext(ctx,
		d.X, d.Y, d.R, d.Hit, d.ExecTimeMS, d.Timestamp, login)
	if err != nil {
		return fmt.Errorf("insert dot: %w", err)
	}
	return nil
}

// DotsByLogin returns the login's history, oldest first.
func (s *Store) DotsByLogin(ctx context.Context, login string) ([]models.Dot, error) {
	rows, err := s.selectDots.QueryContext(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("select dots: %w", err)
	}
	defer rows.Close()

	var dots []models.Dot
	for rows.Next() {
		var d models.Dot
		if err := rows.Scan(&d.X, &d.Y, &d.R, &d.Hit, &d.ExecTimeMS, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("scan dot: %w", err)
		}
		dots = append(dots, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select dots: %w", err)
	}
	return dots, nil
}

// ClearDots deletes the login's history.
func (s *Store) ClearDots(ctx context.Context, login string) error {
	if _, err := s.clearDots.ExecContext(ctx, login); err != nil {
		return fmt.Errorf("clear dots: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
