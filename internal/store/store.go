// Package store handles SQLite persistence of answer history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pvptrainer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for answer attempts.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			answered_at TEXT NOT NULL,
			shell TEXT NOT NULL,
			category TEXT NOT NULL,
			dataset TEXT NOT NULL,
			max_cp INTEGER NOT NULL,
			answer TEXT NOT NULL,
			input TEXT NOT NULL,
			correct INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_answered_at ON attempts(answered_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_category ON attempts(category);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores one checked answer.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (answered_at, shell, category, dataset, max_cp, answer, input, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AnsweredAt.UTC().Format(timeLayout),
		a.Shell,
		string(a.Category),
		a.Dataset,
		a.MaxCP,
		a.Answer,
		a.Input,
		boolToInt(a.Correct),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns attempts matching the filter, oldest first. Last keeps
// only the most recent N.
func (s *Store) ListAttempts(ctx context.Context, filter model.HistoryFilter) ([]model.Attempt, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`SELECT answered_at, shell, category, dataset, max_cp, answer, input, correct
		FROM (
			SELECT * FROM attempts
			WHERE %s
			ORDER BY answered_at DESC, id DESC
			%s
		)
		ORDER BY answered_at ASC, id ASC`, where, limitClause(filter.Last))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var answeredAt, category string
		var correct int
		if err := rows.Scan(&answeredAt, &a.Shell, &category, &a.Dataset, &a.MaxCP, &a.Answer, &a.Input, &correct); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, answeredAt)
		if err != nil {
			return nil, err
		}
		a.AnsweredAt = parsed
		a.Category = model.Category(category)
		a.Correct = correct != 0
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCategoryAggregates sums correct and incorrect attempts per category.
func (s *Store) ListCategoryAggregates(ctx context.Context, filter model.HistoryFilter) ([]model.CategoryAggregate, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(`WITH recent AS (
		SELECT category, correct FROM attempts
		WHERE %s
		ORDER BY answered_at DESC, id DESC
		%s
	)
	SELECT category, SUM(correct) AS correct, SUM(1 - correct) AS incorrect
	FROM recent
	GROUP BY category
	ORDER BY category`, where, limitClause(filter.Last))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CategoryAggregate
	for rows.Next() {
		var agg model.CategoryAggregate
		var category string
		if err := rows.Scan(&category, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		agg.Category = model.Category(category)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func filterClause(filter model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Shell != "" {
		clauses = append(clauses, "shell = ?")
		args = append(args, filter.Shell)
	}
	if filter.Since != nil {
		clauses = append(clauses, "answered_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

func limitClause(last int) string {
	if last <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", last)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
