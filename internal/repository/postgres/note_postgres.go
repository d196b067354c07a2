package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"noteapi/internal/apperr"
	"noteapi/internal/model"
	"noteapi/internal/repository"
)

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotePostgres struct {
	db    *sql.DB
	table string

	qPut, qFind, qList, qDelete string
}

// NewNotePostgres creates a repository over the given table.
func NewNotePostgres(db *sql.DB, table string) *NotePostgres {
	t := pgx.Identifier{table}.Sanitize()
	return &NotePostgres{
		db:    db,
		table: table,
		qPut: fmt.Sprintf(`
		INSERT INTO %s (note_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (created_at, name)
		DO UPDATE SET note_id = EXCLUDED.note_id, updated_at = EXCLUDED.updated_at
	`, t),
		qFind: fmt.Sprintf(`
		SELECT note_id, name, created_at, updated_at
		FROM %s
		WHERE created_at = $1 AND name = $2
	`, t),
		qList: fmt.Sprintf(`
		SELECT note_id, name, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC, name
	`, t),
		qDelete: fmt.Sprintf(`DELETE FROM %s WHERE created_at = $1 AND name = $2`, t),
	}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*model.NoteRecord, error) {
	var (
		rec       model.NoteRecord
		createdAt time.Time
	)
	if err := s.Scan(&rec.NoteID, &rec.Name, &createdAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = createdAt.Format(model.DateLayout)
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

// Put inserts the record. A row with the same (created_at, name) is replaced.
func (r *NotePostgres) Put(ctx context.Context, rec *model.NoteRecord) error {
	_, err := r.db.ExecContext(ctx, r.qPut,
		rec.NoteID,
		rec.Name,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return classify("put note", err)
	}
	return nil
}

// FindByKey fetches a single record by (created_at, name).
func (r *NotePostgres) FindByKey(ctx context.Context, key model.NoteKey) (*model.NoteRecord, error) {
	row := r.db.QueryRowContext(ctx, r.qFind, key.CreatedAt, key.Name)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, classify("find note", err)
	}
	return rec, nil
}

// List returns all records, newest first.
func (r *NotePostgres) List(ctx context.Context) ([]model.NoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.qList)
	if err != nil {
		return nil, classify("list notes", err)
	}
	defer rows.Close()

	items := make([]model.NoteRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, classify("list notes", err)
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list notes", err)
	}
	return items, nil
}

// Delete removes a record. It does not return an error if the row does not exist.
func (r *NotePostgres) Delete(ctx context.Context, key model.NoteKey) error {
	if _, err := r.db.ExecContext(ctx, r.qDelete, key.CreatedAt, key.Name); err != nil {
		return classify("delete note", err)
	}
	return nil
}

// PingContext checks database connectivity.
func (r *NotePostgres) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// classify marks errors reported by the server itself as store errors.
// Driver-side failures (network, scanning) stay unclassified.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperr.Store(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
