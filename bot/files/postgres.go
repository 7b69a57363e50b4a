package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore is the durable Store implementation over sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put upserts a record by key.
func (s *PostgresStore) Put(ctx context.Context, rec *FileRecord) error {
	if rec == nil {
		return fmt.Errorf("files: nil record")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO file_records
			(file_key, file_id, file_name, file_size, owner_id, archive_msg_id, has_password, password, created_at)
		VALUES
			(:file_key, :file_id, :file_name, :file_size, :owner_id, :archive_msg_id, :has_password, :password, :created_at)
		ON CONFLICT (file_key) DO UPDATE SET
			file_id        = EXCLUDED.file_id,
			file_name      = EXCLUDED.file_name,
			file_size      = EXCLUDED.file_size,
			owner_id       = EXCLUDED.owner_id,
			archive_msg_id = EXCLUDED.archive_msg_id,
			has_password   = EXCLUDED.has_password,
			password       = EXCLUDED.password,
			created_at     = EXCLUDED.created_at`
	if _, err := s.db.NamedExecContext(ctx, q, rec); err != nil {
		return fmt.Errorf("files: put %s: %w", rec.Key, err)
	}
	return nil
}

// Get returns the record for a key, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) (*FileRecord, error) {
	var rec FileRecord
	const q = `
		SELECT file_key, file_id, file_name, file_size, owner_id, archive_msg_id, has_password, password, created_at
		FROM file_records
		WHERE file_key = $1`
	if err := s.db.GetContext(ctx, &rec, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("files: get %s: %w", key, err)
	}
	return &rec, nil
}

// SetPassword protects an existing record; single-statement, so the
// flag and password are never observed out of sync.
func (s *PostgresStore) SetPassword(ctx context.Context, key, password string) error {
	const q = `
		UPDATE file_records
		SET has_password = TRUE, password = $2
		WHERE file_key = $1`
	res, err := s.db.ExecContext(ctx, q, key, password)
	if err != nil {
		return fmt.Errorf("files: set password %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("files: set password %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM file_records WHERE file_key = $1`, key)
	if err != nil {
		return fmt.Errorf("files: delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("files: delete %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored records.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM file_records`); err != nil {
		return 0, fmt.Errorf("files: count: %w", err)
	}
	return n, nil
}
