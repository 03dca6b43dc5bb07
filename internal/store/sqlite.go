package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/folharh/holerite-sync/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// IsKnown reports whether a record with the given email_uid exists.
func (s *SQLiteStore) IsKnown(ctx context.Context, emailUID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM holerites WHERE email_uid = ?", emailUID,
	)
	if err != nil {
		return false, fmt.Errorf("checking email_uid %s: %w", emailUID, err)
	}
	return count > 0, nil
}

// CreateIfAbsent inserts the record with INSERT OR IGNORE semantics on the
// email_uid uniqueness constraint. A missing ID gets a new UUID.
func (s *SQLiteStore) CreateIfAbsent(ctx context.Context, h model.Holerite) (bool, error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	// The sqlite driver only round-trips UTC timestamps; message dates
	// arrive in whatever zone the Date: header carried.
	var msgDate *time.Time
	if h.MessageDate != nil {
		d := h.MessageDate.UTC()
		msgDate = &d
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO holerites (
			id, email_uid, sender, subject, message_date,
			original_filename, file_path, funcionario_id, processado, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.EmailUID, h.Sender, h.Subject, msgDate,
		h.OriginalFilename, h.FilePath, h.FuncionarioID,
		boolToInt(h.Processado), h.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting holerite uid %s: %w", h.EmailUID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting holerite uid %s: %w", h.EmailUID, err)
	}

	return rows > 0, nil
}

// ListAll returns every record joined with the linked employee's display
// name, sorted by message timestamp descending.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]model.HoleriteWithFuncionario, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT h.id, h.email_uid, h.sender, h.subject, h.message_date,
		       h.original_filename, h.file_path, h.funcionario_id,
		       h.processado, h.created_at,
		       COALESCE(f.nome, '') AS funcionario_nome
		FROM holerites h
		LEFT JOIN funcionarios f ON f.id = h.funcionario_id
		ORDER BY h.message_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying holerites: %w", err)
	}
	defer rows.Close()

	var records []model.HoleriteWithFuncionario
	for rows.Next() {
		rec, err := scanHolerite(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LinkFuncionario sets the employee reference on a record and marks it
// processed.
func (s *SQLiteStore) LinkFuncionario(ctx context.Context, id string, funcionarioID int64) error {
	if funcionarioID <= 0 {
		return ErrInvalidFuncionario
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE holerites SET funcionario_id = ?, processado = 1 WHERE id = ?",
		funcionarioID, id,
	)
	if err != nil {
		return fmt.Errorf("linking holerite %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("linking holerite %s: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanHolerite scans one joined row from a sqlx.Rows result set.
func scanHolerite(rows *sqlx.Rows) (model.HoleriteWithFuncionario, error) {
	var (
		rec        model.HoleriteWithFuncionario
		processado int
	)

	err := rows.Scan(
		&rec.ID, &rec.EmailUID, &rec.Sender, &rec.Subject, &rec.MessageDate,
		&rec.OriginalFilename, &rec.FilePath, &rec.FuncionarioID,
		&processado, &rec.CreatedAt,
		&rec.FuncionarioNome,
	)
	if err != nil {
		return model.HoleriteWithFuncionario{}, fmt.Errorf("scanning holerite row: %w", err)
	}

	rec.Processado = processado != 0

	return rec, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
