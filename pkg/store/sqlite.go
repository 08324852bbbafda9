package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens the database at dsn and runs migrations. A nil
// logger uses slog.Default().
func NewSQLiteStore(dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}
	// One connection keeps ":memory:" databases on a single schema.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	logger.Debug("design store opened", "dsn", dsn)
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// withForeignKeys appends the foreign key pragma to dsn unless it already
// sets one, keeping any query parameters the caller supplied.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type designRow struct {
	ID          string `db:"id"`
	ProjectName string `db:"project_name"`
	RootDir     string `db:"root_dir"`
	Params      string `db:"params"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (s *SQLiteStore) SaveDesign(ctx context.Context, p design.Project, spec *gear.SolvedSpec) (*Record, error) {
	text, err := checkAndEncode("SaveDesign", p, spec)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	row := designRow{
		ID:          uuid.New().String(),
		ProjectName: p.Name,
		RootDir:     p.RootDir,
		Params:      text,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}

	query := `
		INSERT INTO designs (id, project_name, root_dir, params, created_at, updated_at)
		VALUES (:id, :project_name, :root_dir, :params, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: designs.project_name") {
			return nil, NewStoreError("SaveDesign", "design", p.Name, "design with this project name already exists", ErrDuplicateName)
		}
		return nil, NewStoreError("SaveDesign", "design", p.Name, err.Error(), err)
	}

	s.logger.Info("design saved", "project", p.Name, "id", row.ID)
	return rowToRecord(&row)
}

func (s *SQLiteStore) UpdateDesign(ctx context.Context, p design.Project, spec *gear.SolvedSpec) (*Record, error) {
	text, err := checkAndEncode("UpdateDesign", p, spec)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second).Format(time.RFC3339)
	query := `UPDATE designs SET root_dir = ?, params = ?, updated_at = ? WHERE project_name = ?`

	result, err := s.db.ExecContext(ctx, query, p.RootDir, text, now, p.Name)
	if err != nil {
		return nil, NewStoreError("UpdateDesign", "design", p.Name, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, NewStoreError("UpdateDesign", "design", p.Name, "design not found", ErrNotFound)
	}

	s.logger.Info("design updated", "project", p.Name)
	return s.GetDesign(ctx, p.Name)
}

func (s *SQLiteStore) GetDesign(ctx context.Context, name string) (*Record, error) {
	query := `SELECT * FROM designs WHERE project_name = ?`

	var row designRow
	if err := s.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetDesign", "design", name, "design not found", ErrNotFound)
		}
		return nil, NewStoreError("GetDesign", "design", name, err.Error(), err)
	}
	return rowToRecord(&row)
}

func (s *SQLiteStore) ListDesigns(ctx context.Context, opts ListOptions) ([]Record, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM designs ORDER BY project_name LIMIT ? OFFSET ?`

	var rows []designRow
	if err := s.db.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListDesigns", "design", "", err.Error(), err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		r, err := rowToRecord(&row)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, nil
}

func (s *SQLiteStore) DeleteDesign(ctx context.Context, name string) error {
	query := `DELETE FROM designs WHERE project_name = ?`

	result, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return NewStoreError("DeleteDesign", "design", name, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteDesign", "design", name, "design not found", ErrNotFound)
	}

	s.logger.Info("design deleted", "project", name)
	return nil
}

func checkAndEncode(op string, p design.Project, spec *gear.SolvedSpec) (string, error) {
	if err := p.Check(); err != nil {
		return "", NewStoreError(op, "design", p.Name, err.Error(), ErrInvalidData)
	}
	if spec == nil {
		return "", NewStoreError(op, "design", p.Name, "no solved pair", ErrInvalidData)
	}
	text, err := encodeParams(p, spec)
	if err != nil {
		return "", NewStoreError(op, "design", p.Name, "failed to encode parameters", ErrInvalidData)
	}
	return text, nil
}

func rowToRecord(row *designRow) (*Record, error) {
	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		return nil, NewStoreError("rowToRecord", "design", row.ProjectName, "invalid created_at", ErrInvalidData)
	}
	updatedAt, err := time.Parse(time.RFC3339, row.UpdatedAt)
	if err != nil {
		return nil, NewStoreError("rowToRecord", "design", row.ProjectName, "invalid updated_at", ErrInvalidData)
	}
	return &Record{
		ID:        row.ID,
		Project:   design.Project{Name: row.ProjectName, RootDir: row.RootDir},
		Params:    row.Params,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
