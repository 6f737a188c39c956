package directory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/directory/migrations"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// PostgresStore keeps the snapshot in the directory_users table. Save
// rewrites the table inside a single transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects through pgx and applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string, log logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := RunMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema with goose.
func RunMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	goose.SetLogger(logging.NewPrintfLogger(log))
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (s *PostgresStore) Save(ctx context.Context, records []Record) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM directory_users`); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		for _, r := range records {
			u := r.User
			_, err := tx.ExecContext(ctx,
				`INSERT INTO directory_users (id, username, password, email, first_name, last_name, avatar, phone, address, bio)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				u.ID, u.Username, r.Password, u.Email, u.FirstName, u.LastName, u.Avatar, u.Phone, u.Address, u.Bio)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

// Load returns ErrNoSnapshot when the table is empty.
func (s *PostgresStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password, email, first_name, last_name, avatar, phone, address, bio
		 FROM directory_users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		u := &r.User
		if err := rows.Scan(&u.ID, &u.Username, &r.Password, &u.Email, &u.FirstName, &u.LastName, &u.Avatar, &u.Phone, &u.Address, &u.Bio); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoSnapshot
	}
	return records, nil
}
