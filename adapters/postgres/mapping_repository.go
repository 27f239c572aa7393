package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"serialsheets/domain/pipeline"
	"serialsheets/ports"
)

// mappingRepository implements ports.MappingStore on Postgres, for
// deployments where preferences should survive the process and be shared
// between instances. The file-backed store stays the default.
type mappingRepository struct {
	db *sqlx.DB
}

// NewMappingRepository creates a Postgres-backed mapping store and ensures
// its table exists.
func NewMappingRepository(db *sqlx.DB) (ports.MappingStore, error) {
	r := &mappingRepository{db: db}
	if err := r.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to prepare column_mappings table: %w", err)
	}
	return r, nil
}

func (r *mappingRepository) ensureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS column_mappings (
		key             TEXT PRIMARY KEY,
		part_column     TEXT NOT NULL DEFAULT '',
		invoice_column  TEXT NOT NULL DEFAULT '',
		quantity_column TEXT NOT NULL DEFAULT '',
		serial_column   TEXT NOT NULL DEFAULT '',
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

// Load returns the mapping stored under key, or nil when none exists.
func (r *mappingRepository) Load(ctx context.Context, key string) (*pipeline.Mapping, error) {
	query := `SELECT part_column, invoice_column, quantity_column, serial_column
		FROM column_mappings WHERE key = $1`

	var m pipeline.Mapping
	err := r.db.QueryRowContext(ctx, query, key).Scan(&m.Part, &m.Invoice, &m.Quantity, &m.Serial)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping %q: %w", key, err)
	}
	return &m, nil
}

// Save upserts the mapping under key.
func (r *mappingRepository) Save(ctx context.Context, key string, m pipeline.Mapping) error {
	query := `INSERT INTO column_mappings (key, part_column, invoice_column, quantity_column, serial_column, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (key) DO UPDATE SET
			part_column = EXCLUDED.part_column,
			invoice_column = EXCLUDED.invoice_column,
			quantity_column = EXCLUDED.quantity_column,
			serial_column = EXCLUDED.serial_column,
			updated_at = now()`

	_, err := r.db.ExecContext(ctx, query, key, m.Part, m.Invoice, m.Quantity, m.Serial)
	if err != nil {
		return fmt.Errorf("failed to save mapping %q: %w", key, err)
	}
	return nil
}
