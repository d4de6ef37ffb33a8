package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// recordRow is the shared row shape of every collection table.
type recordRow struct {
	bun.BaseModel `bun:"table:wedding_records,alias:r"`

	ID        string    `bun:"id,pk"`
	WeddingID string    `bun:"wedding_id,notnull,default:''"`
	Data      string    `bun:"data,type:text,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SQLStore persists records through bun, one table per collection.
type SQLStore struct {
	db     *bun.DB
	tables Tables
}

func NewSQLStore(db *bun.DB, tables Tables) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	if tables == nil {
		tables = DefaultTables()
	}
	return &SQLStore{db: db, tables: tables}, nil
}

func OpenPostgres(ctx context.Context, cfg PostgresConfig, tables Tables) (*SQLStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	store, err := NewSQLStore(db, tables)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the collection tables that do not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, c := range all {
		table, err := s.tables.Name(c)
		if err != nil {
			return err
		}
		_, err = s.db.NewCreateTable().
			Model((*recordRow)(nil)).
			ModelTableExpr("?", bun.Ident(table)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLStore) Accessor(c Collection) (Accessor, error) {
	table, err := s.tables.Name(c)
	if err != nil {
		return nil, err
	}
	return &sqlAccessor{db: s.db, table: table}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type sqlAccessor struct {
	db    *bun.DB
	table string
}

func (a *sqlAccessor) Get(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}

	var row recordRow
	err := a.db.NewSelect().
		Model(&row).
		ModelTableExpr("? AS r", bun.Ident(a.table)).
		Where("r.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, a.table, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", a.table, id, err)
	}
	return decode([]byte(row.Data))
}

func (a *sqlAccessor) Put(ctx context.Context, rec Record) (string, error) {
	rec, err := prepare(rec)
	if err != nil {
		return "", err
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}

	row := recordRow{
		ID:        rec.ID(),
		WeddingID: rec.WeddingID(),
		Data:      string(raw),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = a.db.NewInsert().
		Model(&row).
		ModelTableExpr("?", bun.Ident(a.table)).
		On("CONFLICT (id) DO UPDATE").
		Set("wedding_id = EXCLUDED.wedding_id").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.table, row.ID, err)
	}
	return row.ID, nil
}

func (a *sqlAccessor) Query(ctx context.Context, filter Filter) ([]Record, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	var rows []recordRow
	q := a.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS r", bun.Ident(a.table)).
		Order("r.id ASC")
	if wid := filter.WeddingID(); wid != "" {
		q = q.Where("r.wedding_id = ?", wid)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("query %s: %w", a.table, err)
	}

	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decode([]byte(row.Data))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return filterSorted(recs, filter), nil
}
