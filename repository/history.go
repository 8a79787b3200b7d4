package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/Aashish23092/paystub-extraction/dto"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	// PayDateLayout is how pay stubs print the regular payroll date.
	PayDateLayout = "1/2/2006"
	dayLayout     = "2006-01-02"

	dialTimeout = 10 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS paystub_history (
	id         TEXT PRIMARY KEY,
	pay_date   TEXT NOT NULL,
	pay_day    TEXT NOT NULL,
	filename   TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// HistoryRepository stores flattened pay stubs keyed by pay date.
type HistoryRepository struct {
	db     *sql.DB
	pool   *pgxpool.Pool
	driver string
}

// Open connects to the store and creates the history table if needed.
func Open(ctx context.Context, driver, dsn string) (*HistoryRepository, error) {
	repo := &HistoryRepository{driver: driver}

	switch driver {
	case DriverSQLite:
		db, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)
		repo.db = db
	case DriverPostgres:
		pc, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "paystub-extraction"

		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo.pool = pool
		repo.db = stdlib.OpenDBFromPool(pool)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}

	if _, err := repo.db.ExecContext(ctx, schema); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	log.Printf("History store ready (driver=%s)", driver)
	return repo, nil
}

// Close closes the database connections
func (r *HistoryRepository) Close() error {
	err := r.db.Close()
	if r.pool != nil {
		r.pool.Close()
	}
	return err
}

// Save inserts one entry. CreatedAt is filled in when empty.
func (r *HistoryRepository) Save(ctx context.Context, entry dto.HistoryEntry) error {
	fields, err := json.Marshal(entry.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	query := r.rebind(`INSERT INTO paystub_history (id, pay_date, pay_day, filename, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.PayDate, payDay(entry.PayDate), entry.Filename, string(fields), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save history entry %s: %w", entry.ID, err)
	}
	return nil
}

// List returns entries whose pay date falls within [from, to], oldest
// first. A zero bound is open. Entries without a readable pay date are
// only returned when both bounds are open.
func (r *HistoryRepository) List(ctx context.Context, from, to time.Time) ([]dto.HistoryEntry, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "pay_day <> '' AND pay_day >= ?")
		args = append(args, from.Format(dayLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "pay_day <> '' AND pay_day <= ?")
		args = append(args, to.Format(dayLayout))
	}

	query := "SELECT id, pay_date, filename, fields, created_at FROM paystub_history"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY pay_day, created_at"

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []dto.HistoryEntry{}
	for rows.Next() {
		var (
			e      dto.HistoryEntry
			fields string
		)
		if err := rows.Scan(&e.ID, &e.PayDate, &e.Filename, &fields, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *HistoryRepository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// payDay converts a printed pay date into a sortable day, or "" when it
// cannot be read.
func payDay(payDate string) string {
	t, err := time.Parse(PayDateLayout, strings.TrimSpace(payDate))
	if err != nil {
		return ""
	}
	return t.Format(dayLayout)
}
