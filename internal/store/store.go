// Package store owns the SQLite schema and persistence for sales
// transactions and per-load run metadata.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/vendaslab/vendas-pipeline/internal/metrics"
	"github.com/vendaslab/vendas-pipeline/internal/model"
)

// Store wraps a single SQLite connection for one pipeline run.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Result is a buffered tabular query result. An empty Result (no columns, no
// rows) is what callers see when a query fails.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the result carries no rows.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Open opens (creating if absent) the SQLite database at path and ensures
// both tables exist. Safe to call against an already-initialized file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	s := &Store{
		db:  db,
		log: slog.With("component", "store"),
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}

	vendasTable := `
	CREATE TABLE IF NOT EXISTS vendas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT NOT NULL,
		produto TEXT NOT NULL,
		quantidade INTEGER NOT NULL,
		valor_unitario REAL NOT NULL,
		valor_total REAL NOT NULL,
		regiao TEXT NOT NULL,
		data_registro TEXT DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = tx.Exec(vendasTable); err != nil {
		tx.Rollback()
		return fmt.Errorf("create vendas table: %w", err)
	}

	metadadosTable := `
	CREATE TABLE IF NOT EXISTS metadados (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ultima_atualizacao TEXT,
		total_registros INTEGER
	);`
	if _, err = tx.Exec(metadadosTable); err != nil {
		tx.Rollback()
		return fmt.Errorf("create metadados table: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// InsertTransactions inserts one vendas row per transaction (dates stored as
// ISO YYYY-MM-DD), then appends a metadados row stamped with the current time
// and the new total row count.
//
// The returned count is the driver-reported affected count of the trailing
// metadados insert, not the batch size; it is informational only. Use
// len(rows) for the authoritative batch size.
func (s *Store) InsertTransactions(ctx context.Context, rows []model.Transaction) (int64, error) {
	const insertVenda = `
	INSERT INTO vendas (data, produto, quantidade, valor_unitario, valor_total, regiao)
	VALUES (?, ?, ?, ?, ?, ?)`

	for i, row := range rows {
		_, err := s.db.ExecContext(ctx, insertVenda,
			row.Data.Format("2006-01-02"),
			row.Produto,
			row.Quantidade,
			row.ValorUnitario.InexactFloat64(),
			row.ValorTotal.InexactFloat64(),
			row.Regiao,
		)
		if err != nil {
			return 0, fmt.Errorf("insert venda %d: %w", i, err)
		}
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO metadados (ultima_atualizacao, total_registros)
	VALUES (datetime('now'), (SELECT COUNT(*) FROM vendas))`)
	if err != nil {
		return 0, fmt.Errorf("insert metadados: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("metadados rows affected: %w", err)
	}
	return affected, nil
}

// Query executes a read-only statement and buffers the result. Driver errors
// are logged and swallowed; callers always get a (possibly empty) Result.
func (s *Store) Query(ctx context.Context, query string, args ...any) Result {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log.Error("query failed", "error", err)
		metrics.Get().IncQueryErrors()
		return Result{}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		s.log.Error("query columns failed", "error", err)
		metrics.Get().IncQueryErrors()
		return Result{}
	}

	out := Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			s.log.Error("query scan failed", "error", err)
			metrics.Get().IncQueryErrors()
			return Result{}
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("query iteration failed", "error", err)
		metrics.Get().IncQueryErrors()
		return Result{}
	}
	return out
}

// Close releases the connection. Safe after a partial Open failure and safe
// to call more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
