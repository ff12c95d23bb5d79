// Package ingest loads sales transactions from an xlsx workbook, deriving
// missing computed columns, and falls back to deterministic sample data when
// no workbook exists at the default location.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vendaslab/vendas-pipeline/internal/model"
)

// Source column headers expected in the first row of the workbook.
const (
	colData          = "Data"
	colProduto       = "Produto"
	colQuantidade    = "Quantidade"
	colValorUnitario = "Valor Unitário"
	colValorTotal    = "Valor Total"
	colRegiao        = "Região"
)

var requiredColumns = []string{colData, colProduto, colQuantidade, colValorUnitario, colRegiao}

// Accepted date layouts, tried in order. The second is the default display
// format excelize produces for date-styled cells.
var dateLayouts = []string{"2006-01-02", "01-02-06", "2006-01-02 15:04:05"}

// Result carries the loaded rows and whether they were synthesized rather
// than read from disk.
type Result struct {
	Rows      []model.Transaction
	Generated bool
	Path      string
}

// Loader resolves and reads the source workbook.
type Loader struct {
	defaultPath string
	log         *slog.Logger
}

// NewLoader creates a Loader. Sample data is only ever generated (and written
// back) at defaultPath; explicit paths must exist.
func NewLoader(defaultPath string) *Loader {
	return &Loader{
		defaultPath: defaultPath,
		log:         slog.With("component", "ingest"),
	}
}

// Load reads the workbook at path, or the default path when path is empty.
// A missing file is tolerated only at the default path: the loader then
// synthesizes the sample dataset and persists it there for future runs.
func (l *Loader) Load(path string) (Result, error) {
	resolved := path
	fallback := false
	if resolved == "" {
		resolved = l.defaultPath
		fallback = true
	}

	if _, err := os.Stat(resolved); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("stat source %s: %w", resolved, err)
		}
		if !fallback {
			return Result{}, fmt.Errorf("source file not found: %s", resolved)
		}

		l.log.Info("source workbook not found, generating sample data", "path", resolved)
		rows := SampleTransactions()
		if err := WriteWorkbook(resolved, rows); err != nil {
			return Result{}, fmt.Errorf("write sample workbook: %w", err)
		}
		return Result{Rows: rows, Generated: true, Path: resolved}, nil
	}

	rows, err := l.readWorkbook(resolved)
	if err != nil {
		return Result{}, err
	}
	l.log.Info("source workbook loaded", "path", resolved, "rows", len(rows))
	return Result{Rows: rows, Path: resolved}, nil
}

func (l *Loader) readWorkbook(path string) ([]model.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("workbook %s is missing column %q", path, name)
		}
	}
	_, hasTotal := idx[colValorTotal]

	out := make([]model.Transaction, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		tx, err := parseRow(row, idx, hasTotal)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int, hasTotal bool) (model.Transaction, error) {
	var tx model.Transaction
	var err error

	if tx.Data, err = parseDate(cell(row, idx[colData])); err != nil {
		return tx, err
	}
	tx.Produto = cell(row, idx[colProduto])
	tx.Regiao = cell(row, idx[colRegiao])

	qty, err := strconv.ParseFloat(cell(row, idx[colQuantidade]), 64)
	if err != nil {
		return tx, fmt.Errorf("parse quantidade: %w", err)
	}
	tx.Quantidade = int64(qty)

	if tx.ValorUnitario, err = decimal.NewFromString(cell(row, idx[colValorUnitario])); err != nil {
		return tx, fmt.Errorf("parse valor unitário: %w", err)
	}

	if hasTotal {
		if tx.ValorTotal, err = decimal.NewFromString(cell(row, idx[colValorTotal])); err != nil {
			return tx, fmt.Errorf("parse valor total: %w", err)
		}
	} else {
		tx.ValorTotal = tx.ComputeTotal()
	}
	return tx, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse data %q: unrecognized format", value)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteWorkbook persists rows as an xlsx workbook at path, one sheet with a
// header row, dates as ISO strings and monetary values as numbers.
func WriteWorkbook(path string, rows []model.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Vendas"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []any{colData, colProduto, colQuantidade, colValorUnitario, colRegiao, colValorTotal}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, tx := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell name: %w", i, err)
		}
		values := []any{
			tx.Data.Format("2006-01-02"),
			tx.Produto,
			tx.Quantidade,
			tx.ValorUnitario.InexactFloat64(),
			tx.Regiao,
			tx.ValorTotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
