// Package model holds the domain types shared across the pipeline:
// raw sales transactions and the aggregated summary rows.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one sale loaded from the source spreadsheet, before it is
// persisted. Monetary fields use exact decimals; the database stores them as
// REAL once inserted.
type Transaction struct {
	Data          time.Time
	Produto       string
	Quantidade    int64
	ValorUnitario decimal.Decimal
	ValorTotal    decimal.Decimal
	Regiao        string
}

// ComputeTotal returns Quantidade × ValorUnitario.
func (t Transaction) ComputeTotal() decimal.Decimal {
	return decimal.NewFromInt(t.Quantidade).Mul(t.ValorUnitario)
}

// ProductSummary aggregates sales for a single product.
type ProductSummary struct {
	Produto         string
	TotalQuantidade int64
	TotalVendas     float64
	PrecoMedio      float64
}

// RegionSummary aggregates sales for a single region.
type RegionSummary struct {
	Regiao           string
	TotalVendas      float64
	QuantidadeVendas int64
}

// MonthlySummary aggregates sales for one calendar month ("2006-01" labels).
type MonthlySummary struct {
	Mes              string
	TotalVendas      float64
	QuantidadeVendas int64
}
