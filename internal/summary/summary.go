// Package summary computes the three aggregate views over persisted sales:
// by product, by region and by calendar month.
package summary

import (
	"context"
	"strconv"

	"github.com/vendaslab/vendas-pipeline/internal/model"
	"github.com/vendaslab/vendas-pipeline/internal/store"
)

const productQuery = `
	SELECT produto,
	       SUM(quantidade) as total_quantidade,
	       SUM(valor_total) as total_vendas,
	       ROUND(AVG(valor_unitario), 2) as preco_medio
	FROM vendas
	GROUP BY produto
	ORDER BY total_vendas DESC`

const regionQuery = `
	SELECT regiao,
	       SUM(valor_total) as total_vendas,
	       COUNT(*) as quantidade_vendas
	FROM vendas
	GROUP BY regiao
	ORDER BY total_vendas DESC`

const monthlyQuery = `
	SELECT strftime('%Y-%m', data) as mes,
	       SUM(valor_total) as total_vendas,
	       COUNT(*) as quantidade_vendas
	FROM vendas
	GROUP BY mes
	ORDER BY mes`

// ByProduct returns per-product totals ordered by summed sales descending.
// A failed query yields an empty slice, matching the store's contract.
func ByProduct(ctx context.Context, s *store.Store) []model.ProductSummary {
	res := s.Query(ctx, productQuery)

	out := make([]model.ProductSummary, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.ProductSummary{
			Produto:         asString(row[0]),
			TotalQuantidade: asInt64(row[1]),
			TotalVendas:     asFloat64(row[2]),
			PrecoMedio:      asFloat64(row[3]),
		})
	}
	return out
}

// ByRegion returns per-region totals ordered by summed sales descending.
func ByRegion(ctx context.Context, s *store.Store) []model.RegionSummary {
	res := s.Query(ctx, regionQuery)

	out := make([]model.RegionSummary, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.RegionSummary{
			Regiao:           asString(row[0]),
			TotalVendas:      asFloat64(row[1]),
			QuantidadeVendas: asInt64(row[2]),
		})
	}
	return out
}

// ByMonth returns per-month totals ordered chronologically ascending, with
// "YYYY-MM" labels.
func ByMonth(ctx context.Context, s *store.Store) []model.MonthlySummary {
	res := s.Query(ctx, monthlyQuery)

	out := make([]model.MonthlySummary, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.MonthlySummary{
			Mes:              asString(row[0]),
			TotalVendas:      asFloat64(row[1]),
			QuantidadeVendas: asInt64(row[2]),
		})
	}
	return out
}

// SQLite reports aggregate values as int64, float64, string or []byte
// depending on column affinity; normalize without assuming one shape.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
