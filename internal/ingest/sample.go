package ingest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendaslab/vendas-pipeline/internal/model"
)

// Fixed cycles for the sample dataset. Ninety daily rows starting 2023-01-01;
// each column cycles independently through its sequence.
var (
	sampleProducts   = []string{"A", "B", "C"}
	sampleQuantities = []int64{10, 15, 8, 20, 5, 12, 18, 7, 13, 9}
	samplePrices     = []int64{100, 150, 80, 90, 200, 110, 85, 190, 120, 95}
	sampleRegions    = []string{"Norte", "Sul", "Leste", "Oeste"}
)

const sampleRowCount = 90

// SampleTransactions generates the deterministic demo dataset used when no
// source workbook exists yet. Same input every call, so tests and repeated
// runs see identical data.
func SampleTransactions() []model.Transaction {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	out := make([]model.Transaction, 0, sampleRowCount)
	for i := 0; i < sampleRowCount; i++ {
		tx := model.Transaction{
			Data:          start.AddDate(0, 0, i),
			Produto:       sampleProducts[i%len(sampleProducts)],
			Quantidade:    sampleQuantities[i%len(sampleQuantities)],
			ValorUnitario: decimal.NewFromInt(samplePrices[i%len(samplePrices)]),
			Regiao:        sampleRegions[i%len(sampleRegions)],
		}
		tx.ValorTotal = tx.ComputeTotal()
		out = append(out, tx)
	}
	return out
}
