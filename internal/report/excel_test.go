package report

import (
	"archive/zip"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vendaslab/vendas-pipeline/internal/model"
	"github.com/vendaslab/vendas-pipeline/internal/storage"
)

func testSummaries() ([]model.Transaction, []model.ProductSummary, []model.RegionSummary, []model.MonthlySummary) {
	mk := func(day int, produto string, qty int64, price int64, regiao string) model.Transaction {
		tx := model.Transaction{
			Data:          time.Date(2023, time.January, day, 0, 0, 0, 0, time.UTC),
			Produto:       produto,
			Quantidade:    qty,
			ValorUnitario: decimal.NewFromInt(price),
			Regiao:        regiao,
		}
		tx.ValorTotal = tx.ComputeTotal()
		return tx
	}

	raw := []model.Transaction{
		mk(1, "A", 10, 100, "Norte"),
		mk(2, "B", 5, 200, "Sul"),
	}
	products := []model.ProductSummary{
		{Produto: "A", TotalQuantidade: 10, TotalVendas: 1000, PrecoMedio: 100},
		{Produto: "B", TotalQuantidade: 5, TotalVendas: 1000, PrecoMedio: 200},
	}
	regions := []model.RegionSummary{
		{Regiao: "Norte", TotalVendas: 1000, QuantidadeVendas: 1},
		{Regiao: "Sul", TotalVendas: 1000, QuantidadeVendas: 1},
	}
	months := []model.MonthlySummary{
		{Mes: "2023-01", TotalVendas: 2000, QuantidadeVendas: 2},
	}
	return raw, products, regions, months
}

func writeTestDashboard(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	sink, err := storage.NewLocalSink(dir)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer sink.Close()

	raw, products, regions, months := testSummaries()
	w := NewWriter(sink)
	if err := w.WriteDashboard(context.Background(), "dashboard.xlsx", raw, products, regions, months); err != nil {
		t.Fatalf("WriteDashboard failed: %v", err)
	}
	return filepath.Join(dir, "dashboard.xlsx")
}

func TestDashboardSheetOrder(t *testing.T) {
	path := writeTestDashboard(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen dashboard: %v", err)
	}
	defer f.Close()

	want := []string{"Dados Brutos", "Resumo por Produto", "Resumo por Região", "Vendas Mensais"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheet list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDashboardSheetContents(t *testing.T) {
	path := writeTestDashboard(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen dashboard: %v", err)
	}
	defer f.Close()

	checks := []struct {
		sheet, cell, want string
	}{
		{"Dados Brutos", "A1", "Data"},
		{"Dados Brutos", "A2", "2023-01-01"},
		{"Dados Brutos", "B2", "A"},
		{"Dados Brutos", "F2", "1000"},
		{"Resumo por Produto", "A1", "produto"},
		{"Resumo por Produto", "B2", "10"},
		{"Resumo por Produto", "C3", "1000"},
		{"Resumo por Região", "A2", "Norte"},
		{"Resumo por Região", "B3", "1000"},
		{"Vendas Mensais", "A2", "2023-01"},
		{"Vendas Mensais", "B2", "2000"},
		{"Vendas Mensais", "C2", "2"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestDashboardEmbedsTwoCharts(t *testing.T) {
	path := writeTestDashboard(t)

	// Charts live as chart parts inside the xlsx package; two embedded
	// charts mean two chart XML entries.
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open xlsx as zip: %v", err)
	}
	defer zr.Close()

	charts := map[string]bool{}
	for _, entry := range zr.File {
		switch entry.Name {
		case "xl/charts/chart1.xml", "xl/charts/chart2.xml":
			charts[entry.Name] = true
		}
	}
	if len(charts) != 2 {
		t.Errorf("expected 2 chart parts, found %d (%v)", len(charts), charts)
	}
}

func TestDashboardOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	sink, err := storage.NewLocalSink(dir)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer sink.Close()

	raw, products, regions, months := testSummaries()
	w := NewWriter(sink)

	ctx := context.Background()
	if err := w.WriteDashboard(ctx, "dashboard.xlsx", raw, products, regions, months); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := w.WriteDashboard(ctx, "dashboard.xlsx", raw, products[:1], regions[:1], months); err != nil {
		t.Fatalf("second write: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "dashboard.xlsx"))
	if err != nil {
		t.Fatalf("reopen dashboard: %v", err)
	}
	defer f.Close()

	// The second write had a single product; row 3 must be gone.
	got, err := f.GetCellValue("Resumo por Produto", "A3")
	if err != nil {
		t.Fatalf("read A3: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty A3 after overwrite, got %q", got)
	}
}

func TestDashboardHandlesEmptySummaries(t *testing.T) {
	dir := t.TempDir()
	sink, err := storage.NewLocalSink(dir)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer sink.Close()

	w := NewWriter(sink)
	if err := w.WriteDashboard(context.Background(), "dashboard.xlsx", nil, nil, nil, nil); err != nil {
		t.Fatalf("WriteDashboard with empty inputs failed: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "dashboard.xlsx"))
	if err != nil {
		t.Fatalf("reopen dashboard: %v", err)
	}
	defer f.Close()

	if got := len(f.GetSheetList()); got != 4 {
		t.Errorf("expected 4 sheets, got %d", got)
	}
}
