package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vendaslab/vendas-pipeline/internal/model"
	"github.com/vendaslab/vendas-pipeline/internal/storage"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := storage.NewLocalSink(dir)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	t.Cleanup(func() { sink.Close() })
	return NewExporter(sink), dir
}

func TestExportWritesBothImages(t *testing.T) {
	e, dir := newTestExporter(t)

	_, products, regions, _ := testSummaries()
	if err := e.Export(context.Background(), products, regions); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, name := range []string{"vendas_produto.png", "vendas_regiao.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a PNG", name)
		}
	}
}

func TestExportRejectsEmptySummaries(t *testing.T) {
	e, dir := newTestExporter(t)

	// Empty inputs are rejected deterministically: an error comes back, no
	// file is written, and nothing panics.
	err := e.Export(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error for empty summaries, got nil")
	}

	for _, name := range []string{"vendas_produto.png", "vendas_regiao.png"} {
		if _, statErr := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(statErr) {
			t.Errorf("%s should not exist for empty input", name)
		}
	}
}

func TestExportRendersOtherChartWhenOneFails(t *testing.T) {
	e, dir := newTestExporter(t)

	_, products, _, _ := testSummaries()
	err := e.Export(context.Background(), products, nil)
	if err == nil {
		t.Fatal("expected error when region summary is empty")
	}

	// The product chart must still have been written.
	data, readErr := os.ReadFile(filepath.Join(dir, "vendas_produto.png"))
	if readErr != nil {
		t.Fatalf("read product chart: %v", readErr)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("product chart is not a PNG")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "vendas_regiao.png")); !os.IsNotExist(statErr) {
		t.Error("region chart should not exist")
	}
}

func TestExportRejectsZeroTotals(t *testing.T) {
	e, dir := newTestExporter(t)

	regions := []model.RegionSummary{
		{Regiao: "Norte", TotalVendas: 0, QuantidadeVendas: 1},
	}
	_, products, _, _ := testSummaries()

	if err := e.Export(context.Background(), products, regions); err == nil {
		t.Fatal("expected error for zero-sum region summary")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "vendas_regiao.png")); !os.IsNotExist(statErr) {
		t.Error("region chart should not exist for zero-sum input")
	}
}
