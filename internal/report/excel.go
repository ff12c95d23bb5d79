// Package report renders pipeline outputs: the multi-sheet dashboard
// workbook with embedded charts, and the standalone PNG chart images.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/vendaslab/vendas-pipeline/internal/model"
	"github.com/vendaslab/vendas-pipeline/internal/storage"
)

const (
	sheetRaw     = "Dados Brutos"
	sheetProduct = "Resumo por Produto"
	sheetRegion  = "Resumo por Região"
	sheetMonthly = "Vendas Mensais"

	chartAnchor = "F2"
)

// Writer produces the dashboard workbook.
type Writer struct {
	sink storage.Sink
	log  *slog.Logger
}

// NewWriter creates a Writer emitting through the given sink.
func NewWriter(sink storage.Sink) *Writer {
	return &Writer{
		sink: sink,
		log:  slog.With("component", "report"),
	}
}

// WriteDashboard builds the four-sheet workbook (raw data plus the three
// summaries), embeds the product bar chart and the region pie chart, and
// writes it under key, replacing any previous report.
func (w *Writer) WriteDashboard(
	ctx context.Context,
	key string,
	raw []model.Transaction,
	products []model.ProductSummary,
	regions []model.RegionSummary,
	months []model.MonthlySummary,
) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetRaw)
	if err := writeRawSheet(f, raw); err != nil {
		return err
	}
	if err := writeProductSheet(f, products); err != nil {
		return err
	}
	if err := writeRegionSheet(f, regions); err != nil {
		return err
	}
	if err := writeMonthlySheet(f, months); err != nil {
		return err
	}

	if err := addProductChart(f, len(products)); err != nil {
		return err
	}
	if err := addRegionChart(f, len(regions)); err != nil {
		return err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	if err := w.sink.Write(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}

	w.log.Info("dashboard written", "key", key,
		"raw_rows", len(raw), "products", len(products), "regions", len(regions), "months", len(months))
	return nil
}

func writeRawSheet(f *excelize.File, raw []model.Transaction) error {
	header := []any{"Data", "Produto", "Quantidade", "Valor Unitário", "Região", "Valor Total"}
	rows := make([][]any, 0, len(raw))
	for _, tx := range raw {
		rows = append(rows, []any{
			tx.Data.Format("2006-01-02"),
			tx.Produto,
			tx.Quantidade,
			tx.ValorUnitario.InexactFloat64(),
			tx.Regiao,
			tx.ValorTotal.InexactFloat64(),
		})
	}
	return fillSheet(f, sheetRaw, header, rows)
}

func writeProductSheet(f *excelize.File, products []model.ProductSummary) error {
	header := []any{"produto", "total_quantidade", "total_vendas", "preco_medio"}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.Produto, p.TotalQuantidade, p.TotalVendas, p.PrecoMedio})
	}
	return fillSheet(f, sheetProduct, header, rows)
}

func writeRegionSheet(f *excelize.File, regions []model.RegionSummary) error {
	header := []any{"regiao", "total_vendas", "quantidade_vendas"}
	rows := make([][]any, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []any{r.Regiao, r.TotalVendas, r.QuantidadeVendas})
	}
	return fillSheet(f, sheetRegion, header, rows)
}

func writeMonthlySheet(f *excelize.File, months []model.MonthlySummary) error {
	header := []any{"mes", "total_vendas", "quantidade_vendas"}
	rows := make([][]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, []any{m.Mes, m.TotalVendas, m.QuantidadeVendas})
	}
	return fillSheet(f, sheetMonthly, header, rows)
}

func fillSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if sheet != sheetRaw {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s row %d cell name: %w", sheet, i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}

// addProductChart embeds a bar chart of summed quantity and summed sales per
// product. Ranges span the header row plus one row per product.
func addProductChart(f *excelize.File, productCount int) error {
	if productCount == 0 {
		return nil
	}
	endRow := productCount + 1
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", sheetProduct, endRow)

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", sheetProduct),
				Categories: categories,
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheetProduct, endRow),
			},
			{
				Name:       fmt.Sprintf("'%s'!$C$1", sheetProduct),
				Categories: categories,
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", sheetProduct, endRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Vendas por Produto"}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Produto"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Valor"}}},
		Legend: excelize.ChartLegend{Position: "right"},
	}
	if err := f.AddChart(sheetProduct, chartAnchor, chart); err != nil {
		return fmt.Errorf("add product chart: %w", err)
	}
	return nil
}

// addRegionChart embeds a pie chart of summed sales per region.
func addRegionChart(f *excelize.File, regionCount int) error {
	if regionCount == 0 {
		return nil
	}
	endRow := regionCount + 1

	chart := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", sheetRegion),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheetRegion, endRow),
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheetRegion, endRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Distribuição por Região"}},
		Legend: excelize.ChartLegend{Position: "right"},
	}
	if err := f.AddChart(sheetRegion, chartAnchor, chart); err != nil {
		return fmt.Errorf("add region chart: %w", err)
	}
	return nil
}
