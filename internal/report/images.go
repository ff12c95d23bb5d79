package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/vendaslab/vendas-pipeline/internal/metrics"
	"github.com/vendaslab/vendas-pipeline/internal/model"
	"github.com/vendaslab/vendas-pipeline/internal/storage"
)

const (
	productImageKey = "vendas_produto.png"
	regionImageKey  = "vendas_regiao.png"
)

// Exporter renders the summary charts as standalone PNG images.
type Exporter struct {
	sink storage.Sink
	log  *slog.Logger
}

// NewExporter creates an Exporter emitting through the given sink.
func NewExporter(sink storage.Sink) *Exporter {
	return &Exporter{
		sink: sink,
		log:  slog.With("component", "charts"),
	}
}

// Export writes the product bar chart and the region pie chart. Each chart
// failure is logged and counted; the other chart is still attempted. The
// joined error lets callers decide severity — the pipeline treats it as
// non-fatal.
func (e *Exporter) Export(ctx context.Context, products []model.ProductSummary, regions []model.RegionSummary) error {
	var errs []error

	if err := e.exportProductBar(ctx, products); err != nil {
		e.log.Error("product chart export failed", "error", err)
		metrics.Get().IncChartExportErrors()
		errs = append(errs, err)
	}
	if err := e.exportRegionPie(ctx, regions); err != nil {
		e.log.Error("region chart export failed", "error", err)
		metrics.Get().IncChartExportErrors()
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Exporter) exportProductBar(ctx context.Context, products []model.ProductSummary) error {
	if len(products) == 0 {
		return errors.New("product summary is empty, nothing to chart")
	}

	bars := make([]chart.Value, 0, len(products))
	for _, p := range products {
		bars = append(bars, chart.Value{Label: p.Produto, Value: p.TotalVendas})
	}

	graph := chart.BarChart{
		Title:    "Vendas por Produto (R$)",
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		XAxis:    chart.Shown(),
		YAxis: chart.YAxis{
			Style: chart.Shown(),
			GridMajorStyle: chart.Style{
				StrokeColor:     chart.ColorLightGray,
				StrokeWidth:     1.0,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render product bar chart: %w", err)
	}
	if err := e.sink.Write(ctx, productImageKey, buf.Bytes()); err != nil {
		return err
	}

	e.log.Info("chart image written", "key", productImageKey, "bars", len(bars))
	return nil
}

func (e *Exporter) exportRegionPie(ctx context.Context, regions []model.RegionSummary) error {
	if len(regions) == 0 {
		return errors.New("region summary is empty, nothing to chart")
	}

	var total float64
	for _, r := range regions {
		total += r.TotalVendas
	}
	if total == 0 {
		return errors.New("region summary sums to zero, nothing to chart")
	}

	values := make([]chart.Value, 0, len(regions))
	for _, r := range regions {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", r.Regiao, r.TotalVendas/total*100),
			Value: r.TotalVendas,
		})
	}

	graph := chart.PieChart{
		Title:  "Distribuição de Vendas por Região",
		Width:  800,
		Height: 800,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render region pie chart: %w", err)
	}
	if err := e.sink.Write(ctx, regionImageKey, buf.Bytes()); err != nil {
		return err
	}

	e.log.Info("chart image written", "key", regionImageKey, "slices", len(values))
	return nil
}
