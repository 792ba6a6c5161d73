package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var chartColumns = []string{"Amount of posts", "Average likes amount", "Average comments amount", "Average reposts amount"}

// ExcelRenderer writes one workbook per histogram: a table of the buckets
// and a clustered column chart over it.
type ExcelRenderer struct {
	dir string
	log pkg.Logger
}

func NewExcelRenderer(dir string, log pkg.Logger) *ExcelRenderer {
	return &ExcelRenderer{dir: dir, log: log}
}

func (r *ExcelRenderer) Render(ctx context.Context, run model.Run, dim model.Dimension, buckets []model.LabeledBucket) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(r.dir, fmt.Sprintf("%s_stat_%s.xlsx", dim, run.ArtifactBase()))

	f := excelize.NewFile()
	defer f.Close()

	sheet := string(dim)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}

	header := []interface{}{"Bucket"}
	for _, c := range chartColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", err
	}

	for i, b := range buckets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		row := []interface{}{b.Label, b.Amount, b.AverageLikes(), b.AverageComments(), b.AverageReposts()}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	if len(buckets) > 0 {
		if err := f.AddChart(sheet, "G2", barChart(sheet, dim, len(buckets))); err != nil {
			return "", fmt.Errorf("add chart: %w", err)
		}
	}

	if err := saveAtomic(dst, func(tmp string) error { return f.SaveAs(tmp) }); err != nil {
		return "", err
	}
	r.log.Info("Histogram saved", "dimension", dim, "path", dst, "buckets", len(buckets))
	return dst, nil
}

func barChart(sheet string, dim model.Dimension, n int) *excelize.Chart {
	series := make([]excelize.ChartSeries, 0, len(chartColumns))
	for i := range chartColumns {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, n+1),
		})
	}
	return &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("VK post statistics for %s", dim)}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
		},
		Dimension: excelize.ChartDimension{
			Width:  uint(max(480, n*120)),
			Height: 400,
		},
	}
}
