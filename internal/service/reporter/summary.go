package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

var dimensionTitles = map[model.Dimension]string{
	model.Hours:    "Posts by hour (UTC)",
	model.Weekdays: "Posts by day of the week",
	model.Months:   "Posts by month",
	model.Years:    "Posts by year",
}

// SummaryWriter renders the run summary document.
type SummaryWriter struct {
	dir string
	log pkg.Logger
}

func NewSummaryWriter(dir string, log pkg.Logger) *SummaryWriter {
	return &SummaryWriter{dir: dir, log: log}
}

func (w *SummaryWriter) WriteSummary(ctx context.Context, summary model.Summary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(w.dir, fmt.Sprintf("summary_%s.docx", summary.Run.ArtifactBase()))

	doc := document.New()

	para := doc.AddParagraph()
	para.SetStyle("Title")
	para.Properties().SetAlignment(wml.ST_JcCenter)
	para.AddRun().AddText(fmt.Sprintf("VK wall statistics for id %d", summary.Run.OwnerID))

	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Run: %s", summary.Run.ID))
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Posts since %s: %d", summary.Run.Start.UTC().Format("2006-01-02"), summary.Posts))
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Generated: %s", summary.Run.StartedAt.UTC().Format(time.RFC3339)))

	for _, dim := range model.Dimensions {
		heading := doc.AddParagraph()
		heading.SetStyle("Heading1")
		heading.AddRun().AddText(dimensionTitles[dim])

		buckets := summary.Buckets[dim]
		if len(buckets) == 0 {
			doc.AddParagraph().AddRun().AddText("No posts.")
			continue
		}

		table := doc.AddTable()
		table.Properties().SetWidthPercent(100)
		addRow(table, true, "Bucket", "Posts", "Avg likes", "Avg comments", "Avg reposts")
		for _, b := range buckets {
			addRow(table, false,
				b.Label,
				fmt.Sprintf("%d", b.Amount),
				fmt.Sprintf("%.2f", b.AverageLikes()),
				fmt.Sprintf("%.2f", b.AverageComments()),
				fmt.Sprintf("%.2f", b.AverageReposts()),
			)
		}
	}

	if len(summary.Mentions) > 0 {
		heading := doc.AddParagraph()
		heading.SetStyle("Heading1")
		heading.AddRun().AddText("Keyword mentions")

		keywords := make([]string, 0, len(summary.Mentions))
		for kw := range summary.Mentions {
			keywords = append(keywords, kw)
		}
		sort.Strings(keywords)

		table := doc.AddTable()
		table.Properties().SetWidthPercent(100)
		addRow(table, true, "Keyword", "Posts")
		for _, kw := range keywords {
			addRow(table, false, kw, fmt.Sprintf("%d", summary.Mentions[kw]))
		}
	}

	if err := saveAtomic(dst, doc.SaveToFile); err != nil {
		return "", err
	}
	w.log.Info("Summary saved", "path", dst)
	return dst, nil
}

func addRow(table document.Table, bold bool, cells ...string) {
	row := table.AddRow()
	for _, text := range cells {
		run := row.AddCell().AddParagraph().AddRun()
		if bold {
			run.Properties().SetBold(true)
		}
		run.AddText(text)
	}
}
