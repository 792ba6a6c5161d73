package reporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

var CSVHeader = []string{
	"post id", "text", "attachments", "attachments amount",
	"comments amount", "likes amount", "reposts amount",
}

type CSVSink struct {
	dir string
	log pkg.Logger
}

func NewCSVSink(dir string, log pkg.Logger) *CSVSink {
	return &CSVSink{dir: dir, log: log}
}

// WriteRecords stores records as <dir>/id_<id>_start_<ts>.csv. The file only
// appears under its final name once every row has been written.
func (s *CSVSink) WriteRecords(ctx context.Context, run model.Run, records []model.Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, run.ArtifactBase()+".csv")

	tmp, err := os.CreateTemp(s.dir, run.ArtifactBase()+".*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(ctx, tmp, records); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}

	s.log.Info("Records saved", "path", dst, "count", len(records))
	return dst, nil
}

// WriteCSV writes the header once, then one row per record.
func WriteCSV(ctx context.Context, w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i, rec := range records {
		if i%1000 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if err := cw.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(rec model.Record) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Text,
		rec.Attachments,
		strconv.Itoa(rec.AttachmentsAmount),
		strconv.Itoa(rec.Comments),
		strconv.Itoa(rec.Likes),
		strconv.Itoa(rec.Reposts),
	}
}
