package database

import (
	"context"
	"fmt"

	"github.com/ScrpTrx-Go/GoVKStat/internal/config"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	owner_id   BIGINT NOT NULL,
	start_ts   BIGINT NOT NULL,
	threshold  BIGINT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS post_records (
	run_id             TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	post_id            BIGINT NOT NULL,
	text               TEXT NOT NULL,
	attachments        TEXT NOT NULL,
	attachments_amount INT NOT NULL,
	comments           INT NOT NULL,
	likes              INT NOT NULL,
	reposts            INT NOT NULL,
	PRIMARY KEY (run_id, post_id)
);
CREATE TABLE IF NOT EXISTS histogram_buckets (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	dimension TEXT NOT NULL,
	bucket    INT NOT NULL,
	amount    INT NOT NULL,
	likes     INT NOT NULL,
	comments  INT NOT NULL,
	reposts   INT NOT NULL,
	PRIMARY KEY (run_id, dimension, bucket)
);`

var recordColumns = []string{"run_id", "post_id", "text", "attachments", "attachments_amount", "comments", "likes", "reposts"}

const insertBucket = `INSERT INTO histogram_buckets (run_id, dimension, bucket, amount, likes, comments, reposts)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

type Database struct {
	Pool *pgxpool.Pool
	Log  pkg.Logger
}

func NewPostgresPool(ctx context.Context, log pkg.Logger, cfg config.DatabaseConfig) (d *Database, err error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return &Database{
		Pool: pool,
		Log:  log,
	}, nil
}

func (d *Database) EnsureSchema(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun stores the run, its records and its histogram buckets in one
// transaction.
func (d *Database) SaveRun(ctx context.Context, run model.Run, records []model.Record, stats *model.Stats) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, owner_id, start_ts, threshold, started_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID.String(), run.OwnerID, run.Start.Unix(), run.Threshold, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(records) > 0 {
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"post_records"},
			recordColumns,
			pgx.CopyFromRows(RecordRows(run, records)),
		)
		if err != nil {
			d.Log.Error("CopyFrom failed", "err", err)
			return err
		}
	}

	buckets := BucketRows(run, stats)
	if len(buckets) > 0 {
		batch := &pgx.Batch{}
		for _, row := range buckets {
			batch.Queue(insertBucket, row...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert histogram buckets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	d.Log.Info("Saved run to database", "run_id", run.ID, "records", len(records), "buckets", len(buckets))
	return nil
}

func (d *Database) Close() {
	d.Pool.Close()
}

func RecordRows(run model.Run, records []model.Record) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			run.ID.String(),
			r.ID,
			r.Text,
			r.Attachments,
			r.AttachmentsAmount,
			r.Comments,
			r.Likes,
			r.Reposts,
		})
	}
	return rows
}

// BucketRows flattens the histograms in dimension order, keys ascending.
func BucketRows(run model.Run, stats *model.Stats) [][]interface{} {
	if stats == nil {
		return nil
	}
	var rows [][]interface{}
	for _, dim := range model.Dimensions {
		h := stats.Histogram(dim)
		for _, key := range h.Keys() {
			b := h[key]
			rows = append(rows, []interface{}{
				run.ID.String(), string(dim), key, b.Amount, b.Likes, b.Comments, b.Reposts,
			})
		}
	}
	return rows
}
