package database

import (
	"testing"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	"github.com/google/uuid"
)

func TestRecordRows(t *testing.T) {
	run := model.Run{ID: uuid.New(), OwnerID: 1}
	rows := RecordRows(run, []model.Record{
		{ID: 7, Text: "hello", Attachments: "None", Comments: 1, Likes: 2, Reposts: 3},
	})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0]) != len(recordColumns) {
		t.Fatalf("row has %d values, columns %d", len(rows[0]), len(recordColumns))
	}
	if rows[0][0] != run.ID.String() || rows[0][1] != int64(7) || rows[0][3] != "None" || rows[0][7] != 3 {
		t.Errorf("unexpected row %v", rows[0])
	}
}

func TestBucketRows(t *testing.T) {
	run := model.Run{ID: uuid.New()}
	stats := model.NewStats()
	for _, date := range []time.Time{
		time.Date(2022, time.March, 2, 15, 0, 0, 0, time.UTC),
		time.Date(2021, time.March, 1, 3, 0, 0, 0, time.UTC),
	} {
		p := model.Post{Date: date.Unix(), Likes: 1}
		stats.Hours.Add(date.Hour(), p)
		stats.Weekdays.Add((int(date.Weekday())+6)%7, p)
		stats.Months.Add(int(date.Month()), p)
		stats.Years.Add(date.Year(), p)
	}

	rows := BucketRows(run, stats)
	// two hours, two weekdays, one month, two years
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	if rows[0][1] != "hours" || rows[0][2] != 3 || rows[1][2] != 15 {
		t.Errorf("hours not ascending: %v %v", rows[0], rows[1])
	}
	last := rows[len(rows)-1]
	if last[1] != "years" || last[2] != 2022 || last[3] != 1 {
		t.Errorf("unexpected last row %v", last)
	}
	if BucketRows(run, nil) != nil {
		t.Error("nil stats should produce no rows")
	}
}
