package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

type stubProbe struct {
	newest int64
	err    error
	calls  int
}

func (s *stubProbe) Latest(ctx context.Context, ownerID int64) (int, int64, error) {
	s.calls++
	if s.err != nil {
		return 0, 0, s.err
	}
	return 10, s.newest, nil
}

func newTestValidator(p *stubProbe) *Validator {
	v := NewValidator(p, pkg.NewNopLogger())
	v.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func TestValidate(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ownerID   int64
		start     time.Time
		probe     *stubProbe
		wantErr   error
		wantProbe bool
	}{
		{name: "ok", ownerID: -1, start: start, probe: &stubProbe{newest: start.Unix() + 60}, wantProbe: true},
		{name: "newest on start", ownerID: 1, start: start, probe: &stubProbe{newest: start.Unix()}, wantProbe: true},
		{name: "zero id", ownerID: 0, start: start, probe: &stubProbe{}, wantErr: model.ErrInvalidRequest},
		{name: "epoch", ownerID: 1, start: time.Date(1970, time.May, 1, 0, 0, 0, 0, time.UTC), probe: &stubProbe{}, wantErr: model.ErrInvalidRequest},
		{name: "future", ownerID: 1, start: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), probe: &stubProbe{}, wantErr: model.ErrInvalidRequest},
		{name: "no wall", ownerID: 1, start: start, probe: &stubProbe{err: &model.APIError{Code: 100, Message: "owner_id is incorrect"}}, wantErr: model.ErrInvalidRequest, wantProbe: true},
		{name: "empty wall", ownerID: 1, start: start, probe: &stubProbe{err: model.ErrEmptyFeed}, wantErr: model.ErrInvalidRequest, wantProbe: true},
		{name: "stale wall", ownerID: 1, start: start, probe: &stubProbe{newest: start.Unix() - 1}, wantErr: model.ErrInvalidRequest, wantProbe: true},
		{name: "api down", ownerID: 1, start: start, probe: &stubProbe{err: model.ErrRemoteUnavailable}, wantErr: model.ErrRemoteUnavailable, wantProbe: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestValidator(tt.probe).Validate(context.Background(), tt.ownerID, tt.start)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if got := tt.probe.calls > 0; got != tt.wantProbe {
				t.Errorf("probe called = %v, want %v", got, tt.wantProbe)
			}
		})
	}
}
