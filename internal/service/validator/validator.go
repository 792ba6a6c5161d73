package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

// LatestProber reports the size of a wall and the date of its newest post.
type LatestProber interface {
	Latest(ctx context.Context, ownerID int64) (int, int64, error)
}

// Validator rejects requests that cannot produce any statistics before the
// fetch pipeline starts.
type Validator struct {
	probe LatestProber
	log   pkg.Logger
	now   func() time.Time
}

func NewValidator(probe LatestProber, log pkg.Logger) *Validator {
	return &Validator{probe: probe, log: log, now: time.Now}
}

func (v *Validator) Validate(ctx context.Context, ownerID int64, start time.Time) error {
	if ownerID == 0 {
		return fmt.Errorf("%w: id must not be zero", model.ErrInvalidRequest)
	}
	if start.Year() <= 1970 {
		return fmt.Errorf("%w: start year must be after 1970", model.ErrInvalidRequest)
	}
	if start.After(v.now()) {
		return fmt.Errorf("%w: start date %s is in the future", model.ErrInvalidRequest, start.Format(time.DateOnly))
	}

	_, newest, err := v.probe.Latest(ctx, ownerID)
	if err != nil {
		var apiErr *model.APIError
		switch {
		case errors.As(err, &apiErr):
			return fmt.Errorf("%w: wall %d is not accessible: %s", model.ErrInvalidRequest, ownerID, apiErr.Message)
		case errors.Is(err, model.ErrEmptyFeed):
			return fmt.Errorf("%w: wall %d has no posts", model.ErrInvalidRequest, ownerID)
		}
		return err
	}

	if newest < start.Unix() {
		return fmt.Errorf("%w: no posts since %s, newest is %s", model.ErrInvalidRequest,
			start.Format(time.DateOnly), time.Unix(newest, 0).UTC().Format(time.DateOnly))
	}

	v.log.Debug("Request validated", "owner_id", ownerID, "start", start)
	return nil
}
