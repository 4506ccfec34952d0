package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"motel-backend/models"
	"motel-backend/services"
)

// ToleranceCharger is the part of the stay service the sweeper needs.
type ToleranceCharger interface {
	ExpiredToleranceStays(ctx context.Context) ([]models.RoomStay, error)
	ChargeToleranceExpired(ctx context.Context, stayID uint) (*services.StayResult, error)
}

// ToleranceScheduler periodically bills tolerance windows that ran out
// without anyone pressing the button at the front desk.
type ToleranceScheduler struct {
	stays    ToleranceCharger
	interval time.Duration
	log      *zap.Logger
}

func NewToleranceScheduler(stays ToleranceCharger, interval time.Duration, log *zap.Logger) *ToleranceScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ToleranceScheduler{stays: stays, interval: interval, log: log.Named("tolerance-scheduler")}
}

// Start sweeps once immediately and then on every tick until ctx is done.
// It blocks; run it in its own goroutine.
func (s *ToleranceScheduler) Start(ctx context.Context) {
	s.log.Info("tolerance scheduler started", zap.Duration("interval", s.interval))

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("tolerance scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep charges every expired window once and returns how many new charges
// were written. Failures on one stay do not stop the sweep.
func (s *ToleranceScheduler) Sweep(ctx context.Context) int {
	stays, err := s.stays.ExpiredToleranceStays(ctx)
	if err != nil {
		s.log.Error("failed to list expired tolerance windows", zap.Error(err))
		return 0
	}

	charged := 0
	for _, st := range stays {
		if ctx.Err() != nil {
			break
		}
		res, err := s.stays.ChargeToleranceExpired(ctx, st.ID)
		if err != nil {
			s.log.Warn("tolerance charge failed",
				zap.Uint("stay_id", st.ID),
				zap.String("code", services.CodeOf(err)),
				zap.Error(err))
			continue
		}
		if res.Charged {
			charged++
		}
	}
	if charged > 0 {
		s.log.Info("tolerance sweep finished", zap.Int("expired", len(stays)), zap.Int("charged", charged))
	}
	return charged
}
