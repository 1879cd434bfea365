package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/velomax/partner-client/internal/partnerapi"
	"github.com/velomax/partner-client/pkg/enums"
	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/metrics"
	"github.com/velomax/partner-client/pkg/session"
)

const defaultInterval = 30 * time.Second

// Updater re-announces the partner's availability. Satisfied by
// *partnerapi.Client.
type Updater interface {
	UpdateAvailability(ctx context.Context, status enums.AvailabilityStatus, location *partnerapi.Location) error
}

// ServiceParams configure the heartbeat service.
type ServiceParams struct {
	Logger  *logger.Logger
	Updater Updater
	Session *session.Session
	Metrics *metrics.HeartbeatMetrics
	// Interval between pings. Defaults to 30s.
	Interval time.Duration
	// Status to re-announce each tick. Defaults to available.
	Status enums.AvailabilityStatus
	// Location, when set, supplies the current GPS fix per tick.
	Location func() *partnerapi.Location
}

// Service keeps an on-duty partner visible to dispatch by re-posting the
// availability state on a fixed cadence. Ticks are skipped while no session
// is stored; a failed ping is counted and retried on the next tick rather
// than aborting the loop.
type Service struct {
	logg     *logger.Logger
	updater  Updater
	session  *session.Session
	metrics  *metrics.HeartbeatMetrics
	interval time.Duration
	status   enums.AvailabilityStatus
	location func() *partnerapi.Location
}

// NewService builds a heartbeat service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Updater == nil {
		return nil, fmt.Errorf("updater required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	status := params.Status
	if !status.IsValid() {
		status = enums.AvailabilityStatusAvailable
	}
	return &Service{
		logg:     params.Logger,
		updater:  params.Updater,
		session:  params.Session,
		metrics:  params.Metrics,
		interval: interval,
		status:   status,
		location: params.Location,
	}, nil
}

// Run starts the heartbeat loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "heartbeat context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	if !s.session.IsAuthenticated(ctx) {
		s.logg.Debug(ctx, "no active session, skipping heartbeat")
		return
	}

	s.metrics.IncTick()
	var location *partnerapi.Location
	if s.location != nil {
		location = s.location()
	}

	start := time.Now()
	err := s.updater.UpdateAvailability(ctx, s.status, location)
	tickCtx := s.logg.WithField(ctx, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		s.metrics.IncFailure()
		s.logg.Error(tickCtx, "heartbeat ping failed", err)
		return
	}
	s.logg.Debug(tickCtx, "heartbeat ping sent")
}
