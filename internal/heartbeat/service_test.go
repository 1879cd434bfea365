package heartbeat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/velomax/partner-client/internal/partnerapi"
	"github.com/velomax/partner-client/pkg/enums"
	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/metrics"
	"github.com/velomax/partner-client/pkg/session"
	"github.com/velomax/partner-client/pkg/store"
)

type fakeUpdater struct {
	calls      int32
	err        error
	lastStatus atomic.Value
}

func (f *fakeUpdater) UpdateAvailability(_ context.Context, status enums.AvailabilityStatus, _ *partnerapi.Location) error {
	atomic.AddInt32(&f.calls, 1)
	f.lastStatus.Store(status)
	return f.err
}

func (f *fakeUpdater) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "heartbeat-test", Level: logger.ParseLevel("error")})
}

func testSession(authenticated bool) *session.Session {
	sess := session.New(store.NewMemory(), nil)
	if authenticated {
		sess.SaveCredentials(context.Background(), "tok", `{"id":"u1"}`, "delivery")
	}
	return sess
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestRunTicksWhileAuthenticated(t *testing.T) {
	updater := &fakeUpdater{}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Updater:  updater,
		Session:  testSession(true),
		Interval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return updater.callCount() >= 3 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if got := updater.lastStatus.Load(); got != enums.AvailabilityStatusAvailable {
		t.Fatalf("status = %v, want available default", got)
	}
}

func TestRunSkipsTicksWithoutSession(t *testing.T) {
	updater := &fakeUpdater{}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Updater:  updater,
		Session:  testSession(false),
		Interval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = service.Run(ctx)

	if n := updater.callCount(); n != 0 {
		t.Fatalf("calls = %d, want 0 without a session", n)
	}
}

func TestFailedPingsAreCountedAndRetriedNextTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	updater := &fakeUpdater{err: errors.New("dispatch unreachable")}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Updater:  updater,
		Session:  testSession(true),
		Metrics:  metrics.NewHeartbeatMetrics(reg),
		Interval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return updater.callCount() >= 2 })
	cancel()
	<-done

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var failures float64
	for _, family := range families {
		if family.GetName() == "partner_heartbeat_failures" {
			failures = family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if failures < 2 {
		t.Fatalf("failures = %v, want at least 2", failures)
	}
}

func TestNewServiceValidatesParams(t *testing.T) {
	if _, err := NewService(ServiceParams{Updater: &fakeUpdater{}, Session: testSession(false)}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger(), Session: testSession(false)}); err == nil {
		t.Fatal("expected error without updater")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger(), Updater: &fakeUpdater{}}); err == nil {
		t.Fatal("expected error without session")
	}
}

func TestCustomStatusAndLocationSource(t *testing.T) {
	updater := &fakeUpdater{}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Updater:  updater,
		Session:  testSession(true),
		Interval: 5 * time.Millisecond,
		Status:   enums.AvailabilityStatusOnDelivery,
		Location: func() *partnerapi.Location {
			return &partnerapi.Location{Latitude: 12.9716, Longitude: 77.5946}
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return updater.callCount() >= 1 })
	cancel()
	<-done

	if got := updater.lastStatus.Load(); got != enums.AvailabilityStatusOnDelivery {
		t.Fatalf("status = %v, want on_delivery", got)
	}
}
