package system

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
	"github.com/solanharrison/stickman-fps-server/internal/persist"
)

// KillWriter stores a batch of kills. persist.KillRepo implements it.
type KillWriter interface {
	InsertKills(ctx context.Context, rows []persist.KillRow) error
}

// KillLogSystem buffers PlayerKilled events and hands them to a background
// writer every flush interval, so the tick never waits on the database.
// Phase 3 (Persist).
type KillLogSystem struct {
	writer   KillWriter
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger

	pending []persist.KillRow
	elapsed time.Duration

	batches chan []persist.KillRow
	wg      sync.WaitGroup
	stopped bool
}

func NewKillLogSystem(bus *event.Bus, writer KillWriter, interval time.Duration, log *zap.Logger) *KillLogSystem {
	s := &KillLogSystem{
		writer:   writer,
		interval: interval,
		timeout:  5 * time.Second,
		log:      log,
		batches:  make(chan []persist.KillRow, 8),
	}
	event.Subscribe(bus, s.onKill)

	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *KillLogSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *KillLogSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.flush(false)
}

// Stop hands over everything still buffered and waits for the writer to
// finish. Call it after the last tick; the system must not be updated again.
func (s *KillLogSystem) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.flush(true)
	close(s.batches)
	s.wg.Wait()
}

func (s *KillLogSystem) onKill(e event.PlayerKilled) {
	s.pending = append(s.pending, persist.KillRow{
		Tick:     int64(e.Tick),
		Killer:   string(e.Killer),
		Victim:   string(e.Victim),
		Credited: e.Credited,
		KilledAt: time.Now().UTC(),
	})
}

func (s *KillLogSystem) flush(block bool) {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	if block {
		s.batches <- batch
		s.pending = nil
		return
	}
	select {
	case s.batches <- batch:
		s.pending = nil
	default:
		// writer is behind; keep buffering and retry next interval
		s.log.Warn("kill log writer busy", zap.Int("pending", len(batch)))
	}
}

func (s *KillLogSystem) worker() {
	defer s.wg.Done()
	for batch := range s.batches {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.writer.InsertKills(ctx, batch)
		cancel()
		if err != nil {
			s.log.Error("kill log write failed", zap.Int("rows", len(batch)), zap.Error(err))
			continue
		}
		s.log.Debug("kill log flushed", zap.Int("rows", len(batch)))
	}
}
