package poller

import (
	lobby_constants "Playroom/constants/lobby"
	"Playroom/models"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInFlight is returned by Poll when another fetch has not finished yet
var ErrInFlight = errors.New("a poll is already in flight")

// Snapshot is the state a Poller watches. Rooms and groups both qualify.
type Snapshot interface {
	Participants() []models.Participant
	CurrentStatus() models.RoomStatus
}

type readyReporter interface {
	PlayerReady(userID string) (bool, bool)
}

type EventKind string

const (
	MemberJoined  EventKind = "member_joined"
	MemberLeft    EventKind = "member_left"
	StatusChanged EventKind = "status_changed"
	// ReadyReverted means an optimistic ready toggle was not confirmed by the server.
	// Event.Ready carries the server value.
	ReadyReverted EventKind = "ready_reverted"
)

type Event[T Snapshot] struct {
	Kind        EventKind
	Participant models.Participant
	From        models.RoomStatus
	To          models.RoomStatus
	Ready       bool
	Snapshot    T
}

type Config[T Snapshot] struct {
	// Fetch loads the current snapshot. Required.
	Fetch func(ctx context.Context) (T, error)
	// Heartbeat is sent every tick without waiting for it. Optional.
	Heartbeat func(ctx context.Context) error
	Interval  time.Duration
	// SelfID is the watching user; their own joins and leaves are not reported
	SelfID string
	// Initial is used as the baseline. Without it the first fetch is the baseline.
	Initial *T
	// OnEvent runs on the fetch goroutine. It may call Stop, which then returns without
	// waiting for the delivery in progress.
	OnEvent func(Event[T])
	OnError func(error)
}

// pendingReady is an optimistic toggle. Until the write is committed no poll may judge it,
// since the server still holds the old value.
type pendingReady struct {
	value     bool
	committed bool
	afterSeq  uint64
}

// Poller periodically fetches a snapshot and turns the differences between consecutive
// snapshots into events. At most one fetch is in flight; ticks that find one running
// are skipped.
type Poller[T Snapshot] struct {
	cfg Config[T]

	mu       sync.Mutex
	last     T
	hasLast  bool
	pending  *pendingReady
	cancel   context.CancelFunc
	stopped  bool
	inFlight    atomic.Bool
	dispatching atomic.Bool
	seq         atomic.Uint64
	wg          sync.WaitGroup
}

func New[T Snapshot](cfg Config[T]) *Poller[T] {
	if cfg.Fetch == nil {
		panic("Fetch cannot be nil for poller.Poller")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = lobby_constants.ROOM_POLL_INTERVAL
	}
	p := &Poller[T]{cfg: cfg}
	if cfg.Initial != nil {
		p.last = *cfg.Initial
		p.hasLast = true
	}
	return p
}

// Start polls immediately and then on every interval until Stop or ctx is done
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil || p.stopped {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop cancels the loop and waits for it. A fetch that completes afterwards is discarded.
// Called from OnEvent it does not wait, the caller is the goroutine being waited for.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if p.dispatching.Load() {
		return
	}
	p.wg.Wait()
}

func (p *Poller[T]) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	p.sendHeartbeat(ctx)
	if !p.inFlight.CompareAndSwap(false, true) {
		logrus.Debug("[POLL] previous fetch still running, tick skipped")
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		_ = p.fetchAndApply(ctx)
	}()
}

func (p *Poller[T]) sendHeartbeat(ctx context.Context) {
	if p.cfg.Heartbeat == nil {
		return
	}
	go func() {
		if err := p.cfg.Heartbeat(ctx); err != nil {
			logrus.WithError(err).Debug("[POLL] heartbeat failed")
		}
	}()
}

// Poll runs one fetch synchronously, outside the ticker
func (p *Poller[T]) Poll(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer p.inFlight.Store(false)
	return p.fetchAndApply(ctx)
}

func (p *Poller[T]) fetchAndApply(ctx context.Context) error {
	seq := p.seq.Add(1)
	snap, err := p.cfg.Fetch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		logrus.WithError(err).Warn("[POLL] fetch failed, keeping last snapshot")
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
		return err
	}
	p.apply(snap, seq)
	return nil
}

func (p *Poller[T]) apply(snap T, seq uint64) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	var events []Event[T]
	if p.hasLast {
		events = diff(p.last, snap, p.cfg.SelfID)
	}
	p.last = snap
	p.hasLast = true

	if p.pending != nil && p.pending.committed && seq > p.pending.afterSeq {
		if server, ok := readyOf(snap, p.cfg.SelfID); ok && server != p.pending.value {
			events = append(events, Event[T]{Kind: ReadyReverted, Ready: server, Participant: models.Participant{ID: p.cfg.SelfID}, Snapshot: snap})
		}
		p.pending = nil
	}
	p.mu.Unlock()

	if p.cfg.OnEvent == nil || len(events) == 0 {
		return
	}
	p.dispatching.Store(true)
	defer p.dispatching.Store(false)
	for _, e := range events {
		p.cfg.OnEvent(e)
	}
}

func diff[T Snapshot](prev, next T, selfID string) []Event[T] {
	var events []Event[T]
	before := make(map[string]bool)
	for _, m := range prev.Participants() {
		before[m.ID] = true
	}
	after := make(map[string]bool)
	for _, m := range next.Participants() {
		after[m.ID] = true
		if !before[m.ID] && m.ID != selfID {
			events = append(events, Event[T]{Kind: MemberJoined, Participant: m, Snapshot: next})
		}
	}
	for _, m := range prev.Participants() {
		if !after[m.ID] && m.ID != selfID {
			events = append(events, Event[T]{Kind: MemberLeft, Participant: m, Snapshot: next})
		}
	}
	from, to := prev.CurrentStatus(), next.CurrentStatus()
	if from == models.StatusWaiting && to == models.StatusPlaying {
		events = append(events, Event[T]{Kind: StatusChanged, From: from, To: to, Snapshot: next})
	}
	return events
}

func readyOf[T Snapshot](snap T, userID string) (bool, bool) {
	r, ok := any(snap).(readyReporter)
	if !ok {
		return false, false
	}
	return r.PlayerReady(userID)
}

// Snapshot returns the last good snapshot
func (p *Poller[T]) Snapshot() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

// SetOptimisticReady records a ready toggle the UI shows before the server confirms it.
// Call the returned commit once the write has returned, successful or not. The first poll
// started after commit either confirms the toggle or emits ReadyReverted; polls before
// that leave it pending.
func (p *Poller[T]) SetOptimisticReady(ready bool) (commit func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending := &pendingReady{value: ready}
	p.pending = pending
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.pending == pending {
			pending.committed = true
			pending.afterSeq = p.seq.Load()
		}
	}
}

// Ready is the ready flag to display for the watching user
func (p *Poller[T]) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return p.pending.value
	}
	if !p.hasLast {
		return false
	}
	ready, _ := readyOf(p.last, p.cfg.SelfID)
	return ready
}
