package poller

import (
	"Playroom/models"
	"Playroom/services/local"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event[models.Room]
}

func (r *recorder) add(e Event[models.Room]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []EventKind{}
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func room(status models.RoomStatus, players ...models.Player) models.Room {
	return models.Room{ID: "r1", Code: "ABC123", Status: status, Players: players}
}

func player(id string, ready bool) models.Player {
	return models.Player{ID: id, Name: "name-" + id, IsReady: ready}
}

// scripted returns the queued snapshots one by one, repeating the last
type scripted struct {
	mu    sync.Mutex
	queue []models.Room
	err   error
}

func (s *scripted) fetch(ctx context.Context) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Room{}, s.err
	}
	r := s.queue[0]
	if len(s.queue) > 1 {
		s.queue = s.queue[1:]
	}
	return r, nil
}

func TestFirstFetchIsBaseline(t *testing.T) {
	rec := &recorder{}
	src := &scripted{queue: []models.Room{
		room(models.StatusWaiting, player("me", false), player("u2", false)),
		room(models.StatusWaiting, player("me", false), player("u2", false), player("u3", false)),
	}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", OnEvent: rec.add})

	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())

	require.NoError(t, p.Poll(context.Background()))
	require.Equal(t, []EventKind{MemberJoined}, rec.kinds())
	assert.Equal(t, "u3", rec.events[0].Participant.ID)
}

func TestJoinLeaveAndStatusEvents(t *testing.T) {
	rec := &recorder{}
	initial := room(models.StatusWaiting, player("me", false), player("u2", false))
	src := &scripted{queue: []models.Room{
		room(models.StatusWaiting, player("me", false), player("u3", false)),
		room(models.StatusPlaying, player("me", false), player("u3", false)),
		room(models.StatusPlaying, player("me", false), player("u3", false)),
	}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", Initial: &initial, OnEvent: rec.add})

	require.NoError(t, p.Poll(context.Background()))
	assert.ElementsMatch(t, []EventKind{MemberJoined, MemberLeft}, rec.kinds())
	rec.reset()

	require.NoError(t, p.Poll(context.Background()))
	require.Equal(t, []EventKind{StatusChanged}, rec.kinds())
	assert.Equal(t, models.StatusWaiting, rec.events[0].From)
	assert.Equal(t, models.StatusPlaying, rec.events[0].To)
	rec.reset()

	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())
}

func TestSelfIsNeverReported(t *testing.T) {
	rec := &recorder{}
	initial := room(models.StatusWaiting, player("u2", false))
	src := &scripted{queue: []models.Room{
		room(models.StatusWaiting, player("u2", false), player("me", false)),
		room(models.StatusWaiting, player("u2", false)),
	}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", Initial: &initial, OnEvent: rec.add})

	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())
}

func TestFetchErrorKeepsLastSnapshot(t *testing.T) {
	var failures int
	initial := room(models.StatusWaiting, player("me", false))
	src := &scripted{err: errors.New("boom")}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", Initial: &initial, OnError: func(error) { failures++ }})

	assert.Error(t, p.Poll(context.Background()))
	snap, ok := p.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Players, 1)
	assert.Equal(t, 1, failures)
}

func TestOptimisticReadyReverted(t *testing.T) {
	rec := &recorder{}
	initial := room(models.StatusWaiting, player("me", false))
	src := &scripted{queue: []models.Room{room(models.StatusWaiting, player("me", false))}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", Initial: &initial, OnEvent: rec.add})

	p.SetOptimisticReady(true)()
	assert.True(t, p.Ready())

	require.NoError(t, p.Poll(context.Background()))
	require.Equal(t, []EventKind{ReadyReverted}, rec.kinds())
	assert.False(t, rec.events[0].Ready)
	assert.False(t, p.Ready())
}

func TestOptimisticReadyConfirmed(t *testing.T) {
	rec := &recorder{}
	src := &scripted{queue: []models.Room{room(models.StatusWaiting, player("me", true))}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", OnEvent: rec.add})

	p.SetOptimisticReady(true)()
	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())
	assert.True(t, p.Ready())
}

func TestPollStartedBeforeToggleDoesNotRevert(t *testing.T) {
	rec := &recorder{}
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (models.Room, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return room(models.StatusWaiting, player("me", false)), nil
	}
	p := New(Config[models.Room]{Fetch: fetch, SelfID: "me", OnEvent: rec.add})

	done := make(chan error)
	go func() { done <- p.Poll(context.Background()) }()
	<-started

	assert.ErrorIs(t, p.Poll(context.Background()), ErrInFlight)
	p.SetOptimisticReady(true)()
	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, rec.kinds())
	assert.True(t, p.Ready())

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []EventKind{ReadyReverted}, rec.kinds())
}

func TestStopDiscardsInFlightFetch(t *testing.T) {
	rec := &recorder{}
	initial := room(models.StatusWaiting, player("me", false))
	started := make(chan struct{})
	fetch := func(ctx context.Context) (models.Room, error) {
		close(started)
		<-ctx.Done()
		return room(models.StatusPlaying, player("me", false), player("u2", false)), nil
	}
	p := New(Config[models.Room]{Fetch: fetch, SelfID: "me", Initial: &initial, OnEvent: rec.add, Interval: time.Hour})

	p.Start(context.Background())
	<-started
	p.Stop()

	assert.Empty(t, rec.kinds())
	snap, _ := p.Snapshot()
	assert.Equal(t, models.StatusWaiting, snap.Status)
}

func TestHeartbeatEveryTick(t *testing.T) {
	var beats atomic.Int32
	initial := room(models.StatusWaiting, player("me", false))
	p := New(Config[models.Room]{
		Fetch:     func(ctx context.Context) (models.Room, error) { return initial, nil },
		Heartbeat: func(ctx context.Context) error {
			beats.Add(1)
			return errors.New("ignored")
		},
		SelfID:    "me",
		Interval:  10 * time.Millisecond,
	})
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return beats.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSessionWatchesAndLeaves(t *testing.T) {
	ctx := context.Background()
	store, err := local.Open("")
	require.NoError(t, err)
	defer store.Close()

	created, err := store.CreateRoom(ctx, models.RoomSpec{GameType: "trivia", HostID: "host", HostName: "Hana"})
	require.NoError(t, err)
	joined, err := store.JoinRoom(ctx, created.Code, "me", "Mia")
	require.NoError(t, err)

	_, err = store.JoinRoom(ctx, created.Code, "u3", "Uli")
	require.NoError(t, err)

	// joined is the baseline, so the first tick reports u3
	rec := &recorder{}
	s := Watch(ctx, store, joined, "me", rec.add)
	assert.Eventually(t, func() bool {
		kinds := rec.kinds()
		return len(kinds) == 1 && kinds[0] == MemberJoined
	}, 3*time.Second, 10*time.Millisecond)

	s.Close()
	s.Close()

	got, err := store.GetRoom(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPlayer("me"))
}

func TestPendingReadySurvivesPollDuringWrite(t *testing.T) {
	ctx := context.Background()
	store, err := local.Open("")
	require.NoError(t, err)
	defer store.Close()
	created, err := store.CreateRoom(ctx, models.RoomSpec{GameType: "maze", HostID: "host", HostName: "Hana"})
	require.NoError(t, err)
	joined, err := store.JoinRoom(ctx, created.Code, "me", "Mia")
	require.NoError(t, err)

	rec := &recorder{}
	p := ForRoom(store, joined.ID, "me", joined, rec.add)

	commit := p.SetOptimisticReady(true)
	// a tick lands before the write reaches the store
	require.NoError(t, p.Poll(ctx))
	assert.Empty(t, rec.kinds())
	assert.True(t, p.Ready())

	_, err = store.SetPlayerReady(ctx, joined.ID, "me", true)
	require.NoError(t, err)
	commit()

	require.NoError(t, p.Poll(ctx))
	assert.Empty(t, rec.kinds())
	assert.True(t, p.Ready())
}

func TestFailedWriteRevertsAfterCommit(t *testing.T) {
	rec := &recorder{}
	src := &scripted{queue: []models.Room{room(models.StatusWaiting, player("me", false))}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", OnEvent: rec.add})

	commit := p.SetOptimisticReady(true)
	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())

	commit()
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []EventKind{ReadyReverted}, rec.kinds())
	assert.False(t, p.Ready())
}

func TestStaleCommitIsIgnored(t *testing.T) {
	rec := &recorder{}
	src := &scripted{queue: []models.Room{room(models.StatusWaiting, player("me", false))}}
	p := New(Config[models.Room]{Fetch: src.fetch, SelfID: "me", OnEvent: rec.add})

	first := p.SetOptimisticReady(true)
	p.SetOptimisticReady(false)
	first()

	// the newer toggle is still uncommitted
	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, rec.kinds())
	assert.False(t, p.Ready())
}

func TestStopFromOnEvent(t *testing.T) {
	initial := room(models.StatusWaiting, player("me", false))
	src := &scripted{queue: []models.Room{room(models.StatusPlaying, player("me", false))}}
	stopped := make(chan struct{})
	var p *Poller[models.Room]
	p = New(Config[models.Room]{
		Fetch:    src.fetch,
		SelfID:   "me",
		Initial:  &initial,
		Interval: time.Hour,
		OnEvent: func(e Event[models.Room]) {
			if e.Kind == StatusChanged {
				p.Stop()
				close(stopped)
			}
		},
	})
	p.Start(context.Background())

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop called from OnEvent did not return")
	}
	p.Stop()
}

type groupRecorder struct {
	mu     sync.Mutex
	events []Event[models.Group]
}

func (r *groupRecorder) add(e Event[models.Group]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *groupRecorder) take() []Event[models.Group] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func TestGroupRosterEvents(t *testing.T) {
	ctx := context.Background()
	store, err := local.Open("")
	require.NoError(t, err)
	defer store.Close()
	g, err := store.CreateGroup(ctx, models.GroupSpec{Name: "Crew", AdminID: "me", AdminName: "Mia"})
	require.NoError(t, err)

	rec := &groupRecorder{}
	p := ForGroup(store, g.ID, "me", nil, rec.add)
	require.NoError(t, p.Poll(ctx))
	assert.Empty(t, rec.take())

	_, err = store.JoinGroup(ctx, g.Code, "u2", "Bo")
	require.NoError(t, err)
	require.NoError(t, p.Poll(ctx))
	events := rec.take()
	require.Len(t, events, 1)
	assert.Equal(t, MemberJoined, events[0].Kind)
	assert.Equal(t, "Bo", events[0].Participant.Name)
	assert.Len(t, events[0].Snapshot.Members, 1)

	require.NoError(t, store.LeaveGroup(ctx, g.ID, "u2"))
	require.NoError(t, p.Poll(ctx))
	events = rec.take()
	require.Len(t, events, 1)
	assert.Equal(t, MemberLeft, events[0].Kind)
	assert.Equal(t, "u2", events[0].Participant.ID)
}
