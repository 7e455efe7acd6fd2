package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/warroomlabs/warroom/internal/draft"
	"github.com/warroomlabs/warroom/internal/draft/engine"
	"github.com/warroomlabs/warroom/internal/models"
)

// fakeApp satisfies DraftApp with a fixed snapshot and records expiries.
type fakeApp struct {
	mu       sync.Mutex
	state    models.DraftState
	expiries []uuid.UUID
	notify   chan uuid.UUID
}

func newFakeApp(status models.DraftStatus, timePerPickSec int) *fakeApp {
	return &fakeApp{
		state: models.DraftState{
			ID:     uuid.New(),
			Status: status,
			Settings: models.DraftSettings{
				BudgetPerTeam:  100,
				RosterSize:     4,
				AuctionRounds:  2,
				TimePerPickSec: timePerPickSec,
				NumTeams:       2,
			},
			CurrentRound: 1,
			CurrentPick:  1,
			Phase:        models.PhaseAuction,
		},
		notify: make(chan uuid.UUID, 8),
	}
}

func (f *fakeApp) GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.ID = id
	return &s, nil
}

func (f *fakeApp) HandleClockExpiry(ctx context.Context, id uuid.UUID) (*draft.CommandOutcome, error) {
	f.mu.Lock()
	f.expiries = append(f.expiries, id)
	s := f.state
	f.mu.Unlock()

	f.notify <- id
	return &draft.CommandOutcome{
		Result: engine.Result{OK: true, Reason: engine.ReasonApplied},
		State:  s,
	}, nil
}

func (f *fakeApp) expiryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.expiries)
}

func TestSchedulePickFiresExpiryAtDeadline(t *testing.T) {
	app := newFakeApp(models.DraftStatusInProgress, 30)
	clock := clockwork.NewFakeClock()
	o := NewOrchestrator(app, nil, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)
	clock.BlockUntil(1)

	draftID := uuid.New()
	o.SchedulePick(draftID)
	clock.Advance(31 * time.Second)

	select {
	case got := <-app.notify:
		if got != draftID {
			t.Fatalf("expired draft = %s, want %s", got, draftID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expiry never fired")
	}
}

func TestCancelPickDisarmsClock(t *testing.T) {
	app := newFakeApp(models.DraftStatusInProgress, 30)
	clock := clockwork.NewFakeClock()
	o := NewOrchestrator(app, nil, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)
	clock.BlockUntil(1)

	draftID := uuid.New()
	o.SchedulePick(draftID)
	o.CancelPick(draftID)
	clock.Advance(time.Minute)

	select {
	case got := <-app.notify:
		t.Fatalf("cancelled clock fired for %s", got)
	case <-time.After(100 * time.Millisecond):
	}
	if app.expiryCount() != 0 {
		t.Fatalf("expiries = %d, want 0", app.expiryCount())
	}
}

func TestSchedulePickSkipsUntimedSessions(t *testing.T) {
	app := newFakeApp(models.DraftStatusInProgress, 0)
	clock := clockwork.NewFakeClock()
	o := NewOrchestrator(app, nil, clock)

	draftID := uuid.New()
	o.SchedulePick(draftID)
	if _, armed := o.nextDeadline(); armed {
		t.Fatal("untimed session armed a deadline")
	}
}

func TestSchedulePickSkipsIdleSessions(t *testing.T) {
	app := newFakeApp(models.DraftStatusPaused, 30)
	clock := clockwork.NewFakeClock()
	o := NewOrchestrator(app, nil, clock)

	o.SchedulePick(uuid.New())
	if _, armed := o.nextDeadline(); armed {
		t.Fatal("paused session armed a deadline")
	}
}

func TestEarliestDeadlineWins(t *testing.T) {
	app := newFakeApp(models.DraftStatusInProgress, 30)
	clock := clockwork.NewFakeClock()
	o := NewOrchestrator(app, nil, clock)

	first := uuid.New()
	o.SchedulePick(first)

	clock.Advance(10 * time.Second)
	second := uuid.New()
	o.SchedulePick(second)

	next, ok := o.nextDeadline()
	if !ok {
		t.Fatal("no deadline armed")
	}
	o.mu.Lock()
	want := o.deadlines[first]
	o.mu.Unlock()
	if !next.Equal(want) {
		t.Fatalf("next deadline = %v, want the earlier draft's %v", next, want)
	}
}
