// Package orchestrator runs the pick clock. It tracks one deadline per
// in-progress session, sleeps until the earliest one, and applies the app's
// expiry policy when it fires. A wake channel lets command handlers interrupt
// the sleep when a sooner deadline appears.
package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/warroomlabs/warroom/internal/draft"
	"github.com/warroomlabs/warroom/internal/draft/engine"
	"github.com/warroomlabs/warroom/internal/draft/events"
	"github.com/warroomlabs/warroom/internal/models"
)

// DraftApp defines what the orchestrator needs from the draft application.
type DraftApp interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftState, error)
	HandleClockExpiry(ctx context.Context, id uuid.UUID) (*draft.CommandOutcome, error)
}

// Orchestrator owns the per-draft pick deadlines.
type Orchestrator struct {
	app    DraftApp
	events draft.EventSink
	clock  clockwork.Clock

	mu        sync.Mutex
	deadlines map[uuid.UUID]time.Time

	wakeCh     chan struct{}
	instanceID string
}

// NewOrchestrator creates an orchestrator. eventSink may be nil to disable
// PickStarted events.
func NewOrchestrator(app DraftApp, eventSink draft.EventSink, clock clockwork.Clock) *Orchestrator {
	return &Orchestrator{
		app:        app,
		events:     eventSink,
		clock:      clock,
		deadlines:  make(map[uuid.UUID]time.Time),
		wakeCh:     make(chan struct{}, 1),
		instanceID: uuid.New().String()[:8],
	}
}

// SchedulePick arms the clock for a draft's current pick. Called by the app
// after every transition that leaves the session in progress.
func (o *Orchestrator) SchedulePick(draftID uuid.UUID) {
	state, err := o.app.GetDraft(context.Background(), draftID)
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to load draft for scheduling")
		return
	}
	if state.Status != models.DraftStatusInProgress || state.Settings.TimePerPickSec <= 0 {
		o.CancelPick(draftID)
		return
	}

	startedAt := o.clock.Now()
	deadline := startedAt.Add(time.Duration(state.Settings.TimePerPickSec) * time.Second)

	o.mu.Lock()
	o.deadlines[draftID] = deadline
	o.mu.Unlock()

	o.emitPickStarted(context.Background(), *state, startedAt, deadline)
	o.wake()

	log.Debug().
		Str("draft_id", draftID.String()).
		Time("deadline", deadline).
		Str("instance", o.instanceID).
		Msg("pick clock armed")
}

// CancelPick disarms the clock for a draft (pause, reset, completion).
func (o *Orchestrator) CancelPick(draftID uuid.UUID) {
	o.mu.Lock()
	_, had := o.deadlines[draftID]
	delete(o.deadlines, draftID)
	o.mu.Unlock()

	if had {
		o.wake()
		log.Debug().Str("draft_id", draftID.String()).Msg("pick clock disarmed")
	}
}

// Run loops until the context is cancelled, sleeping until the next deadline
// and firing expiries.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().Str("instance", o.instanceID).Msg("pick clock scheduler started")

	const idlePoll = 5 * time.Second
	timer := o.clock.NewTimer(idlePoll)
	defer timer.Stop()

	for {
		// Drain any stale wake signal before computing the next sleep.
		select {
		case <-o.wakeCh:
		default:
		}

		wait := idlePoll
		if next, ok := o.nextDeadline(); ok {
			wait = next.Sub(o.clock.Now())
			if wait < 0 {
				wait = 0
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			log.Info().Str("instance", o.instanceID).Msg("pick clock scheduler shutting down")
			return ctx.Err()
		case <-o.wakeCh:
			continue
		case <-timer.Chan():
		}

		for _, draftID := range o.dueDrafts() {
			o.fireExpiry(ctx, draftID)
		}
	}
}

func (o *Orchestrator) fireExpiry(ctx context.Context, draftID uuid.UUID) {
	// Disarm before firing; the expiry handler re-arms through the app's
	// scheduler hook if the session keeps going.
	o.mu.Lock()
	delete(o.deadlines, draftID)
	o.mu.Unlock()

	log.Info().Str("draft_id", draftID.String()).Msg("pick clock expired")

	outcome, err := o.app.HandleClockExpiry(ctx, draftID)
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("clock expiry handling failed")
		return
	}
	if outcome.Result.Reason != engine.ReasonNoop {
		log.Info().
			Str("draft_id", draftID.String()).
			Str("reason", string(outcome.Result.Reason)).
			Str("status", string(outcome.State.Status)).
			Msg("clock expiry applied")
	}
}

func (o *Orchestrator) nextDeadline() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var next time.Time
	found := false
	for _, d := range o.deadlines {
		if !found || d.Before(next) {
			next = d
			found = true
		}
	}
	return next, found
}

func (o *Orchestrator) dueDrafts() []uuid.UUID {
	now := o.clock.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	var due []uuid.UUID
	for id, d := range o.deadlines {
		if !d.After(now) {
			due = append(due, id)
		}
	}
	return due
}

func (o *Orchestrator) wake() {
	select {
	case o.wakeCh <- struct{}{}:
	default:
	}
}

// emitPickStarted records a PickStarted event when a clock is armed. Failures
// are logged, never surfaced.
func (o *Orchestrator) emitPickStarted(ctx context.Context, state models.DraftState, startedAt, timeoutAt time.Time) {
	if o.events == nil {
		return
	}

	payload := events.PickStartedPayload{
		Round:          state.CurrentRound,
		OverallPick:    state.CurrentPick,
		StartedAt:      startedAt,
		TimeoutAt:      timeoutAt,
		TimePerPickSec: state.Settings.TimePerPickSec,
	}
	if teamID, ok := engine.ActiveTeam(state); ok {
		payload.TeamID = teamID.String()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal PickStarted payload")
		return
	}
	if err := o.events.InsertEvent(ctx, state.ID, events.TypePickStarted, raw); err != nil {
		log.Error().Err(err).Str("draft_id", state.ID.String()).Msg("failed to insert PickStarted event")
	}
}
