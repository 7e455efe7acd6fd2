package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/warroomlabs/warroom/internal/catalog"
	"github.com/warroomlabs/warroom/internal/draft/audit"
	"github.com/warroomlabs/warroom/internal/draft/engine"
	"github.com/warroomlabs/warroom/internal/draft/events"
	"github.com/warroomlabs/warroom/internal/draft/store"
	"github.com/warroomlabs/warroom/internal/models"
)

var (
	// ErrNotController is returned when a mutating command comes from anyone
	// but the session's designated controller.
	ErrNotController = errors.New("only the draft controller may issue commands")

	// ErrSettingsLocked is returned when a settings update arrives after
	// history exists; settings changes require an explicit reset first.
	ErrSettingsLocked = errors.New("settings are locked once picks have been committed")
)

// CatalogProvider defines what the draft app needs from the player catalog.
type CatalogProvider interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListAvailablePlayers(ctx context.Context, drafted map[uuid.UUID]bool) ([]models.Player, error)
}

// EventSink receives domain events for relay. Satisfied by the outbox
// repository; a nil sink disables eventing.
type EventSink interface {
	InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// Broadcaster pushes events to connected session observers. Satisfied by the
// gateway connection manager.
type Broadcaster interface {
	Broadcast(draftID uuid.UUID, eventType string, payload []byte)
}

// PickScheduler arms and disarms the pick clock. Satisfied by the
// orchestrator; a nil scheduler means untimed picks.
type PickScheduler interface {
	SchedulePick(draftID uuid.UUID)
	CancelPick(draftID uuid.UUID)
}

// App handles draft session business logic: it serializes writers, runs the
// engine, persists the winning snapshot, and emits events. All state
// transitions inside are pure; the app owns the side effects around them.
type App struct {
	store       store.Store
	catalog     CatalogProvider
	events      EventSink
	audit       audit.Sink
	broadcaster Broadcaster
	scheduler   PickScheduler
	clock       clockwork.Clock
	log         zerolog.Logger

	mu          sync.Mutex
	controllers map[uuid.UUID]string
}

// NewApp creates a new draft App. catalogApp, eventSink, and auditSink may be
// nil, which disables pick validation against the pool, outbox eventing, and
// auditing respectively.
func NewApp(st store.Store, catalogApp CatalogProvider, eventSink EventSink, auditSink audit.Sink, clock clockwork.Clock, logger zerolog.Logger) *App {
	return &App{
		store:       st,
		catalog:     catalogApp,
		events:      eventSink,
		audit:       auditSink,
		clock:       clock,
		log:         logger,
		controllers: make(map[uuid.UUID]string),
	}
}

// SetBroadcaster wires the gateway in after construction; the gateway and the
// app reference each other.
func (a *App) SetBroadcaster(b Broadcaster) {
	a.broadcaster = b
}

// SetScheduler wires the pick clock in after construction.
func (a *App) SetScheduler(s PickScheduler) {
	a.scheduler = s
}

// CreateDraftRequest carries everything needed to open a session.
type CreateDraftRequest struct {
	ID         uuid.UUID
	Controller string
	Settings   models.DraftSettings
	Teams      []engine.TeamSeed
}

// CommandOutcome is the result of one mutating command: the engine verdict
// plus the snapshot the session is now at.
type CommandOutcome struct {
	Result engine.Result     `json:"result"`
	State  models.DraftState `json:"state"`
}

// CreateDraft validates the request, initializes the session, and persists
// the opening snapshot.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftState, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	state := engine.NewState(req.ID, req.Settings, req.Teams)
	if err := a.store.Commit(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}

	a.mu.Lock()
	a.controllers[req.ID] = req.Controller
	a.mu.Unlock()

	a.log.Info().
		Str("draft_id", req.ID.String()).
		Int("teams", len(req.Teams)).
		Int("budget_per_team", req.Settings.BudgetPerTeam).
		Msg("created draft")
	return &state, nil
}

// GetDraft returns the current snapshot for a session.
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftState, error) {
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &state, nil
}

// DeleteDraft removes a session. Only sessions that never started may be
// deleted.
func (a *App) DeleteDraft(ctx context.Context, id uuid.UUID, actor string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.authorize(id, actor); err != nil {
		return err
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return fmt.Errorf("draft not found: %w", err)
	}
	if state.Status != models.DraftStatusNotStarted {
		return fmt.Errorf("cannot delete draft with status %s, only %s drafts can be deleted",
			state.Status, models.DraftStatusNotStarted)
	}
	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	delete(a.controllers, id)
	a.log.Info().Str("draft_id", id.String()).Msg("deleted draft")
	return nil
}

// CommitPick applies one pick on behalf of the controller. Engine rejections
// come back as a non-OK outcome, not an error; errors are reserved for
// infrastructure failures.
func (a *App) CommitPick(ctx context.Context, id uuid.UUID, actor string, playerID, teamID uuid.UUID, amount int) (*CommandOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.authorize(id, actor); err != nil {
		return nil, err
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}

	var player *models.Player
	if a.catalog != nil {
		player, err = a.catalog.GetPlayer(ctx, playerID)
		if errors.Is(err, catalog.ErrPlayerNotFound) {
			return &CommandOutcome{
				Result: engine.Result{OK: false, Reason: engine.ReasonUnknownPlayer},
				State:  state,
			}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up player: %w", err)
		}
	}

	next, result := engine.CommitPick(state, playerID, teamID, amount, a.clock.Now())
	if !result.OK {
		return &CommandOutcome{Result: result, State: state}, nil
	}

	if err := a.store.Commit(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist pick: %w", err)
	}

	a.recordAudit(ctx, id, "commit_pick", actor, state, next)
	a.emitPickCommitted(ctx, next, player)
	a.emitPhaseTransitions(ctx, state, next)
	a.reschedule(next)

	return &CommandOutcome{Result: result, State: next}, nil
}

// UndoLastPick reverses the most recent pick for the session.
func (a *App) UndoLastPick(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.authorize(id, actor); err != nil {
		return nil, err
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}

	var undone *models.PickRecord
	if len(state.Picks) > 0 {
		rec := state.Picks[len(state.Picks)-1]
		undone = &rec
	}

	next, result := engine.UndoLastPick(state)
	if result.Reason == engine.ReasonNoop {
		return &CommandOutcome{Result: result, State: state}, nil
	}

	if err := a.store.Commit(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist undo: %w", err)
	}

	a.recordAudit(ctx, id, "undo_pick", actor, state, next)
	if undone != nil {
		a.emitEvent(ctx, id, events.TypePickUndone, events.PickUndonePayload{
			PickID:      undone.ID.String(),
			TeamID:      undone.TeamID.String(),
			PlayerID:    undone.PlayerID.String(),
			Round:       undone.Round,
			OverallPick: undone.OverallPick,
			Refunded:    undone.Amount,
			UndoneAt:    a.clock.Now(),
		})
	}
	a.emitPhaseTransitions(ctx, state, next)
	a.reschedule(next)

	return &CommandOutcome{Result: result, State: next}, nil
}

// PauseDraft stops the clock for the session.
func (a *App) PauseDraft(ctx context.Context, id uuid.UUID, actor, reason string) (*CommandOutcome, error) {
	return a.applyStatusCommand(ctx, id, actor, "pause", func(s models.DraftState) (models.DraftState, engine.Result) {
		return engine.Pause(s)
	}, events.TypeDraftPaused, func(now time.Time) any {
		return events.DraftPausedPayload{DraftID: id.String(), PausedAt: now, Reason: reason}
	})
}

// ResumeDraft restarts a paused session.
func (a *App) ResumeDraft(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error) {
	return a.applyStatusCommand(ctx, id, actor, "resume", engine.Resume,
		events.TypeDraftResumed, func(now time.Time) any {
			return events.DraftResumedPayload{DraftID: id.String(), ResumedAt: now}
		})
}

// ResetDraft reinitializes the session to its created state.
func (a *App) ResetDraft(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error) {
	return a.applyStatusCommand(ctx, id, actor, "reset", engine.Reset,
		events.TypeDraftReset, func(now time.Time) any {
			return events.DraftResetPayload{DraftID: id.String(), ResetAt: now}
		})
}

// UpdateSettings replaces the session settings. Allowed only while no picks
// have been committed; once history exists the session must be reset first.
func (a *App) UpdateSettings(ctx context.Context, id uuid.UUID, actor string, settings models.DraftSettings) (*models.DraftState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.authorize(id, actor); err != nil {
		return nil, err
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if len(state.Picks) > 0 {
		return nil, ErrSettingsLocked
	}
	if err := a.validateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid draft settings: %w", err)
	}

	seeds := make([]engine.TeamSeed, len(state.Teams))
	for i, t := range state.Teams {
		seeds[i] = engine.TeamSeed{ID: t.ID, Name: t.Name, Owner: t.Owner}
	}
	next := engine.NewState(id, settings, seeds)
	if err := a.store.Commit(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist settings: %w", err)
	}

	a.recordAudit(ctx, id, "update_settings", actor, state, next)
	a.emitEvent(ctx, id, events.TypeSettingsUpdated, events.SettingsUpdatedPayload{
		DraftID:   id.String(),
		UpdatedAt: a.clock.Now(),
	})
	a.reschedule(next)
	return &next, nil
}

// ListAvailablePlayers returns all catalog players not yet drafted in the
// session.
func (a *App) ListAvailablePlayers(ctx context.Context, id uuid.UUID) ([]models.Player, error) {
	if a.catalog == nil {
		return nil, fmt.Errorf("no player catalog configured")
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	return a.catalog.ListAvailablePlayers(ctx, state.Drafted)
}

// AutoPick selects the best remaining player for the team on the clock and
// commits it. The selection is deterministic: highest baseline projected
// points, ties broken by player id. Only meaningful in the snake phase.
func (a *App) AutoPick(ctx context.Context, id uuid.UUID) (*CommandOutcome, error) {
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	teamID, ok := engine.ActiveTeam(state)
	if !ok {
		return &CommandOutcome{
			Result: engine.Result{OK: false, Reason: engine.ReasonNotOnTheClock},
			State:  state,
		}, nil
	}

	available, err := a.ListAvailablePlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("no available players to auto-pick")
	}

	best := available[0]
	for _, p := range available[1:] {
		if p.ProjectedPoints > best.ProjectedPoints ||
			(p.ProjectedPoints == best.ProjectedPoints && p.ID.String() < best.ID.String()) {
			best = p
		}
	}

	a.log.Info().
		Str("draft_id", id.String()).
		Str("team_id", teamID.String()).
		Str("player_id", best.ID.String()).
		Msg("auto-picking for team on the clock")

	actor := a.controllerFor(id)
	return a.CommitPick(ctx, id, actor, best.ID, teamID, 0)
}

// applyStatusCommand runs a pure status transition and handles the shared
// persist/audit/emit plumbing.
func (a *App) applyStatusCommand(ctx context.Context, id uuid.UUID, actor, name string,
	fn func(models.DraftState) (models.DraftState, engine.Result),
	eventType string, payload func(time.Time) any) (*CommandOutcome, error) {

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.authorize(id, actor); err != nil {
		return nil, err
	}
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}

	next, result := fn(state)
	if result.Reason == engine.ReasonNoop {
		return &CommandOutcome{Result: result, State: state}, nil
	}

	if err := a.store.Commit(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", name, err)
	}

	a.recordAudit(ctx, id, name, actor, state, next)
	a.emitEvent(ctx, id, eventType, payload(a.clock.Now()))
	a.reschedule(next)
	return &CommandOutcome{Result: result, State: next}, nil
}

func (a *App) authorize(id uuid.UUID, actor string) error {
	controller, ok := a.controllers[id]
	if !ok || controller == "" {
		return nil
	}
	if actor != controller {
		return ErrNotController
	}
	return nil
}

func (a *App) controllerFor(id uuid.UUID) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controllers[id]
}

// HandleClockExpiry applies the phase-specific expiry policy: the turn phase
// auto-picks for the team on the clock, the bidding phase pauses the session
// for the controller to resolve.
func (a *App) HandleClockExpiry(ctx context.Context, id uuid.UUID) (*CommandOutcome, error) {
	state, err := a.store.GetSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if state.Status != models.DraftStatusInProgress {
		return &CommandOutcome{
			Result: engine.Result{OK: true, Reason: engine.ReasonNoop},
			State:  state,
		}, nil
	}

	switch state.Phase {
	case models.PhaseSnake:
		return a.AutoPick(ctx, id)
	default:
		return a.PauseDraft(ctx, id, a.controllerFor(id), "pick clock expired")
	}
}

// reschedule arms or disarms the pick clock to match the new snapshot.
func (a *App) reschedule(s models.DraftState) {
	if a.scheduler == nil {
		return
	}
	if s.Status == models.DraftStatusInProgress && s.Settings.TimePerPickSec > 0 {
		a.scheduler.SchedulePick(s.ID)
	} else {
		a.scheduler.CancelPick(s.ID)
	}
}

// recordAudit diffs the snapshots and hands the entry to the sink. Audit
// failures never fail the command.
func (a *App) recordAudit(ctx context.Context, id uuid.UUID, command, actor string, before, after models.DraftState) {
	if a.audit == nil {
		return
	}
	entry := audit.Entry{
		DraftID:    id,
		Command:    command,
		Actor:      actor,
		RecordedAt: a.clock.Now(),
		Changes:    audit.Diff(before, after),
	}
	if err := a.audit.Record(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("draft_id", id.String()).Msg("audit sink failed")
	}
}

// emitEvent serializes and hands the event to the outbox sink and connected
// observers. The snapshot is already committed at this point, so a sink
// failure is logged rather than surfaced.
func (a *App) emitEvent(ctx context.Context, id uuid.UUID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		a.log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}
	if a.events != nil {
		if err := a.events.InsertEvent(ctx, id, eventType, raw); err != nil {
			a.log.Error().Err(err).
				Str("draft_id", id.String()).
				Str("event_type", eventType).
				Msg("failed to insert outbox event")
		}
	}
	if a.broadcaster != nil {
		a.broadcaster.Broadcast(id, eventType, raw)
	}
}

func (a *App) emitPickCommitted(ctx context.Context, after models.DraftState, player *models.Player) {
	rec := after.Picks[len(after.Picks)-1]
	payload := events.PickCommittedPayload{
		PickID:      rec.ID.String(),
		TeamID:      rec.TeamID.String(),
		PlayerID:    rec.PlayerID.String(),
		Round:       rec.Round,
		OverallPick: rec.OverallPick,
		Amount:      rec.Amount,
		MadeAt:      rec.PickedAt,
	}
	if team := after.TeamByID(rec.TeamID); team != nil {
		payload.TeamName = team.Name
	}
	if player != nil {
		payload.PlayerName = player.FullName
	}
	a.emitEvent(ctx, after.ID, events.TypePickCommitted, payload)
}

// emitPhaseTransitions emits PhaseChanged and DraftCompleted when a command
// crossed either boundary, in either direction for phase (undo can re-enter
// the bidding phase).
func (a *App) emitPhaseTransitions(ctx context.Context, before, after models.DraftState) {
	if before.Phase != after.Phase {
		turnOrder := make([]string, len(after.TurnOrder))
		for i, tid := range after.TurnOrder {
			turnOrder[i] = tid.String()
		}
		a.emitEvent(ctx, after.ID, events.TypePhaseChanged, events.PhaseChangedPayload{
			DraftID:   after.ID.String(),
			From:      string(before.Phase),
			To:        string(after.Phase),
			Round:     after.CurrentRound,
			TurnOrder: turnOrder,
			ChangedAt: a.clock.Now(),
		})
	}
	if before.Status != models.DraftStatusCompleted && after.Status == models.DraftStatusCompleted {
		a.emitEvent(ctx, after.ID, events.TypeDraftCompleted, events.DraftCompletedPayload{
			DraftID:     after.ID.String(),
			CompletedAt: a.clock.Now(),
			TotalPicks:  len(after.Picks),
		})
	}
}

// validateCreateDraftRequest validates a create draft request.
func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if len(req.Teams) < 2 {
		return fmt.Errorf("at least 2 teams are required")
	}
	seen := make(map[uuid.UUID]bool, len(req.Teams))
	for _, seed := range req.Teams {
		if seed.ID == uuid.Nil {
			return fmt.Errorf("team %q has no id", seed.Name)
		}
		if seen[seed.ID] {
			return fmt.Errorf("duplicate team id %s", seed.ID)
		}
		seen[seed.ID] = true
	}
	return a.validateSettings(req.Settings)
}

// validateSettings validates draft settings.
func (a *App) validateSettings(settings models.DraftSettings) error {
	if settings.BudgetPerTeam <= 0 {
		return fmt.Errorf("budget_per_team must be greater than 0")
	}
	if settings.RosterSize <= 0 {
		return fmt.Errorf("roster_size must be greater than 0")
	}
	if settings.AuctionRounds < 0 || settings.AuctionRounds > settings.RosterSize {
		return fmt.Errorf("auction_rounds must be between 0 and roster_size")
	}
	if settings.TimePerPickSec < 0 {
		return fmt.Errorf("time_per_pick_sec cannot be negative")
	}
	// Every team needs at least $1 per required auction pick.
	if settings.AuctionRounds > settings.BudgetPerTeam {
		return fmt.Errorf("budget_per_team must cover at least $1 per bidding round")
	}
	return nil
}
