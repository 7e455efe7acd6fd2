package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/draft/budget"
	"github.com/warroomlabs/warroom/internal/draft/engine"
	"github.com/warroomlabs/warroom/internal/models"
	"github.com/warroomlabs/warroom/internal/roster"
)

// DraftApp defines what the service layer needs from the draft application.
type DraftApp interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftState, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftState, error)
	DeleteDraft(ctx context.Context, id uuid.UUID, actor string) error
	CommitPick(ctx context.Context, id uuid.UUID, actor string, playerID, teamID uuid.UUID, amount int) (*CommandOutcome, error)
	UndoLastPick(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error)
	PauseDraft(ctx context.Context, id uuid.UUID, actor, reason string) (*CommandOutcome, error)
	ResumeDraft(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error)
	ResetDraft(ctx context.Context, id uuid.UUID, actor string) (*CommandOutcome, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, actor string, settings models.DraftSettings) (*models.DraftState, error)
	ListAvailablePlayers(ctx context.Context, id uuid.UUID) ([]models.Player, error)
}

// Service is the query/command surface the gateway exposes. Commands pass
// through to the app; queries project read models (roster view, bid
// eligibility, clock) out of the latest snapshot.
type Service struct {
	app DraftApp
}

func NewService(app DraftApp) *Service {
	return &Service{app: app}
}

func (s *Service) App() DraftApp {
	return s.app
}

// TeamRosterView is a team's snapshot projected onto labeled roster slots.
type TeamRosterView struct {
	TeamID   uuid.UUID           `json:"team_id"`
	TeamName string              `json:"team_name"`
	Budget   int                 `json:"budget"`
	Slots    []models.RosterSlot `json:"slots"`
	Unfilled int                 `json:"unfilled"`
}

// TeamEligibility is a team's bidding position in the current snapshot.
type TeamEligibility struct {
	TeamID uuid.UUID `json:"team_id"`
	CanBid bool      `json:"can_bid"`
	MaxBid int       `json:"max_bid"`
	Budget int       `json:"budget"`
}

// ClockView names the team on the clock, if the snake phase has one.
type ClockView struct {
	Phase       models.DraftPhase `json:"phase"`
	Round       int               `json:"round"`
	OverallPick int               `json:"overall_pick"`
	OnTheClock  *uuid.UUID        `json:"on_the_clock,omitempty"`
}

// RosterView projects one team's picks onto the slot template. Acquisition
// order is preserved; players missing from the lookup are skipped rather than
// failing the whole view.
func (s *Service) RosterView(ctx context.Context, draftID, teamID uuid.UUID, lookup map[uuid.UUID]models.Player) (*TeamRosterView, error) {
	state, err := s.app.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	team := state.TeamByID(teamID)
	if team == nil {
		return nil, fmt.Errorf("team %s not in draft %s", teamID, draftID)
	}

	acquired := make([]models.Player, 0, len(team.Players))
	for _, playerID := range team.Players {
		if p, ok := lookup[playerID]; ok {
			acquired = append(acquired, p)
		}
	}
	slots := roster.Assign(acquired, state.Settings.RosterSize)

	unfilled := 0
	for _, slot := range slots {
		if slot.PlayerID == nil {
			unfilled++
		}
	}
	return &TeamRosterView{
		TeamID:   team.ID,
		TeamName: team.Name,
		Budget:   team.Budget,
		Slots:    slots,
		Unfilled: unfilled,
	}, nil
}

// Eligibility reports every team's bidding position for the current snapshot.
func (s *Service) Eligibility(ctx context.Context, draftID uuid.UUID) ([]TeamEligibility, error) {
	state, err := s.app.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	out := make([]TeamEligibility, len(state.Teams))
	for i, team := range state.Teams {
		e := budget.ForTeam(team, state.Picks, state.Settings.AuctionRounds, state.CurrentRound)
		out[i] = TeamEligibility{
			TeamID: team.ID,
			CanBid: e.CanBid && state.Phase == models.PhaseAuction,
			MaxBid: e.MaxBid,
			Budget: team.Budget,
		}
	}
	return out, nil
}

// Clock reports the current round, pick, and team on the clock.
func (s *Service) Clock(ctx context.Context, draftID uuid.UUID) (*ClockView, error) {
	state, err := s.app.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	view := &ClockView{
		Phase:       state.Phase,
		Round:       state.CurrentRound,
		OverallPick: state.CurrentPick,
	}
	if teamID, ok := engine.ActiveTeam(*state); ok {
		view.OnTheClock = &teamID
	}
	return view, nil
}
