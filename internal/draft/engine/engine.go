// Package engine implements the draft progression core: round/pick counters,
// the auction-to-snake phase transition, commit, and fully reversible undo.
//
// Every transition is a synchronous, pure transformation of one state
// snapshot into the next; the input state is never mutated. Serialization of
// writers, persistence, and eventing belong to the surrounding app layer.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/draft/budget"
	"github.com/warroomlabs/warroom/internal/draft/order"
	"github.com/warroomlabs/warroom/internal/models"
)

// TeamSeed describes a participant at session creation.
type TeamSeed struct {
	ID    uuid.UUID
	Name  string
	Owner string
}

// NewState creates the initial draft state: round 1, pick 1, empty history,
// full budgets.
func NewState(id uuid.UUID, settings models.DraftSettings, seeds []TeamSeed) models.DraftState {
	settings.NumTeams = len(seeds)

	teams := make([]models.Team, len(seeds))
	for i, seed := range seeds {
		teams[i] = models.Team{
			ID:            seed.ID,
			Name:          seed.Name,
			Owner:         seed.Owner,
			Budget:        settings.BudgetPerTeam,
			DraftPosition: i + 1,
			Players:       []uuid.UUID{},
		}
	}

	s := models.DraftState{
		ID:           id,
		Settings:     settings,
		Teams:        teams,
		CurrentRound: 1,
		CurrentPick:  1,
		Phase:        models.PhaseAuction,
		Status:       models.DraftStatusNotStarted,
		Picks:        []models.PickRecord{},
		Drafted:      map[uuid.UUID]bool{},
	}
	refresh(&s, true)
	return s
}

// CommitPick validates and applies one pick. In the auction phase the amount
// is checked against the team's max legal bid; in the snake phase the team
// must be on the clock and the amount is forced to zero.
func CommitPick(s models.DraftState, playerID, teamID uuid.UUID, amount int, now time.Time) (models.DraftState, Result) {
	if s.Status == models.DraftStatusCompleted {
		return s, rejected(ReasonDraftComplete)
	}
	if s.Status == models.DraftStatusPaused {
		return s, rejected(ReasonDraftPaused)
	}
	if s.Drafted[playerID] {
		return s, rejected(ReasonAlreadyDrafted)
	}
	if s.TeamByID(teamID) == nil {
		return s, rejected(ReasonUnknownTeam)
	}

	switch s.Phase {
	case models.PhaseAuction:
		e := budget.ForTeam(*s.TeamByID(teamID), s.Picks, s.Settings.AuctionRounds, s.CurrentRound)
		if !e.CanBid {
			return s, rejected(ReasonNotEligible)
		}
		if amount < 1 {
			return s, rejected(ReasonInvalidAmount)
		}
		if amount > e.MaxBid {
			return s, rejected(ReasonExceedsBudget)
		}
	case models.PhaseSnake:
		active, ok := ActiveTeam(s)
		if !ok || active != teamID {
			return s, rejected(ReasonNotOnTheClock)
		}
		amount = 0
	}

	ns := s.Clone()
	team := ns.TeamByID(teamID)

	ns.Picks = append(ns.Picks, models.PickRecord{
		ID:          uuid.New(),
		Round:       ns.CurrentRound,
		OverallPick: ns.CurrentPick,
		PlayerID:    playerID,
		TeamID:      teamID,
		Amount:      amount,
		PickedAt:    now,
	})
	team.Players = append(team.Players, playerID)
	team.Budget -= amount
	ns.Drafted[playerID] = true

	ns.CurrentPick++
	if (ns.CurrentPick-1)%ns.Settings.NumTeams == 0 {
		ns.CurrentRound++
	}

	refresh(&ns, false)

	if ns.CurrentPick > ns.Settings.TotalPicks() {
		ns.Status = models.DraftStatusCompleted
	} else {
		ns.Status = models.DraftStatusInProgress
	}

	return ns, applied()
}

// UndoLastPick reverses the most recent committed pick. Round and pick are
// restored from the popped record itself, and the turn order is recomputed
// fresh rather than restored, since budgets may have changed. Undo on empty
// history is a silent no-op.
func UndoLastPick(s models.DraftState) (models.DraftState, Result) {
	if len(s.Picks) == 0 {
		return s, noop()
	}

	ns := s.Clone()
	rec := ns.Picks[len(ns.Picks)-1]
	ns.Picks = ns.Picks[:len(ns.Picks)-1]

	if team := ns.TeamByID(rec.TeamID); team != nil {
		for i := len(team.Players) - 1; i >= 0; i-- {
			if team.Players[i] == rec.PlayerID {
				team.Players = append(team.Players[:i], team.Players[i+1:]...)
				break
			}
		}
		team.Budget += rec.Amount
	}
	delete(ns.Drafted, rec.PlayerID)

	// The record carries the state the draft was in before it was committed.
	ns.CurrentRound = rec.Round
	ns.CurrentPick = rec.OverallPick

	refresh(&ns, true)

	if len(ns.Picks) == 0 {
		ns.Status = models.DraftStatusNotStarted
	} else {
		ns.Status = models.DraftStatusInProgress
	}

	return ns, applied()
}

// Pause stops the draft clock-wise; counters and history are untouched.
// Pausing anything but an in-progress draft is a no-op.
func Pause(s models.DraftState) (models.DraftState, Result) {
	if s.Status != models.DraftStatusInProgress {
		return s, noop()
	}
	ns := s.Clone()
	ns.Status = models.DraftStatusPaused
	return ns, applied()
}

// Resume is the inverse of Pause.
func Resume(s models.DraftState) (models.DraftState, Result) {
	if s.Status != models.DraftStatusPaused {
		return s, noop()
	}
	ns := s.Clone()
	ns.Status = models.DraftStatusInProgress
	return ns, applied()
}

// Reset reinitializes the session to its created state, preserving settings
// and team identities.
func Reset(s models.DraftState) (models.DraftState, Result) {
	seeds := make([]TeamSeed, len(s.Teams))
	for i, t := range s.Teams {
		seeds[i] = TeamSeed{ID: t.ID, Name: t.Name, Owner: t.Owner}
	}
	return NewState(s.ID, s.Settings, seeds), applied()
}

// ActiveTeam returns the team on the clock. Only meaningful in the snake
// phase; in the auction phase there is no single active team.
func ActiveTeam(s models.DraftState) (uuid.UUID, bool) {
	if s.Phase != models.PhaseSnake || s.Settings.NumTeams == 0 {
		return uuid.Nil, false
	}
	if s.Status == models.DraftStatusCompleted {
		return uuid.Nil, false
	}
	snakeRound := s.CurrentRound - s.Settings.AuctionRounds
	idx := (s.CurrentPick - 1) % s.Settings.NumTeams
	return order.Active(s.TurnOrder, snakeRound, idx)
}

// refresh re-derives phase and turn order from the counters. The order is
// computed exactly when the snake phase is entered and kept cached for the
// rest of the phase; forceOrder recomputes it regardless (undo path).
func refresh(s *models.DraftState, forceOrder bool) {
	if s.CurrentRound > s.Settings.AuctionRounds {
		entering := s.Phase != models.PhaseSnake || len(s.TurnOrder) == 0
		s.Phase = models.PhaseSnake
		if entering || forceOrder {
			s.TurnOrder = order.Compute(s.Teams)
		}
	} else {
		s.Phase = models.PhaseAuction
		s.TurnOrder = nil
	}
}
