// Package budget computes per-team bid eligibility for the auction phase.
package budget

import (
	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

// Eligibility is the result of evaluating a team against its remaining
// auction-phase obligations.
type Eligibility struct {
	CanBid bool `json:"can_bid"`
	MaxBid int  `json:"max_bid"`
}

// ForTeam evaluates whether team may bid right now and how much. A team must
// complete one pick per auction round, so a dollar is reserved for every
// still-required future pick except the one under evaluation. This guarantees
// a team can never spend itself out of its auction quota.
func ForTeam(team models.Team, picks []models.PickRecord, auctionRounds, currentRound int) Eligibility {
	if currentRound > auctionRounds {
		return Eligibility{}
	}

	made := auctionPicksMade(team.ID, picks, auctionRounds)
	stillNeeded := auctionRounds - made
	if stillNeeded <= 0 {
		return Eligibility{}
	}

	reserve := stillNeeded - 1
	if reserve < 0 {
		reserve = 0
	}

	maxBid := team.Budget - reserve
	if maxBid < 1 {
		maxBid = 1
	}

	return Eligibility{
		CanBid: made < auctionRounds,
		MaxBid: maxBid,
	}
}

// GlobalMax returns the highest legal bid across all currently eligible
// teams; this is the UI-facing bid ceiling. Zero when nobody can bid.
func GlobalMax(teams []models.Team, picks []models.PickRecord, auctionRounds, currentRound int) int {
	max := 0
	for _, t := range teams {
		e := ForTeam(t, picks, auctionRounds, currentRound)
		if e.CanBid && e.MaxBid > max {
			max = e.MaxBid
		}
	}
	return max
}

func auctionPicksMade(teamID uuid.UUID, picks []models.PickRecord, auctionRounds int) int {
	made := 0
	for _, p := range picks {
		if p.TeamID == teamID && p.Round <= auctionRounds {
			made++
		}
	}
	return made
}
