package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/warroomlabs/warroom/internal/models"
)

func auctionPicks(teamID uuid.UUID, rounds ...int) []models.PickRecord {
	picks := make([]models.PickRecord, len(rounds))
	for i, r := range rounds {
		picks[i] = models.PickRecord{
			ID:       uuid.New(),
			Round:    r,
			PlayerID: uuid.New(),
			TeamID:   teamID,
			Amount:   1,
		}
	}
	return picks
}

func TestForTeam(t *testing.T) {
	teamID := uuid.New()

	cases := []struct {
		name          string
		budget        int
		picks         []models.PickRecord
		auctionRounds int
		currentRound  int
		want          Eligibility
	}{
		{
			name:          "fresh team reserves a dollar per future pick",
			budget:        200,
			auctionRounds: 5,
			currentRound:  1,
			want:          Eligibility{CanBid: true, MaxBid: 196},
		},
		{
			name:          "ten dollars three picks still needed",
			budget:        10,
			picks:         auctionPicks(teamID, 1, 1),
			auctionRounds: 5,
			currentRound:  2,
			want:          Eligibility{CanBid: true, MaxBid: 8},
		},
		{
			name:          "max bid floors at one dollar",
			budget:        2,
			picks:         auctionPicks(teamID, 1),
			auctionRounds: 5,
			currentRound:  2,
			want:          Eligibility{CanBid: true, MaxBid: 1},
		},
		{
			name:          "quota filled",
			budget:        120,
			picks:         auctionPicks(teamID, 1, 2, 3, 4, 5),
			auctionRounds: 5,
			currentRound:  5,
			want:          Eligibility{},
		},
		{
			name:          "auction phase over",
			budget:        120,
			auctionRounds: 5,
			currentRound:  6,
			want:          Eligibility{},
		},
		{
			name:          "snake picks do not count against the quota",
			budget:        50,
			picks:         append(auctionPicks(teamID, 1, 2), models.PickRecord{TeamID: teamID, Round: 7}),
			auctionRounds: 5,
			currentRound:  4,
			want:          Eligibility{CanBid: true, MaxBid: 48},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			team := models.Team{ID: teamID, Budget: tc.budget}
			got := ForTeam(team, tc.picks, tc.auctionRounds, tc.currentRound)
			if got != tc.want {
				t.Errorf("ForTeam = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestMaxBidSpendingIsAlwaysSafe(t *testing.T) {
	// Spending the max legal bid on every remaining required pick must never
	// drive the budget negative, whatever the starting budget.
	for _, startBudget := range []int{5, 10, 37, 200} {
		team := models.Team{ID: uuid.New(), Budget: startBudget}
		var picks []models.PickRecord

		const rounds = 5
		for r := 1; r <= rounds; r++ {
			e := ForTeam(team, picks, rounds, r)
			if !e.CanBid {
				t.Fatalf("budget %d round %d: expected CanBid", startBudget, r)
			}
			if e.MaxBid < 1 {
				t.Fatalf("budget %d round %d: MaxBid = %d, want >= 1", startBudget, r, e.MaxBid)
			}
			team.Budget -= e.MaxBid
			if team.Budget < 0 {
				t.Fatalf("budget %d round %d: went negative (%d)", startBudget, r, team.Budget)
			}
			picks = append(picks, models.PickRecord{TeamID: team.ID, Round: r, Amount: e.MaxBid})
		}

		if ForTeam(team, picks, rounds, rounds).CanBid {
			t.Fatalf("budget %d: still eligible after filling quota", startBudget)
		}
	}
}

func TestGlobalMax(t *testing.T) {
	a := models.Team{ID: uuid.New(), Budget: 200}
	b := models.Team{ID: uuid.New(), Budget: 90}
	teams := []models.Team{a, b}

	if got := GlobalMax(teams, nil, 5, 1); got != 196 {
		t.Errorf("GlobalMax = %d, want 196", got)
	}
	if got := GlobalMax(teams, nil, 5, 6); got != 0 {
		t.Errorf("GlobalMax after auction = %d, want 0", got)
	}
}
