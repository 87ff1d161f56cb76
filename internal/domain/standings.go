package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// DerbyStanding — derived read model, never persisted
// ──────────────────────────────────────────────────────────────────────────────

// DerbyStanding is one participant's position in a derby, recomputed on
// demand from the event's settlements.
type DerbyStanding struct {
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	TotalMatches    int       `json:"total_matches"`
	RemainingCocks  int       `json:"remaining_cocks"`
	IsChampion      bool      `json:"is_champion"`
	IsEliminated    bool      `json:"is_eliminated"`
}

// PrizeShare is one tier of the championship prize distribution.
type PrizeShare struct {
	Rank          int             `json:"rank"`
	ParticipantID uuid.UUID       `json:"participant_id"`
	Percent       decimal.Decimal `json:"percent"`
	Amount        decimal.Decimal `json:"amount"`
}

// StandingsReport is the full read-side projection for one event: ordered
// standings, the prize split, and match progress counters.
type StandingsReport struct {
	EventID           uuid.UUID       `json:"event_id"`
	Standings         []DerbyStanding `json:"standings"`
	PrizeDistribution []PrizeShare    `json:"prize_distribution"`
	TotalMatches      int             `json:"total_matches"`
	CompletedMatches  int             `json:"completed_matches"`
	RemainingMatches  int             `json:"remaining_matches"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregation
// ──────────────────────────────────────────────────────────────────────────────

// ComputeStandings tallies wins and losses from the event's settlements.
// Only win-outcome settlements move the counters; draws and cancellations
// leave every standing untouched.  required is the event's "cocks needed to
// win": wins ≥ required crowns a champion, losses ≥ required eliminates.
//
// The result is ordered champions first (descending wins), then active
// participants (descending wins), then eliminated last.  The function is pure
// and side-effect-free; it never mutates settlement or fight records.
func ComputeStandings(participants []*Participant, settlements []*MatchSettlement, required int) []DerbyStanding {
	byID := make(map[uuid.UUID]*DerbyStanding, len(participants))
	ordered := make([]*DerbyStanding, 0, len(participants))
	for _, p := range participants {
		st := &DerbyStanding{ParticipantID: p.ID, ParticipantName: p.Name}
		byID[p.ID] = st
		ordered = append(ordered, st)
	}

	for _, s := range settlements {
		if s.Outcome != OutcomeWin || s.Result == nil {
			continue
		}
		if w, ok := byID[s.Result.WinnerParticipantID]; ok {
			w.Wins++
			w.TotalMatches++
		}
		if l, ok := byID[s.Result.LoserParticipantID]; ok {
			l.Losses++
			l.TotalMatches++
		}
	}

	for _, st := range ordered {
		st.IsChampion = required > 0 && st.Wins >= required
		st.IsEliminated = required > 0 && st.Losses >= required
		st.RemainingCocks = required - st.TotalMatches
		if st.RemainingCocks < 0 {
			st.RemainingCocks = 0
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if ra, rb := standingRank(a), standingRank(b); ra != rb {
			return ra < rb
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Losses < b.Losses
	})

	out := make([]DerbyStanding, len(ordered))
	for i, st := range ordered {
		out[i] = *st
	}
	return out
}

// standingRank orders the three standing groups: champions, active, eliminated.
func standingRank(st *DerbyStanding) int {
	switch {
	case st.IsChampion:
		return 0
	case st.IsEliminated:
		return 2
	}
	return 1
}

// ──────────────────────────────────────────────────────────────────────────────
// Prize distribution
// ──────────────────────────────────────────────────────────────────────────────

var (
	oneHundred = decimal.NewFromInt(100)
	fifteen    = decimal.NewFromInt(15)
)

// prizeTiers maps the champion count to the leading percentage tiers.
// With four or more champions the listed tiers cover the top three and the
// remaining 15 % is split evenly among every champion ranked fourth or lower.
var prizeTiers = map[int][]int64{
	1: {100},
	2: {70, 30},
	3: {50, 30, 20},
	4: {40, 25, 20},
}

// DistributePrizes splits the event prize pool among the champions in the
// given standings, tiered strictly by the number of champions.  Each share is
// rounded to the nearest whole currency unit independently; the rounding
// residual against the pool is accepted, never redistributed.
//
// Standings must already be ordered (ComputeStandings output): champions
// occupy the leading positions.
func DistributePrizes(standings []DerbyStanding, prize decimal.Decimal) []PrizeShare {
	var champions []DerbyStanding
	for _, st := range standings {
		if st.IsChampion {
			champions = append(champions, st)
		}
	}
	if len(champions) == 0 {
		return nil
	}

	tiers := prizeTiers[len(champions)]
	if tiers == nil {
		tiers = prizeTiers[4]
	}

	shares := make([]PrizeShare, 0, len(champions))
	for i, ch := range champions {
		var pct decimal.Decimal
		if i < len(tiers) {
			pct = decimal.NewFromInt(tiers[i])
		} else {
			// 15 % split evenly among 4th place and beyond.
			pct = fifteen.Div(decimal.NewFromInt(int64(len(champions) - len(tiers))))
		}
		shares = append(shares, PrizeShare{
			Rank:          i + 1,
			ParticipantID: ch.ParticipantID,
			Percent:       pct,
			Amount:        prize.Mul(pct).Div(oneHundred).Round(0),
		})
	}
	return shares
}
