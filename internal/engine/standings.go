package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
)

// Standing is one team's rank entry for a round.
type Standing struct {
	Rank     int
	Team     game.Team
	Snapshot indicator.Snapshot
}

// Standings ranks teams by the round's net income, highest first. Teams
// with equal net income share a rank; teams without a snapshot for the
// round are left out.
func (e *Engine) Standings(ctx context.Context, round int) ([]Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	teams, err := e.store.ListTeams(ctx, e.sessionID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	snaps, err := e.store.ListSnapshots(ctx, e.sessionID, round)
	if err != nil {
		return nil, fmt.Errorf("list round %d snapshots: %w", round, err)
	}
	byTeam := make(map[string]indicator.Snapshot, len(snaps))
	for _, snap := range snaps {
		byTeam[snap.TeamID] = snap
	}

	standings := make([]Standing, 0, len(teams))
	for _, team := range teams {
		snap, ok := byTeam[team.ID]
		if !ok {
			continue
		}
		standings = append(standings, Standing{Team: team, Snapshot: snap})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Snapshot.NetIncome != standings[j].Snapshot.NetIncome {
			return standings[i].Snapshot.NetIncome > standings[j].Snapshot.NetIncome
		}
		return standings[i].Team.Name < standings[j].Team.Name
	})
	for i := range standings {
		if i > 0 && standings[i].Snapshot.NetIncome == standings[i-1].Snapshot.NetIncome {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings, nil
}
