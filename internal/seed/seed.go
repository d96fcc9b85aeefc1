// Package seed plays a scripted demo session through the reveal pipeline.
//
// The script registers three demo teams, records their decisions at each
// round boundary, and fires every trigger the content pack declares, in
// pack order. Standings print after each round. Team and decision writes
// are upserts and applications are ledgered, so reseeding an existing
// database replays as a no-op.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/crucible-games/boardroom/internal/content"
	"github.com/crucible-games/boardroom/internal/engine"
	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/storage"
	"github.com/crucible-games/boardroom/internal/telemetry"
)

// Config holds demo session settings.
type Config struct {
	SessionID string
	Verbose   bool
}

// DefaultConfig returns the settings the scenario command starts from.
func DefaultConfig() Config {
	return Config{SessionID: "ses_demo"}
}

type decisionSeed struct {
	team       string
	phase      string
	options    []string
	spend      int64
	sacrificed string
}

var demoTeams = []game.Team{
	{ID: "team_apex", Name: "Apex Assembly"},
	{ID: "team_borealis", Name: "Borealis Freight"},
	{ID: "team_cascade", Name: "Cascade Works"},
}

// demoDecisions lists each round's submissions against the embedded launch
// pack. Decisions are recorded at their round boundary, not all up front,
// so reveals in later rounds see team history as it stood at the time. The
// round-2 exchange in particular gives up an option that already earned its
// round-1 immunity.
var demoDecisions = map[int][]decisionSeed{
	1: {
		{team: "team_apex", phase: "r1_invest", options: []string{"opt_line_upgrade", "opt_safety_audit"}, spend: 260000},
		{team: "team_borealis", phase: "r1_invest", options: []string{"opt_markets", "opt_training"}, spend: 210000},
		{team: "team_cascade", phase: "r1_invest", options: []string{"opt_automation"}, spend: 180000},
		{team: "team_apex", phase: "chl_recall", options: []string{"full_recall"}},
		{team: "team_borealis", phase: "chl_recall", options: []string{"full_recall"}},
		{team: "team_cascade", phase: "chl_recall", options: []string{"quiet_fix"}},
	},
	2: {
		{team: "team_apex", phase: "r2_exchange", options: []string{"opt_double_down"}, spend: 90000, sacrificed: "opt_safety_audit"},
		{team: "team_borealis", phase: "r2_invest", options: []string{"opt_supplier_deal"}, spend: 120000},
		{team: "team_cascade", phase: "r2_invest", options: []string{"opt_overtime"}, spend: 75000},
		{team: "team_apex", phase: "chl_strike", options: []string{"opt_negotiate"}},
		{team: "team_borealis", phase: "chl_strike", options: []string{"opt_negotiate"}},
		{team: "team_cascade", phase: "chl_strike", options: []string{"opt_negotiate"}},
	},
	3: {
		{team: "team_apex", phase: "chl_tariff", options: []string{"opt_absorb"}},
		{team: "team_borealis", phase: "chl_tariff", options: []string{"opt_absorb"}},
		{team: "team_cascade", phase: "chl_tariff", options: []string{"opt_pass_on"}},
	},
}

// Run seeds the demo session into store and fires the pack's reveal
// sequence round by round, writing standings to out. Progress goes to
// errOut when verbose is set.
func Run(ctx context.Context, store storage.Store, pack content.Pack, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	sessionID := strings.TrimSpace(cfg.SessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	eng := engine.New(sessionID, pack, store,
		engine.WithTelemetry(telemetry.NewEmitter(sessionID, store)),
	)

	now := time.Now().UTC()
	for i, team := range demoTeams {
		team.SessionID = sessionID
		team.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		if err := store.PutTeam(ctx, team); err != nil {
			return fmt.Errorf("register team %q: %w", team.ID, err)
		}
		if cfg.Verbose {
			fmt.Fprintf(errOut, "  → team %s (%s)\n", team.ID, team.Name)
		}
	}

	for round := 1; round <= pack.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.Verbose {
			fmt.Fprintf(errOut, "Round %d\n", round)
		}
		for _, d := range demoDecisions[round] {
			decision := game.Decision{
				SessionID:          sessionID,
				TeamID:             d.team,
				PhaseID:            d.phase,
				OptionIDs:          d.options,
				Spend:              d.spend,
				SacrificedOptionID: d.sacrificed,
				RecordedAt:         now,
			}
			if err := store.PutDecision(ctx, decision); err != nil {
				return fmt.Errorf("record decision %s/%s: %w", d.team, d.phase, err)
			}
			if cfg.Verbose {
				fmt.Fprintf(errOut, "  → decision %s %s %v\n", d.team, d.phase, d.options)
			}
		}
		for _, binding := range pack.Triggers {
			if binding.Round != round {
				continue
			}
			outcome, err := eng.HandleTrigger(ctx, binding.ID)
			if err != nil {
				return fmt.Errorf("trigger %q: %w", binding.ID, err)
			}
			if cfg.Verbose {
				fmt.Fprintf(errOut, "  → trigger %s: %s (%d applied, %d skipped)\n",
					binding.ID, outcome.Code, len(outcome.Applied), len(outcome.Skipped))
			}
		}
		if err := printStandings(ctx, eng, round, out); err != nil {
			return err
		}
	}
	if cfg.Verbose {
		fmt.Fprintln(errOut, "Demo session complete")
	}
	return nil
}

func printStandings(ctx context.Context, eng *engine.Engine, round int, out io.Writer) error {
	standings, err := eng.Standings(ctx, round)
	if err != nil {
		return fmt.Errorf("standings for round %d: %w", round, err)
	}
	fmt.Fprintf(out, "Round %d standings\n", round)
	for _, s := range standings {
		fmt.Fprintf(out, "%4d. %-18s net income %10d  margin %6.2f%%\n",
			s.Rank, s.Team.Name, s.Snapshot.NetIncome, s.Snapshot.NetMargin*100)
	}
	return nil
}
