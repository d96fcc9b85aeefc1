package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crucible-games/boardroom/internal/broadcast"
	"github.com/crucible-games/boardroom/internal/content"
	"github.com/crucible-games/boardroom/internal/finance"
	"github.com/crucible-games/boardroom/internal/game"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/rules"
	"github.com/crucible-games/boardroom/internal/storage"
	"github.com/crucible-games/boardroom/internal/telemetry"
)

// HandleTrigger processes one reveal trigger end to end: binding lookup,
// team qualification, effect application, durable ledger write, broadcast.
// A second invocation of the same trigger is a no-op per team already in
// the ledger. Returns ErrBusy while another trigger is being processed.
func (e *Engine) HandleTrigger(ctx context.Context, triggerID string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	triggerID = strings.TrimSpace(triggerID)
	if triggerID == "" {
		return Outcome{}, fmt.Errorf("trigger id is required")
	}

	if !e.mu.TryLock() {
		return Outcome{}, ErrBusy
	}
	defer e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "engine.HandleTrigger", trace.WithAttributes(
		attribute.String("session.id", e.sessionID),
		attribute.String("trigger.id", triggerID),
	))
	defer span.End()

	binding, ok := e.pack.TriggerByID(triggerID)
	if !ok {
		log.Printf("engine: trigger unmapped session=%s trigger=%s", e.sessionID, triggerID)
		e.emit(ctx, telemetry.Event{
			Name:      "trigger.unmapped",
			Severity:  telemetry.SeverityWarn,
			TriggerID: triggerID,
		})
		return Outcome{TriggerID: triggerID, Code: CodeUnmapped}, nil
	}

	var outcome Outcome
	var err error
	if binding.Family == content.FamilyRoundStart {
		outcome, err = e.resetRound(ctx, binding)
	} else {
		outcome, err = e.applyBinding(ctx, binding)
	}
	if err != nil {
		span.RecordError(err)
		e.emit(ctx, telemetry.Event{
			Name:      "trigger.failed",
			Severity:  telemetry.SeverityError,
			TriggerID: triggerID,
			RuleID:    binding.Rule,
			Attributes: map[string]any{
				"error": err.Error(),
			},
		})
		return Outcome{}, err
	}
	return outcome, nil
}

// applyBinding runs the effect-application families: setup, investment,
// challenge, benefit. Nothing is persisted until every team has resolved;
// the writes then land in a fixed order with the ledger last, so a failure
// partway leaves no ledger row claiming work that did not complete.
func (e *Engine) applyBinding(ctx context.Context, binding content.TriggerBinding) (Outcome, error) {
	teams, err := e.store.ListTeams(ctx, e.sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list teams: %w", err)
	}
	decisions, err := e.store.ListDecisions(ctx, e.sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list decisions: %w", err)
	}
	histories := game.ByTeam(decisions)

	outcome := Outcome{
		TriggerID: binding.ID,
		RuleID:    binding.Rule,
		Family:    binding.Family,
		Round:     binding.Round,
		Code:      CodeNoop,
	}
	now := e.clock().UTC()

	var snapshots []indicator.Snapshot
	var adjustments []storage.Adjustment
	var records []storage.ApplicationRecord

	for _, team := range teams {
		history := histories[team.ID]
		optionID, reason := e.qualify(binding, history)
		if reason != "" {
			outcome.Skipped = append(outcome.Skipped, Skip{TeamID: team.ID, Reason: reason})
			continue
		}

		done, err := e.alreadyApplied(ctx, team.ID, binding.Rule, optionID)
		if err != nil {
			return Outcome{}, err
		}
		if done {
			outcome.Skipped = append(outcome.Skipped, Skip{TeamID: team.ID, Reason: SkipAlreadyApplied})
			continue
		}

		effects, ok := e.pack.EffectsFor(binding.Rule, optionID)
		if !ok {
			e.skipMisconfigured(ctx, binding, team.ID, optionID, "no effect set")
			outcome.Skipped = append(outcome.Skipped, Skip{TeamID: team.ID, Reason: SkipNoEffectSet})
			continue
		}
		effects = rules.ApplyBonuses(effects, history, e.pack.BonusesFor(binding.Rule, optionID))

		snap, err := e.sequencer.StartRound(ctx, team.ID, binding.Round)
		if err != nil {
			return Outcome{}, fmt.Errorf("team %s round %d: %w", team.ID, binding.Round, err)
		}
		updated, err := indicator.Apply(snap, effects)
		if err != nil {
			e.skipMisconfigured(ctx, binding, team.ID, optionID, err.Error())
			outcome.Skipped = append(outcome.Skipped, Skip{TeamID: team.ID, Reason: SkipInvalidEffect})
			continue
		}
		updated.UpdatedAt = now
		finance.Refresh(&updated, e.pack.RateTable, e.pack.MaterialUnitCost)

		adjustments = append(adjustments, permanentAdjustments(e.sessionID, team.ID, binding.Rule, optionID, effects, now)...)
		snapshots = append(snapshots, updated)
		records = append(records, storage.ApplicationRecord{
			SessionID: e.sessionID,
			TeamID:    team.ID,
			RuleID:    binding.Rule,
			OptionID:  optionID,
			TriggerID: binding.ID,
			AppliedAt: now,
		})
		outcome.Applied = append(outcome.Applied, TeamApplication{TeamID: team.ID, OptionID: optionID, Snapshot: updated})
	}

	if len(outcome.Applied) == 0 {
		log.Printf("engine: trigger noop session=%s trigger=%s rule=%s skipped=%d",
			e.sessionID, binding.ID, binding.Rule, len(outcome.Skipped))
		return outcome, nil
	}

	if len(adjustments) > 0 {
		if err := e.store.UpsertAdjustments(ctx, adjustments); err != nil {
			return Outcome{}, fmt.Errorf("write adjustments: %w", err)
		}
	}
	if err := e.store.BulkUpsertSnapshots(ctx, snapshots); err != nil {
		return Outcome{}, fmt.Errorf("write snapshots: %w", err)
	}
	if err := e.store.RecordApplications(ctx, records); err != nil {
		return Outcome{}, fmt.Errorf("record applications: %w", err)
	}
	for _, record := range records {
		e.applied[appliedKey(record.TeamID, record.RuleID, record.OptionID)] = struct{}{}
	}
	outcome.Adjustments = adjustments
	outcome.Code = CodeApplied

	e.broadcaster.Broadcast(ctx, broadcast.Update{
		SessionID:   e.sessionID,
		TriggerID:   binding.ID,
		Round:       binding.Round,
		Snapshots:   snapshots,
		Adjustments: adjustments,
	})
	e.emit(ctx, telemetry.Event{
		Name:      "trigger.applied",
		TriggerID: binding.ID,
		RuleID:    binding.Rule,
		Attributes: map[string]any{
			"family":      string(binding.Family),
			"round":       binding.Round,
			"teams":       len(outcome.Applied),
			"skipped":     len(outcome.Skipped),
			"adjustments": len(adjustments),
		},
	})
	log.Printf("engine: trigger applied session=%s trigger=%s rule=%s teams=%d skipped=%d",
		e.sessionID, binding.ID, binding.Rule, len(outcome.Applied), len(outcome.Skipped))
	return outcome, nil
}

// qualify resolves the option a team's history earns under the binding, or
// the reason the team sits this trigger out.
func (e *Engine) qualify(binding content.TriggerBinding, history game.History) (string, string) {
	switch binding.Family {
	case content.FamilySetup:
		return binding.Option, ""

	case content.FamilyInvestment:
		if _, ok := history.ForPhase(binding.Phase); !ok {
			return "", SkipNoDecision
		}
		if !history.Holds(binding.Phase, binding.Option) {
			return "", SkipNotHeld
		}
		return binding.Option, ""

	case content.FamilyChallenge:
		decision, ok := history.ForPhase(binding.Phase)
		if !ok {
			return "", SkipNoDecision
		}
		if combo, ok := e.pack.CombinationFor(binding.Rule); ok {
			if !rules.IsValidCombination(combo.Allowed, decision.OptionIDs) {
				return "", SkipInvalidCombination
			}
		}
		selection := rules.SelectionKey(decision.OptionIDs)
		if forced := rules.ForcedOptionFor(history, e.pack.ForcedFor(binding.Rule)); forced != "" {
			selection = rules.SelectionKey([]string{forced})
		}
		if selection == "" || !rules.CoversSelection(binding.Selections, selection) {
			return "", SkipSelectionMismatch
		}
		if _, immune := rules.ImmunityFor(history, e.pack.ImmunitiesFor(binding.Rule)); immune {
			return "", SkipImmune
		}
		return selection, ""

	case content.FamilyBenefit:
		if _, ok := rules.ImmunityFor(history, e.pack.ImmunitiesFor(binding.Rule)); !ok {
			return "", SkipNotHeld
		}
		return binding.Option, ""
	}
	return "", SkipSelectionMismatch
}

// alreadyApplied consults the in-memory cache, then the durable ledger.
func (e *Engine) alreadyApplied(ctx context.Context, teamID, ruleID, optionID string) (bool, error) {
	key := appliedKey(teamID, ruleID, optionID)
	if _, ok := e.applied[key]; ok {
		return true, nil
	}
	done, err := e.store.HasBeenApplied(ctx, e.sessionID, teamID, ruleID, optionID)
	if err != nil {
		return false, fmt.Errorf("check ledger: %w", err)
	}
	if done {
		e.applied[key] = struct{}{}
	}
	return done, nil
}

// permanentAdjustments expands an effect list's permanent entries into one
// adjustment per declared round. The source labels the granting rule and
// option, which is what lets a replayed grant update in place.
func permanentAdjustments(sessionID, teamID, ruleID, optionID string, effects []indicator.Effect, now time.Time) []storage.Adjustment {
	source := ruleID + "/" + optionID
	var adjustments []storage.Adjustment
	for _, effect := range effects {
		if effect.Timing != indicator.TimingPermanent {
			continue
		}
		for _, round := range effect.Rounds {
			adjustments = append(adjustments, storage.Adjustment{
				SessionID: sessionID,
				TeamID:    teamID,
				Round:     round,
				Indicator: effect.Indicator,
				Value:     effect.Value,
				Percent:   effect.Percent,
				Source:    source,
				Note:      effect.Note,
				CreatedAt: now,
			})
		}
	}
	return adjustments
}

// resetRound handles the roundstart family through the sequencer's batch
// entry. Teams already holding a snapshot for the round keep it, so a reset
// fired twice is a no-op the second time.
func (e *Engine) resetRound(ctx context.Context, binding content.TriggerBinding) (Outcome, error) {
	teams, err := e.store.ListTeams(ctx, e.sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list teams: %w", err)
	}
	snaps, err := e.sequencer.StartRoundForTeams(ctx, teams, binding.Round)
	if err != nil {
		return Outcome{}, fmt.Errorf("reset round %d: %w", binding.Round, err)
	}

	outcome := Outcome{
		TriggerID: binding.ID,
		Family:    binding.Family,
		Round:     binding.Round,
		Code:      CodeReset,
	}
	for _, snap := range snaps {
		outcome.Applied = append(outcome.Applied, TeamApplication{TeamID: snap.TeamID, Snapshot: snap})
	}
	if len(snaps) > 0 {
		e.broadcaster.Broadcast(ctx, broadcast.Update{
			SessionID: e.sessionID,
			TriggerID: binding.ID,
			Round:     binding.Round,
			Snapshots: snaps,
		})
	}
	log.Printf("engine: round reset session=%s round=%d teams=%d", e.sessionID, binding.Round, len(snaps))
	return outcome, nil
}

func (e *Engine) skipMisconfigured(ctx context.Context, binding content.TriggerBinding, teamID, optionID, detail string) {
	log.Printf("engine: team skipped session=%s trigger=%s team=%s option=%s reason=%s",
		e.sessionID, binding.ID, teamID, optionID, detail)
	e.emit(ctx, telemetry.Event{
		Name:      "trigger.misconfigured",
		Severity:  telemetry.SeverityWarn,
		TeamID:    teamID,
		TriggerID: binding.ID,
		RuleID:    binding.Rule,
		Attributes: map[string]any{
			"option": optionID,
			"detail": detail,
		},
	})
}

func (e *Engine) emit(ctx context.Context, evt telemetry.Event) {
	if err := e.telemetry.Emit(ctx, evt); err != nil {
		log.Printf("telemetry emit %s: %v", evt.Name, err)
	}
}
