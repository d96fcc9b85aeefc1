package game

import "sort"

// History is one team's decisions across phases, ordered by record time.
type History []Decision

// ByTeam groups session decisions into per-team histories. Each history is
// sorted by record time so evaluators see phases in session order.
func ByTeam(decisions []Decision) map[string]History {
	grouped := make(map[string]History)
	for _, d := range decisions {
		grouped[d.TeamID] = append(grouped[d.TeamID], d)
	}
	for teamID, history := range grouped {
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].RecordedAt.Before(history[j].RecordedAt)
		})
		grouped[teamID] = history
	}
	return grouped
}

// ForPhase returns the team's decision for the given phase.
func (h History) ForPhase(phaseID string) (Decision, bool) {
	for _, d := range h {
		if d.PhaseID == phaseID {
			return d, true
		}
	}
	return Decision{}, false
}

// Selected reports whether the team's decision in the given phase included
// the option.
func (h History) Selected(phaseID, optionID string) bool {
	d, ok := h.ForPhase(phaseID)
	if !ok {
		return false
	}
	for _, id := range d.OptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// Sacrificed reports whether any decision in the history gave up the option.
func (h History) Sacrificed(optionID string) bool {
	if optionID == "" {
		return false
	}
	for _, d := range h {
		if d.SacrificedOptionID == optionID {
			return true
		}
	}
	return false
}

// Holds reports whether the team selected the option in the given phase and
// never traded it away in a later exchange.
func (h History) Holds(phaseID, optionID string) bool {
	return h.Selected(phaseID, optionID) && !h.Sacrificed(optionID)
}
