package content

import (
	"fmt"
	"io"

	"github.com/crucible-games/boardroom/internal/finance"
	"github.com/crucible-games/boardroom/internal/indicator"
	"github.com/crucible-games/boardroom/internal/rules"
	"gopkg.in/yaml.v3"
)

type packFile struct {
	Version          string           `yaml:"version"`
	Rounds           int              `yaml:"rounds"`
	MaterialUnitCost float64          `yaml:"material_unit_cost"`
	RateTable        []rateRow        `yaml:"rate_table"`
	Baselines        []baselineRow    `yaml:"baselines"`
	Triggers         []triggerRow     `yaml:"triggers"`
	EffectSets       []effectSetRow   `yaml:"effect_sets"`
	Immunities       []immunityRow    `yaml:"immunities"`
	Forced           []forcedRow      `yaml:"forced"`
	Combinations     []combinationRow `yaml:"combinations"`
	Bonuses          []bonusRow       `yaml:"bonuses"`
}

type rateRow struct {
	Threshold float64 `yaml:"threshold"`
	Rate      float64 `yaml:"rate"`
}

type baselineRow struct {
	Round     int     `yaml:"round"`
	Capacity  float64 `yaml:"capacity"`
	Orders    float64 `yaml:"orders"`
	Cost      float64 `yaml:"cost"`
	UnitPrice float64 `yaml:"unit_price"`
}

type triggerRow struct {
	ID         string   `yaml:"id"`
	Family     string   `yaml:"family"`
	Rule       string   `yaml:"rule"`
	Option     string   `yaml:"option"`
	Selections []string `yaml:"selections"`
	Phase      string   `yaml:"phase"`
	Round      int      `yaml:"round"`
}

type effectSetRow struct {
	Rule    string      `yaml:"rule"`
	Option  string      `yaml:"option"`
	Effects []effectRow `yaml:"effects"`
}

type effectRow struct {
	Indicator string  `yaml:"indicator"`
	Value     float64 `yaml:"value"`
	Percent   bool    `yaml:"percent"`
	Timing    string  `yaml:"timing"`
	Rounds    []int   `yaml:"rounds"`
	Note      string  `yaml:"note"`
}

type immunityRow struct {
	ID        string `yaml:"id"`
	Challenge string `yaml:"challenge"`
	Phase     string `yaml:"phase"`
	Option    string `yaml:"option"`
}

type forcedRow struct {
	ID        string `yaml:"id"`
	Challenge string `yaml:"challenge"`
	Phase     string `yaml:"phase"`
	Option    string `yaml:"option"`
	Forces    string `yaml:"forces"`
}

type combinationRow struct {
	Challenge string     `yaml:"challenge"`
	Allowed   [][]string `yaml:"allowed"`
}

type bonusRow struct {
	ID             string      `yaml:"id"`
	Rule           string      `yaml:"rule"`
	Option         string      `yaml:"option"`
	Phase          string      `yaml:"phase"`
	RequiredOption string      `yaml:"required_option"`
	Mode           string      `yaml:"mode"`
	Factor         float64     `yaml:"factor"`
	Effects        []effectRow `yaml:"effects"`
}

// Load parses and validates a YAML content pack.
func Load(r io.Reader) (Pack, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Pack{}, fmt.Errorf("read content pack: %w", err)
	}
	var file packFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Pack{}, fmt.Errorf("parse content pack: %w", err)
	}

	pack := Pack{
		Version:          file.Version,
		Rounds:           file.Rounds,
		MaterialUnitCost: file.MaterialUnitCost,
	}
	for _, row := range file.RateTable {
		pack.RateTable = append(pack.RateTable, finance.Rate{
			Threshold: row.Threshold,
			Value:     row.Rate,
		})
	}
	for _, row := range file.Baselines {
		pack.Baselines = append(pack.Baselines, Baseline{
			Round:     row.Round,
			Capacity:  row.Capacity,
			Orders:    row.Orders,
			Cost:      row.Cost,
			UnitPrice: row.UnitPrice,
		})
	}
	for _, row := range file.Triggers {
		pack.Triggers = append(pack.Triggers, TriggerBinding{
			ID:         row.ID,
			Family:     Family(row.Family),
			Rule:       row.Rule,
			Option:     row.Option,
			Selections: row.Selections,
			Phase:      row.Phase,
			Round:      row.Round,
		})
	}
	for _, row := range file.EffectSets {
		pack.EffectSets = append(pack.EffectSets, EffectSet{
			Rule:    row.Rule,
			Option:  row.Option,
			Effects: convertEffects(row.Effects),
		})
	}
	for _, row := range file.Immunities {
		pack.Immunities = append(pack.Immunities, rules.ImmunityRule{
			ID:        row.ID,
			Challenge: row.Challenge,
			Phase:     row.Phase,
			Option:    row.Option,
		})
	}
	for _, row := range file.Forced {
		pack.Forced = append(pack.Forced, rules.ForcedRule{
			ID:        row.ID,
			Challenge: row.Challenge,
			Phase:     row.Phase,
			Option:    row.Option,
			Forces:    row.Forces,
		})
	}
	for _, row := range file.Combinations {
		pack.Combinations = append(pack.Combinations, rules.CombinationRule{
			Challenge: row.Challenge,
			Allowed:   row.Allowed,
		})
	}
	for _, row := range file.Bonuses {
		pack.Bonuses = append(pack.Bonuses, rules.BonusRule{
			ID:             row.ID,
			Rule:           row.Rule,
			Option:         row.Option,
			Phase:          row.Phase,
			RequiredOption: row.RequiredOption,
			Mode:           rules.BonusMode(row.Mode),
			Factor:         row.Factor,
			Effects:        convertEffects(row.Effects),
		})
	}

	if err := pack.Validate(); err != nil {
		return Pack{}, err
	}
	return pack, nil
}

func convertEffects(rows []effectRow) []indicator.Effect {
	if len(rows) == 0 {
		return nil
	}
	effects := make([]indicator.Effect, 0, len(rows))
	for _, row := range rows {
		effects = append(effects, indicator.Effect{
			Indicator: row.Indicator,
			Value:     row.Value,
			Percent:   row.Percent,
			Timing:    indicator.Timing(row.Timing),
			Rounds:    row.Rounds,
			Note:      row.Note,
		})
	}
	return effects
}
