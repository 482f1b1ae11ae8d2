package service

import (
	"github.com/hemalytics/labd/pkg/lab/application/model"
)

// DetectPatterns reports every built-in correlation whose indicators are all
// present in the result set and whose match rule holds.
func DetectPatterns(
	catalog model.RangeCatalog,
	patterns []model.Pattern,
	results map[model.Parameter]float64,
	gender model.Gender,
) []model.PatternMatch {
	var matches []model.PatternMatch
	for _, pattern := range patterns {
		values := make(map[model.Parameter]float64, len(pattern.Indicators))
		statuses := make(map[model.Parameter]model.Classification, len(pattern.Indicators))
		complete := true
		for _, indicator := range pattern.Indicators {
			value, ok := results[indicator]
			if !ok {
				complete = false
				break
			}
			classification, known := catalog.Classify(indicator, value, gender)
			if !known {
				complete = false
				break
			}
			values[indicator] = value
			statuses[indicator] = classification
		}
		if !complete || !ruleHolds(pattern, statuses) {
			continue
		}
		matches = append(matches, model.PatternMatch{
			Pattern:  pattern,
			Values:   values,
			Statuses: statuses,
		})
	}
	return matches
}

func ruleHolds(pattern model.Pattern, statuses map[model.Parameter]model.Classification) bool {
	switch pattern.Rule {
	case model.RuleAllLow:
		for _, c := range statuses {
			if c.Status != model.StatusLow || c.Severity == model.SeverityCritical {
				return false
			}
		}
		return true
	case model.RuleAllHigh:
		for _, c := range statuses {
			if c.Status != model.StatusHigh || c.Severity == model.SeverityCritical {
				return false
			}
		}
		return true
	case model.RuleAllElevated:
		for _, c := range statuses {
			if c.Status != model.StatusHigh {
				return false
			}
		}
		return true
	case model.RuleFirstElevated:
		if len(pattern.Indicators) == 0 {
			return false
		}
		c, ok := statuses[pattern.Indicators[0]]
		return ok && c.Status == model.StatusHigh
	}
	return false
}
