package service

import (
	"github.com/hemalytics/labd/pkg/lab/application/model"
)

// Percent change above which a trend is reported as an insight.
const significantTrendPercent = 10.0

// CalculateTrends compares the current result set against the previous one
// for every listed parameter present in both.
func CalculateTrends(
	current map[model.Parameter]float64,
	previous map[model.Parameter]float64,
	params []model.Parameter,
) []model.Trend {
	var trends []model.Trend
	for _, param := range params {
		currentValue, hasCurrent := current[param]
		previousValue, hasPrevious := previous[param]
		if !hasCurrent || !hasPrevious {
			continue
		}
		change := currentValue - previousValue
		changePercent := 0.0
		if previousValue != 0 {
			changePercent = change / previousValue * 100
		}
		direction := model.TrendStable
		if change > 0 {
			direction = model.TrendUp
		} else if change < 0 {
			direction = model.TrendDown
		}
		trends = append(trends, model.Trend{
			Parameter:     param,
			Current:       currentValue,
			Previous:      previousValue,
			Change:        change,
			ChangePercent: changePercent,
			Direction:     direction,
		})
	}
	return trends
}

func significant(trend model.Trend) bool {
	percent := trend.ChangePercent
	if percent < 0 {
		percent = -percent
	}
	return percent > significantTrendPercent
}
