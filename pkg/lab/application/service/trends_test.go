package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

func TestCalculateTrends(t *testing.T) {
	current := map[model.Parameter]float64{
		model.ParamGlucose:    6.0,
		model.ParamCreatinine: 90,
		model.ParamHemoglobin: 140,
	}
	previous := map[model.Parameter]float64{
		model.ParamGlucose:    5.0,
		model.ParamCreatinine: 100,
		model.ParamHemoglobin: 140,
	}
	params := []model.Parameter{model.ParamGlucose, model.ParamCreatinine, model.ParamHemoglobin}

	trends := CalculateTrends(current, previous, params)
	require.Len(t, trends, 3)

	glucose := trends[0]
	assert.Equal(t, model.ParamGlucose, glucose.Parameter)
	assert.InDelta(t, 1.0, glucose.Change, 1e-9)
	assert.InDelta(t, 20.0, glucose.ChangePercent, 1e-9)
	assert.Equal(t, model.TrendUp, glucose.Direction)

	creatinine := trends[1]
	assert.InDelta(t, -10.0, creatinine.ChangePercent, 1e-9)
	assert.Equal(t, model.TrendDown, creatinine.Direction)

	hemoglobin := trends[2]
	assert.Equal(t, model.TrendStable, hemoglobin.Direction)
	assert.Zero(t, hemoglobin.ChangePercent)
}

func TestCalculateTrendsSkipsUnsharedParameters(t *testing.T) {
	current := map[model.Parameter]float64{model.ParamGlucose: 6.0}
	previous := map[model.Parameter]float64{model.ParamCreatinine: 100}

	trends := CalculateTrends(current, previous,
		[]model.Parameter{model.ParamGlucose, model.ParamCreatinine})
	assert.Empty(t, trends)
}

func TestCalculateTrendsZeroPrevious(t *testing.T) {
	current := map[model.Parameter]float64{model.ParamESR: 5}
	previous := map[model.Parameter]float64{model.ParamESR: 0}

	trends := CalculateTrends(current, previous, []model.Parameter{model.ParamESR})
	require.Len(t, trends, 1)
	assert.Zero(t, trends[0].ChangePercent)
	assert.Equal(t, model.TrendUp, trends[0].Direction)
}

func TestSignificant(t *testing.T) {
	assert.True(t, significant(model.Trend{ChangePercent: 20}))
	assert.True(t, significant(model.Trend{ChangePercent: -15}))
	assert.False(t, significant(model.Trend{ChangePercent: 10}))
	assert.False(t, significant(model.Trend{ChangePercent: -5}))
}
