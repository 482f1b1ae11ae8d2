package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsFor(t *testing.T) {
	catalog := DefaultCatalog()
	hemoglobin, ok := catalog.Lookup(ParamHemoglobin)
	require.True(t, ok)

	assert.Equal(t, Bounds{130, 160}, hemoglobin.BoundsFor(GenderMale))
	assert.Equal(t, Bounds{120, 150}, hemoglobin.BoundsFor(GenderFemale))
	assert.Equal(t, Bounds{120, 160}, hemoglobin.BoundsFor(GenderUnknown))

	glucose, ok := catalog.Lookup(ParamGlucose)
	require.True(t, ok)
	assert.Equal(t, Bounds{3.9, 5.9}, glucose.BoundsFor(GenderMale))
}

func TestClassify(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name     string
		param    Parameter
		value    float64
		gender   Gender
		expected Classification
	}{
		{
			name:  "normal", param: ParamGlucose, value: 5.0,
			expected: Classification{StatusNormal, SeverityNormal},
		},
		{
			name:  "high", param: ParamGlucose, value: 6.5,
			expected: Classification{StatusHigh, SeverityAbnormal},
		},
		{
			name:  "low", param: ParamGlucose, value: 3.0,
			expected: Classification{StatusLow, SeverityAbnormal},
		},
		{
			name:  "critically high", param: ParamGlucose, value: 26.0,
			expected: Classification{StatusHigh, SeverityCritical},
		},
		{
			name:  "critically low", param: ParamGlucose, value: 2.0,
			expected: Classification{StatusLow, SeverityCritical},
		},
		{
			name:  "male bound applies", param: ParamHemoglobin, value: 125, gender: GenderMale,
			expected: Classification{StatusLow, SeverityAbnormal},
		},
		{
			name:  "female bound applies", param: ParamHemoglobin, value: 125, gender: GenderFemale,
			expected: Classification{StatusNormal, SeverityNormal},
		},
		{
			name:  "general bound without gender", param: ParamHemoglobin, value: 125,
			expected: Classification{StatusNormal, SeverityNormal},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			classification, ok := catalog.Classify(test.param, test.value, test.gender)
			require.True(t, ok)
			assert.Equal(t, test.expected, classification)
		})
	}

	_, ok := catalog.Classify("unknown", 1.0, GenderUnknown)
	assert.False(t, ok)
}

func TestParameterGroupsCoverCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	grouped := make(map[Parameter]bool)
	for _, group := range ParameterGroups() {
		for _, param := range group.Parameters {
			_, ok := catalog.Lookup(param)
			assert.True(t, ok, "group %v references unknown parameter %v", group.Name, param)
			assert.False(t, grouped[param], "parameter %v grouped twice", param)
			grouped[param] = true
		}
	}
	assert.Len(t, grouped, len(catalog))
}
