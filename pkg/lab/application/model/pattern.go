package model

type PatternRule string

const (
	// RuleAllLow and RuleAllHigh require every indicator to be strictly
	// low/high without reaching critical severity.
	RuleAllLow  PatternRule = "all_low"
	RuleAllHigh PatternRule = "all_high"
	// RuleAllElevated and RuleFirstElevated accept critical values too.
	RuleAllElevated   PatternRule = "all_elevated"
	RuleFirstElevated PatternRule = "first_elevated"
)

type PatternSeverity string

const (
	PatternSeverityMedium   PatternSeverity = "medium"
	PatternSeverityHigh     PatternSeverity = "high"
	PatternSeverityCritical PatternSeverity = "critical"
)

type Pattern struct {
	Name       string
	Indicators []Parameter
	Rule       PatternRule
	Severity   PatternSeverity
}

type PatternMatch struct {
	Pattern  Pattern
	Values   map[Parameter]float64
	Statuses map[Parameter]Classification
}

// DefaultPatterns lists the built-in correlations between parameters.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:       "Anemia",
			Indicators: []Parameter{ParamHemoglobin, ParamErythrocytes, ParamHematocrit},
			Rule:       RuleAllLow,
			Severity:   PatternSeverityHigh,
		},
		{
			Name:       "Inflammation",
			Indicators: []Parameter{ParamLeukocytes, ParamESR},
			Rule:       RuleAllElevated,
			Severity:   PatternSeverityMedium,
		},
		{
			Name:       "Hepatic failure",
			Indicators: []Parameter{ParamALT, ParamAST, ParamTotalBilirubin},
			Rule:       RuleAllHigh,
			Severity:   PatternSeverityCritical,
		},
		{
			Name:       "Renal failure",
			Indicators: []Parameter{ParamCreatinine, ParamUrea},
			Rule:       RuleAllElevated,
			Severity:   PatternSeverityCritical,
		},
		{
			Name:       "Diabetes",
			Indicators: []Parameter{ParamGlucose},
			Rule:       RuleFirstElevated,
			Severity:   PatternSeverityHigh,
		},
	}
}
