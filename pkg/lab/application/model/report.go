package model

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type Trend struct {
	Parameter     Parameter
	Current       float64
	Previous      float64
	Change        float64
	ChangePercent float64
	Direction     TrendDirection
}

type ReportRow struct {
	Parameter Parameter
	Name      string
	Value     float64
	Unit      string
	Min       float64
	Max       float64
	Status    Status
	Severity  Severity
}

type Report struct {
	Analysis      Analysis
	Rows          []ReportRow
	Patterns      []PatternMatch
	Trends        []Trend
	Insights      []string
	NormalCount   int
	AbnormalCount int
	CriticalCount int
}

type AbnormalityCount struct {
	Low      int
	High     int
	Critical int
}

type Analytics struct {
	TotalAnalyses  int
	StatCount      int
	AbnormalValues int
	CriticalValues int
	PerParameter   map[Parameter]AbnormalityCount
}
