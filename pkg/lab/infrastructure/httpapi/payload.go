package httpapi

import (
	"time"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
)

type analysisPayload struct {
	ID          string             `json:"id"`
	PatientID   string             `json:"patientId"`
	PatientName string             `json:"patientName,omitempty"`
	Gender      string             `json:"gender,omitempty"`
	Age         int                `json:"age,omitempty"`
	Priority    string             `json:"priority"`
	Requested   []string           `json:"requested"`
	Results     map[string]float64 `json:"results"`
	ReceivedAt  time.Time          `json:"receivedAt"`
}

type queueEntryPayload struct {
	Position      int       `json:"position"`
	AnalysisID    string    `json:"analysisId"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName,omitempty"`
	Priority      string    `json:"priority"`
	CriticalCount int       `json:"criticalCount"`
	ReceivedAt    time.Time `json:"receivedAt"`
}

type reportRowPayload struct {
	Parameter string  `json:"parameter"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Status    string  `json:"status"`
	Severity  string  `json:"severity"`
}

type patternPayload struct {
	Name     string             `json:"name"`
	Severity string             `json:"severity"`
	Values   map[string]float64 `json:"values"`
}

type trendPayload struct {
	Parameter     string  `json:"parameter"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Direction     string  `json:"direction"`
}

type reportPayload struct {
	Analysis      analysisPayload    `json:"analysis"`
	Rows          []reportRowPayload `json:"rows"`
	Patterns      []patternPayload   `json:"patterns,omitempty"`
	Trends        []trendPayload     `json:"trends,omitempty"`
	Insights      []string           `json:"insights,omitempty"`
	NormalCount   int                `json:"normalCount"`
	AbnormalCount int                `json:"abnormalCount"`
	CriticalCount int                `json:"criticalCount"`
}

type abnormalityCountPayload struct {
	Low      int `json:"low"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

type analyticsPayload struct {
	TotalAnalyses  int                                `json:"totalAnalyses"`
	StatCount      int                                `json:"statCount"`
	AbnormalValues int                                `json:"abnormalValues"`
	CriticalValues int                                `json:"criticalValues"`
	PerParameter   map[string]abnormalityCountPayload `json:"perParameter"`
}

func mapAnalysis(analysis model.Analysis) analysisPayload {
	return analysisPayload{
		ID:          analysis.ID,
		PatientID:   analysis.PatientID,
		PatientName: analysis.PatientName,
		Gender:      string(analysis.Gender),
		Age:         analysis.Age,
		Priority:    string(analysis.Priority),
		Requested:   analysis.Requested,
		Results:     analysis.Results,
		ReceivedAt:  analysis.ReceivedAt,
	}
}

func mapQueue(entries []service.QueueEntry) []queueEntryPayload {
	out := make([]queueEntryPayload, 0, len(entries))
	for _, entry := range entries {
		out = append(out, queueEntryPayload{
			Position:      entry.Position,
			AnalysisID:    entry.AnalysisID,
			PatientID:     entry.PatientID,
			PatientName:   entry.PatientName,
			Priority:      string(entry.Priority),
			CriticalCount: entry.CriticalCount,
			ReceivedAt:    entry.ReceivedAt,
		})
	}
	return out
}

func mapReport(report model.Report) reportPayload {
	payload := reportPayload{
		Analysis:      mapAnalysis(report.Analysis),
		Rows:          make([]reportRowPayload, 0, len(report.Rows)),
		Insights:      report.Insights,
		NormalCount:   report.NormalCount,
		AbnormalCount: report.AbnormalCount,
		CriticalCount: report.CriticalCount,
	}
	for _, row := range report.Rows {
		payload.Rows = append(payload.Rows, reportRowPayload{
			Parameter: row.Parameter,
			Name:      row.Name,
			Value:     row.Value,
			Unit:      row.Unit,
			Min:       row.Min,
			Max:       row.Max,
			Status:    string(row.Status),
			Severity:  string(row.Severity),
		})
	}
	for _, match := range report.Patterns {
		payload.Patterns = append(payload.Patterns, patternPayload{
			Name:     match.Pattern.Name,
			Severity: string(match.Pattern.Severity),
			Values:   match.Values,
		})
	}
	for _, trend := range report.Trends {
		payload.Trends = append(payload.Trends, trendPayload{
			Parameter:     trend.Parameter,
			Current:       trend.Current,
			Previous:      trend.Previous,
			Change:        trend.Change,
			ChangePercent: trend.ChangePercent,
			Direction:     string(trend.Direction),
		})
	}
	return payload
}

func mapAnalytics(analytics model.Analytics) analyticsPayload {
	payload := analyticsPayload{
		TotalAnalyses:  analytics.TotalAnalyses,
		StatCount:      analytics.StatCount,
		AbnormalValues: analytics.AbnormalValues,
		CriticalValues: analytics.CriticalValues,
		PerParameter:   make(map[string]abnormalityCountPayload, len(analytics.PerParameter)),
	}
	for param, count := range analytics.PerParameter {
		payload.PerParameter[param] = abnormalityCountPayload{
			Low:      count.Low,
			High:     count.High,
			Critical: count.Critical,
		}
	}
	return payload
}
