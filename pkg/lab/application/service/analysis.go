package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/google/uuid"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

const defaultQueueLimit = 10

// ErrAnalysisNotFound marks lookups for analyses the store does not hold.
var ErrAnalysisNotFound = errors.New("analysis not found")

type AnalysisStore interface {
	Append(ctx context.Context, analysis model.Analysis) error
	List(ctx context.Context) ([]model.Analysis, error)
	ByPatient(ctx context.Context, patientID model.PatientID) ([]model.Analysis, error)
	ByID(ctx context.Context, id model.AnalysisID) (model.Analysis, bool, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type SubmitRequest struct {
	PatientID   model.PatientID
	PatientName string
	Gender      model.Gender
	Age         int
	Stat        bool
	Requested   []model.Parameter
	Results     map[model.Parameter]float64
}

type QueueEntry struct {
	Position      int
	AnalysisID    model.AnalysisID
	PatientID     model.PatientID
	PatientName   string
	Priority      model.Priority
	CriticalCount int
	ReceivedAt    time.Time
}

// ValidationError carries the quality-check problems that blocked a submit.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "analysis failed validation: " + strings.Join(e.Problems, "; ")
}

type Analyses interface {
	Submit(ctx context.Context, request SubmitRequest) (model.Analysis, []string, error)
	Queue(ctx context.Context, limit int) ([]QueueEntry, error)
	History(ctx context.Context, patientID model.PatientID) ([]model.Analysis, error)
	Report(ctx context.Context, id model.AnalysisID) (model.Report, error)
	LatestReport(ctx context.Context, patientID model.PatientID) (model.Report, error)
	Analytics(ctx context.Context) (model.Analytics, error)
	PurgeExpired(ctx context.Context) (int, error)
	SeedDemo(ctx context.Context) (int, error)
}

func NewAnalysisService(
	catalog model.RangeCatalog,
	patterns []model.Pattern,
	retention time.Duration,
	logger applogger.Logger,
	store AnalysisStore,
) Analyses {
	return &analyses{
		catalog:   catalog,
		patterns:  patterns,
		retention: retention,
		logger:    logger,
		store:     store,
	}
}

type analyses struct {
	catalog   model.RangeCatalog
	patterns  []model.Pattern
	retention time.Duration

	logger applogger.Logger
	store  AnalysisStore
}

func (service *analyses) Submit(ctx context.Context, request SubmitRequest) (model.Analysis, []string, error) {
	if request.PatientID == "" {
		return model.Analysis{}, nil, &ValidationError{Problems: []string{"patient id is empty"}}
	}
	if len(request.Results) == 0 {
		return model.Analysis{}, nil, &ValidationError{Problems: []string{"no results provided"}}
	}
	requested := request.Requested
	if len(requested) == 0 {
		requested = make([]model.Parameter, 0, len(request.Results))
		for param := range request.Results {
			requested = append(requested, param)
		}
		sort.Strings(requested)
	}

	errs, warnings := QualityCheck(service.catalog, request.Results, requested)
	if len(errs) > 0 {
		return model.Analysis{}, warnings, &ValidationError{Problems: errs}
	}

	priority := model.PriorityRoutine
	if request.Stat {
		priority = model.PriorityStat
	}
	analysis := model.Analysis{
		ID:          uuid.NewString(),
		PatientID:   request.PatientID,
		PatientName: request.PatientName,
		Gender:      request.Gender,
		Age:         request.Age,
		Priority:    priority,
		Requested:   requested,
		Results:     request.Results,
		ReceivedAt:  time.Now(),
	}
	err := service.store.Append(ctx, analysis)
	if err != nil {
		return model.Analysis{}, warnings, err
	}
	service.logger.Info(fmt.Sprintf("stored analysis %v for patient %v (priority %v)", analysis.ID, analysis.PatientID, priority))
	return analysis, warnings, nil
}

func (service *analyses) Queue(ctx context.Context, limit int) ([]QueueEntry, error) {
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	all, err := service.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].Priority == model.PriorityStat) != (all[j].Priority == model.PriorityStat) {
			return all[i].Priority == model.PriorityStat
		}
		return all[i].ReceivedAt.After(all[j].ReceivedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}

	entries := make([]QueueEntry, 0, len(all))
	for i, analysis := range all {
		entries = append(entries, QueueEntry{
			Position:      i + 1,
			AnalysisID:    analysis.ID,
			PatientID:     analysis.PatientID,
			PatientName:   analysis.PatientName,
			Priority:      analysis.Priority,
			CriticalCount: service.criticalCount(analysis),
			ReceivedAt:    analysis.ReceivedAt,
		})
	}
	return entries, nil
}

func (service *analyses) History(ctx context.Context, patientID model.PatientID) ([]model.Analysis, error) {
	return service.store.ByPatient(ctx, patientID)
}

func (service *analyses) Report(ctx context.Context, id model.AnalysisID) (model.Report, error) {
	analysis, found, err := service.store.ByID(ctx, id)
	if err != nil {
		return model.Report{}, err
	}
	if !found {
		return model.Report{}, fmt.Errorf("%w: id %v", ErrAnalysisNotFound, id)
	}
	history, err := service.store.ByPatient(ctx, analysis.PatientID)
	if err != nil {
		return model.Report{}, err
	}
	return service.buildReport(analysis, history), nil
}

func (service *analyses) LatestReport(ctx context.Context, patientID model.PatientID) (model.Report, error) {
	history, err := service.store.ByPatient(ctx, patientID)
	if err != nil {
		return model.Report{}, err
	}
	if len(history) == 0 {
		return model.Report{}, fmt.Errorf("%w: patient %v has no analyses", ErrAnalysisNotFound, patientID)
	}
	return service.buildReport(history[0], history), nil
}

func (service *analyses) Analytics(ctx context.Context) (model.Analytics, error) {
	all, err := service.store.List(ctx)
	if err != nil {
		return model.Analytics{}, err
	}
	analytics := model.Analytics{
		TotalAnalyses: len(all),
		PerParameter:  make(map[model.Parameter]model.AbnormalityCount),
	}
	for _, analysis := range all {
		if analysis.Priority == model.PriorityStat {
			analytics.StatCount++
		}
		for param, value := range analysis.Results {
			classification, ok := service.catalog.Classify(param, value, analysis.Gender)
			if !ok || classification.Severity == model.SeverityNormal {
				continue
			}
			analytics.AbnormalValues++
			count := analytics.PerParameter[param]
			switch {
			case classification.Severity == model.SeverityCritical:
				analytics.CriticalValues++
				count.Critical++
			case classification.Status == model.StatusHigh:
				count.High++
			case classification.Status == model.StatusLow:
				count.Low++
			}
			analytics.PerParameter[param] = count
		}
	}
	return analytics, nil
}

func (service *analyses) PurgeExpired(ctx context.Context) (int, error) {
	if service.retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-service.retention)
	purged, err := service.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		service.logger.Info(fmt.Sprintf("purged %v analyses older than %v", purged, cutoff.Format(time.RFC3339)))
	}
	return purged, nil
}

func (service *analyses) SeedDemo(ctx context.Context) (int, error) {
	demo := DemoAnalyses(time.Now())
	for _, analysis := range demo {
		err := service.store.Append(ctx, analysis)
		if err != nil {
			return 0, err
		}
	}
	return len(demo), nil
}

func (service *analyses) buildReport(analysis model.Analysis, history []model.Analysis) model.Report {
	report := model.Report{Analysis: analysis}

	for _, param := range analysis.Requested {
		value, ok := analysis.Results[param]
		if !ok {
			continue
		}
		r, known := service.catalog.Lookup(param)
		if !known {
			continue
		}
		classification, _ := service.catalog.Classify(param, value, analysis.Gender)
		bounds := r.BoundsFor(analysis.Gender)
		report.Rows = append(report.Rows, model.ReportRow{
			Parameter: param,
			Name:      r.Name,
			Value:     value,
			Unit:      r.Unit,
			Min:       bounds.Min,
			Max:       bounds.Max,
			Status:    classification.Status,
			Severity:  classification.Severity,
		})
		switch classification.Severity {
		case model.SeverityNormal:
			report.NormalCount++
		case model.SeverityAbnormal:
			report.AbnormalCount++
		case model.SeverityCritical:
			report.CriticalCount++
			report.Insights = append(report.Insights,
				fmt.Sprintf("CRITICAL: %v = %.2f %v", r.Name, value, r.Unit))
		}
	}

	report.Patterns = DetectPatterns(service.catalog, service.patterns, analysis.Results, analysis.Gender)

	previous, hasPrevious := previousAnalysis(analysis, history)
	if hasPrevious {
		report.Trends = CalculateTrends(analysis.Results, previous.Results, analysis.Requested)
		for _, trend := range report.Trends {
			if !significant(trend) {
				continue
			}
			name := trend.Parameter
			unit := ""
			if r, known := service.catalog.Lookup(trend.Parameter); known {
				name = r.Name
				unit = " " + r.Unit
			}
			report.Insights = append(report.Insights,
				fmt.Sprintf("%v: changed by %.1f%% (%.2f -> %.2f%v)", name, trend.ChangePercent, trend.Previous, trend.Current, unit))
		}
	}

	return report
}

func (service *analyses) criticalCount(analysis model.Analysis) int {
	count := 0
	for param, value := range analysis.Results {
		classification, ok := service.catalog.Classify(param, value, analysis.Gender)
		if ok && classification.Severity == model.SeverityCritical {
			count++
		}
	}
	return count
}

// previousAnalysis picks the newest analysis of the same patient strictly
// older than the given one.
func previousAnalysis(analysis model.Analysis, history []model.Analysis) (model.Analysis, bool) {
	var previous model.Analysis
	found := false
	for _, candidate := range history {
		if candidate.ID == analysis.ID || !candidate.ReceivedAt.Before(analysis.ReceivedAt) {
			continue
		}
		if !found || candidate.ReceivedAt.After(previous.ReceivedAt) {
			previous = candidate
			found = true
		}
	}
	return previous, found
}
