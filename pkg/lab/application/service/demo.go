package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

// DemoAnalyses returns a small dataset for demonstrations: two analyses for
// the same patient (enables trends), one anemic profile and one hepatic one.
func DemoAnalyses(now time.Time) []model.Analysis {
	return []model.Analysis{
		{
			ID:          uuid.NewString(),
			PatientID:   "P-001",
			PatientName: "Ivanov Ivan",
			Gender:      model.GenderMale,
			Age:         45,
			Priority:    model.PriorityStat,
			Requested: []model.Parameter{
				model.ParamHemoglobin, model.ParamLeukocytes, model.ParamPlatelets,
				model.ParamGlucose, model.ParamCreatinine,
			},
			Results: map[model.Parameter]float64{
				model.ParamHemoglobin: 145.0,
				model.ParamLeukocytes: 12.5,
				model.ParamPlatelets:  180.0,
				model.ParamGlucose:    6.2,
				model.ParamCreatinine: 95.0,
			},
			ReceivedAt: now.Add(-5 * time.Minute),
		},
		{
			ID:          uuid.NewString(),
			PatientID:   "P-001",
			PatientName: "Ivanov Ivan",
			Gender:      model.GenderMale,
			Age:         45,
			Priority:    model.PriorityRoutine,
			Requested: []model.Parameter{
				model.ParamHemoglobin, model.ParamLeukocytes, model.ParamPlatelets,
				model.ParamGlucose, model.ParamCreatinine,
			},
			Results: map[model.Parameter]float64{
				model.ParamHemoglobin: 140.0,
				model.ParamLeukocytes: 8.5,
				model.ParamPlatelets:  200.0,
				model.ParamGlucose:    5.5,
				model.ParamCreatinine: 90.0,
			},
			ReceivedAt: now.Add(-7 * 24 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			PatientID:   "P-002",
			PatientName: "Petrova Maria",
			Gender:      model.GenderFemale,
			Age:         32,
			Priority:    model.PriorityRoutine,
			Requested: []model.Parameter{
				model.ParamHemoglobin, model.ParamErythrocytes,
				model.ParamLeukocytes, model.ParamESR,
			},
			Results: map[model.Parameter]float64{
				model.ParamHemoglobin:   115.0,
				model.ParamErythrocytes: 3.5,
				model.ParamLeukocytes:   5.2,
				model.ParamESR:          18.0,
			},
			ReceivedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			PatientID:   "P-003",
			PatientName: "Sidorov Petr",
			Gender:      model.GenderMale,
			Age:         58,
			Priority:    model.PriorityStat,
			Requested: []model.Parameter{
				model.ParamHemoglobin, model.ParamLeukocytes, model.ParamALT,
				model.ParamAST, model.ParamTotalBilirubin,
			},
			Results: map[model.Parameter]float64{
				model.ParamHemoglobin:     140.0,
				model.ParamLeukocytes:     8.5,
				model.ParamALT:            65.0,
				model.ParamAST:            55.0,
				model.ParamTotalBilirubin: 28.0,
			},
			ReceivedAt: now.Add(-15 * time.Minute),
		},
	}
}
