package main

import (
	stdcontext "context"
	"fmt"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/dependency"
)

func printReport(ctx stdcontext.Context, patientID string) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	report, err := dependencyContainer.Analyses().LatestReport(ctx, patientID)
	if err != nil {
		return err
	}

	analysis := report.Analysis
	fmt.Printf("Patient %v (%v), priority %v, received %v\n",
		analysis.PatientID, analysis.PatientName, analysis.Priority,
		analysis.ReceivedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%-25v %12v %20v %10v\n", "PARAMETER", "VALUE", "REFERENCE", "STATUS")
	for _, row := range report.Rows {
		status := string(row.Status)
		if row.Severity == model.SeverityCritical {
			status = "CRITICAL " + status
		}
		fmt.Printf("%-25v %9.2f %v %13.2f - %.2f %10v\n",
			row.Name, row.Value, row.Unit, row.Min, row.Max, status)
	}
	fmt.Printf("normal: %v, abnormal: %v, critical: %v\n",
		report.NormalCount, report.AbnormalCount, report.CriticalCount)

	if len(report.Patterns) > 0 {
		fmt.Println("Detected patterns:")
		for _, match := range report.Patterns {
			fmt.Printf("  %v (severity %v)\n", match.Pattern.Name, match.Pattern.Severity)
		}
	}
	if len(report.Insights) > 0 {
		fmt.Println("Insights:")
		for _, insight := range report.Insights {
			fmt.Printf("  %v\n", insight)
		}
	}
	return nil
}
